package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/my-order-link/restaurant-app/controllers"
	"github.com/my-order-link/restaurant-app/middlewares"
	"github.com/my-order-link/restaurant-app/notify"
)

func SetupRouter(db *gorm.DB, hub *notify.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	orderCtrl := controllers.NewOrderController(db)
	callCtrl := controllers.NewCallController(db)
	tableCtrl := controllers.NewTableController(db, hub)
	menuCtrl := controllers.NewMenuController(db)
	settingsCtrl := controllers.NewSettingsController(db)
	adminCtrl := controllers.NewAdminController(db, hub)

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      PUBLIC / CUSTOMER
	// ----------------------------------------------------------------
	api.POST("/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)

	api.GET("/get_products", menuCtrl.GetProducts)
	api.GET("/get_categories", menuCtrl.GetCategories)
	api.GET("/get_public_store_info", settingsCtrl.GetPublicStoreInfo)
	api.GET("/get_opening_settings", settingsCtrl.GetOpeningSettings)

	// Table-token guarded (customer page)
	api.POST("/order", orderCtrl.PlaceOrder)
	api.POST("/call", callCtrl.CreateCall)
	api.GET("/get_order_history/:table_id", orderCtrl.GetOrderHistory)

	// ----------------------------------------------------------------
	//                      STAFF (bearer token)
	// ----------------------------------------------------------------
	staff := api.Group("/")
	staff.Use(middlewares.StaffAuthMiddleware())
	{
		staff.GET("/get_all_active_orders", orderCtrl.GetAllActiveOrders)
		staff.GET("/get_calls", callCtrl.GetCalls)
		staff.POST("/resolve_call/:table_id", callCtrl.ResolveCall)

		staff.POST("/update_item_status/:item_id", orderCtrl.UpdateItemStatus)
		staff.POST("/update_item_quantity/:item_id", orderCtrl.UpdateItemQuantity)
		staff.POST("/cancel_item/:item_id", orderCtrl.CancelItem)

		staff.POST("/generate_table_token/:table_id", tableCtrl.GenerateTableToken)
		staff.GET("/get_table_summary", tableCtrl.GetTableSummary)
		staff.POST("/checkout_table/:table_id", tableCtrl.CheckoutTable)
		staff.GET("/get_paid_orders", tableCtrl.GetPaidOrders)
		staff.GET("/get_order_for_print/:order_id", orderCtrl.GetOrderForPrint)

		// Staff tab event stream
		staff.GET("/events", hub.Handler)
	}

	// ----------------------------------------------------------------
	//                      ADMIN
	// ----------------------------------------------------------------
	admin := api.Group("/admin")
	admin.Use(middlewares.StaffAuthMiddleware(), middlewares.AdminOnly())
	{
		admin.GET("/get_categories", menuCtrl.GetCategories)
		admin.POST("/add_category", menuCtrl.CreateCategory)
		admin.POST("/update_category/:cat_id", menuCtrl.UpdateCategory)
		admin.POST("/delete_category/:cat_id", menuCtrl.DeleteCategory)

		admin.POST("/add_product", menuCtrl.CreateProduct)
		admin.POST("/update_product/:product_id", menuCtrl.UpdateProduct)
		admin.POST("/update_product_status/:product_id", menuCtrl.UpdateProductStatus)
		admin.POST("/delete_product/:product_id", menuCtrl.DeleteProduct)

		admin.GET("/get_store_info", settingsCtrl.GetStoreInfo)
		admin.POST("/update_store_info", settingsCtrl.UpdateStoreInfo)
		admin.POST("/update_opening", settingsCtrl.UpdateOpeningSettings)

		admin.POST("/change_password", userCtrl.ChangePassword)

		admin.GET("/get_sales_data", adminCtrl.GetSalesData)
		admin.GET("/get_cooking_times", adminCtrl.GetCookingTimes)
		admin.GET("/get_session_durations", adminCtrl.GetSessionDurations)

		admin.POST("/shutdown", adminCtrl.Shutdown)
	}

	return r
}
