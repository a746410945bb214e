package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/my-order-link/restaurant-app/controllers"
	"github.com/my-order-link/restaurant-app/models"
	"github.com/my-order-link/restaurant-app/utils"
)

func setupTestDBForOrders(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.Order{}, &models.OrderItem{},
		&models.Product{}, &models.Category{},
		&models.TableSession{}, &models.Setting{},
	)
	if err != nil {
		panic(err)
	}

	db.Create(&models.Product{Name: "Ramen", Price: 900})
	db.Create(&models.Product{Name: "Gyoza", Price: 400, IsSoldOut: true})
	db.Create(&models.TableSession{
		TableID:     3,
		AccessToken: "tok-table-3",
		Status:      models.SessionActive,
	})
	return db
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	orderCtrl := controllers.NewOrderController(db)
	router.POST("/api/order", orderCtrl.PlaceOrder)
	router.GET("/api/get_order_history/:table_id", orderCtrl.GetOrderHistory)
	router.GET("/api/get_all_active_orders", orderCtrl.GetAllActiveOrders)
	router.POST("/api/update_item_status/:item_id", orderCtrl.UpdateItemStatus)
	router.POST("/api/update_item_quantity/:item_id", orderCtrl.UpdateItemQuantity)
	router.POST("/api/cancel_item/:item_id", orderCtrl.CancelItem)
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if payload != nil {
		json.NewEncoder(&buf).Encode(payload)
	}
	req, _ := http.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSONAuth(router *gin.Engine, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if payload != nil {
		json.NewEncoder(&buf).Encode(payload)
	}
	req, _ := http.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getJSON(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	return resp
}

func TestPlaceOrderMergesCookingLines(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	order := func(qty int) *httptest.ResponseRecorder {
		return postJSON(router, "/api/order", map[string]interface{}{
			"tableId":     3,
			"accessToken": "tok-table-3",
			"items": []map[string]interface{}{
				{"name": "Ramen", "quantity": qty},
			},
		})
	}

	w := order(2)
	assert.Equal(t, http.StatusOK, w.Code)
	w = order(1)
	assert.Equal(t, http.StatusOK, w.Code)

	// Same dish ordered again while cooking collapses into one line.
	var items []models.OrderItem
	db.Find(&items)
	assert.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, models.ItemCooking, items[0].Status)

	var o models.Order
	db.First(&o)
	assert.Equal(t, 2700.0, o.TotalPrice)
}

func TestPlaceOrderRequiresTableToken(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	w := postJSON(router, "/api/order", map[string]interface{}{
		"tableId": 3,
		"items":   []map[string]interface{}{{"name": "Ramen", "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeBody(t, w)["code"])

	w = postJSON(router, "/api/order", map[string]interface{}{
		"tableId":     3,
		"accessToken": "wrong-token",
		"items":       []map[string]interface{}{{"name": "Ramen", "quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeBody(t, w)["code"])

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestPlaceOrderRejectsSoldOut(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	w := postJSON(router, "/api/order", map[string]interface{}{
		"tableId":     3,
		"accessToken": "tok-table-3",
		"items":       []map[string]interface{}{{"name": "Gyoza", "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILURE", decodeBody(t, w)["code"])
}

func seedCookingItem(db *gorm.DB, tableID uint) models.OrderItem {
	order := models.Order{TableID: tableID, Status: models.OrderActive}
	db.Create(&order)
	item := models.OrderItem{
		OrderID:  order.ID,
		ItemName: "Ramen",
		Quantity: 2,
		Price:    900,
		Status:   models.ItemCooking,
	}
	db.Create(&item)
	db.Model(&order).Update("total_price", 1800)
	return item
}

func TestItemStatusLifecycle(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)
	item := seedCookingItem(db, 3)

	path := fmt.Sprintf("/api/update_item_status/%d", item.ID)

	w := postJSON(router, path, map[string]string{"status": "ready"})
	assert.Equal(t, http.StatusOK, w.Code)
	var got models.OrderItem
	db.First(&got, item.ID)
	assert.Equal(t, models.ItemReady, got.Status)
	assert.NotNil(t, got.ReadyAt)

	w = postJSON(router, path, map[string]string{"status": "served"})
	assert.Equal(t, http.StatusOK, w.Code)
	db.First(&got, item.ID)
	assert.Equal(t, models.ItemServed, got.Status)

	// Served is terminal.
	w = postJSON(router, path, map[string]string{"status": "ready"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", decodeBody(t, w)["code"])
}

func TestServeWhileCookingRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)
	item := seedCookingItem(db, 3)

	path := fmt.Sprintf("/api/update_item_status/%d", item.ID)
	w := postJSON(router, path, map[string]string{"status": "served"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", decodeBody(t, w)["code"])

	// The item must be left exactly as it was.
	var got models.OrderItem
	db.First(&got, item.ID)
	assert.Equal(t, models.ItemCooking, got.Status)
	assert.Nil(t, got.ReadyAt)
}

func TestUpdateItemQuantityRules(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)
	item := seedCookingItem(db, 3)

	path := fmt.Sprintf("/api/update_item_quantity/%d", item.ID)

	w := postJSON(router, path, map[string]int{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILURE", decodeBody(t, w)["code"])

	w = postJSON(router, path, map[string]int{"quantity": 5})
	assert.Equal(t, http.StatusOK, w.Code)
	var got models.OrderItem
	db.First(&got, item.ID)
	assert.Equal(t, 5, got.Quantity)

	var o models.Order
	db.First(&o, item.OrderID)
	assert.Equal(t, 4500.0, o.TotalPrice)

	// Once the kitchen marks it ready the quantity is frozen.
	db.Model(&got).Update("status", models.ItemReady)
	w = postJSON(router, path, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", decodeBody(t, w)["code"])
}

func TestCancelItemKeepsRecordAndDropsEmptyOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	item := seedCookingItem(db, 3)
	second := models.OrderItem{
		OrderID:  item.OrderID,
		ItemName: "Beer",
		Quantity: 1,
		Price:    500,
		Status:   models.ItemCooking,
	}
	db.Create(&second)

	w := postJSON(router, fmt.Sprintf("/api/cancel_item/%d", second.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The cancelled row stays for the kitchen log; the total drops.
	var got models.OrderItem
	db.First(&got, second.ID)
	assert.Equal(t, models.ItemCancelled, got.Status)
	var o models.Order
	db.First(&o, item.OrderID)
	assert.Equal(t, 1800.0, o.TotalPrice)

	// Cancelling the last live item removes the whole order.
	w = postJSON(router, fmt.Sprintf("/api/cancel_item/%d", item.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var orderCount int64
	db.Model(&models.Order{}).Where("id = ?", item.OrderID).Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestCancelServedItemRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	item := seedCookingItem(db, 3)
	db.Model(&models.OrderItem{}).Where("id = ?", item.ID).
		Update("status", models.ItemServed)

	w := postJSON(router, fmt.Sprintf("/api/cancel_item/%d", item.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", decodeBody(t, w)["code"])
}

func TestOrderHistoryHidesCancelled(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	item := seedCookingItem(db, 3)
	cancelled := models.OrderItem{
		OrderID:  item.OrderID,
		ItemName: "Beer",
		Quantity: 1,
		Price:    500,
		Status:   models.ItemCancelled,
	}
	db.Create(&cancelled)

	req, _ := http.NewRequest("GET", "/api/get_order_history/3?token=tok-table-3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, 1800.0, data["total_price"])

	// No token, no history.
	req, _ = http.NewRequest("GET", "/api/get_order_history/3", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
