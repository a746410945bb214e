package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/my-order-link/restaurant-app/controllers"
	"github.com/my-order-link/restaurant-app/models"
	"github.com/my-order-link/restaurant-app/notify"
	"github.com/my-order-link/restaurant-app/utils"
)

func setupTestDBForTables(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.Order{}, &models.OrderItem{},
		&models.TableSession{}, &models.Call{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func setupTableRouter(db *gorm.DB, hub *notify.Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	tableCtrl := controllers.NewTableController(db, hub)
	router.POST("/api/generate_table_token/:table_id", tableCtrl.GenerateTableToken)
	router.GET("/api/get_table_summary", tableCtrl.GetTableSummary)
	router.POST("/api/checkout_table/:table_id", tableCtrl.CheckoutTable)
	router.GET("/api/get_paid_orders", tableCtrl.GetPaidOrders)
	return router
}

func seedTableOrder(db *gorm.DB, tableID uint, statuses ...string) models.Order {
	order := models.Order{TableID: tableID, Status: models.OrderActive}
	db.Create(&order)
	var total float64
	for i, status := range statuses {
		item := models.OrderItem{
			OrderID:  order.ID,
			ItemName: fmt.Sprintf("Dish %d", i+1),
			Quantity: 1,
			Price:    1000,
			Status:   status,
		}
		db.Create(&item)
		if status != models.ItemCancelled {
			total += item.Price
		}
	}
	db.Model(&order).Update("total_price", total)
	return order
}

func TestCheckoutRequiresEveryItemServed(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)
	router := setupTableRouter(db, notify.NewHub())

	order := seedTableOrder(db, 7, models.ItemServed, models.ItemCooking)

	w := postJSON(router, "/api/checkout_table/7", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", decodeBody(t, w)["code"])

	// Nothing moved.
	var got models.Order
	db.First(&got, order.ID)
	assert.Equal(t, models.OrderActive, got.Status)

	db.Model(&models.OrderItem{}).
		Where("order_id = ?", order.ID).
		Update("status", models.ItemServed)

	w = postJSON(router, "/api/checkout_table/7", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	db.First(&got, order.ID)
	assert.Equal(t, models.OrderPaid, got.Status)
	assert.NotNil(t, got.PaidAt)
}

func TestCheckoutClearsSessionAndCall(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)
	hub := notify.NewHub()
	router := setupTableRouter(db, hub)

	seedTableOrder(db, 7, models.ItemServed)
	db.Create(&models.TableSession{
		TableID: 7, AccessToken: "tok-table-7", Status: models.SessionActive,
	})
	db.Create(&models.Call{
		TableID: 7, CallType: models.CallCheckout, CallTime: time.Now(),
	})

	events, cancel := hub.Subscribe()
	defer cancel()

	w := postJSON(router, "/api/checkout_table/7", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var session models.TableSession
	db.Where("table_id = ?", 7).First(&session)
	assert.Equal(t, models.SessionExpired, session.Status)

	var callCount int64
	db.Model(&models.Call{}).Where("table_id = ?", 7).Count(&callCount)
	assert.Zero(t, callCount)

	// Every staff tab hears about the checkout immediately.
	select {
	case ev := <-events:
		assert.Equal(t, notify.EventTableCheckedOut, ev.Kind)
		assert.Equal(t, uint(7), ev.Data.TableID)
	case <-time.After(time.Second):
		t.Fatal("no checkout event received")
	}

	// A second checkout finds no active order.
	w = postJSON(router, "/api/checkout_table/7", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decodeBody(t, w)["code"])

	// The settled order shows up in today's history.
	reqPath := "/api/get_paid_orders"
	wGet := getJSON(router, reqPath)
	assert.Equal(t, http.StatusOK, wGet.Code)
	paid := decodeBody(t, wGet)["data"].([]interface{})
	assert.Len(t, paid, 1)
}

func TestGenerateTableTokenExpiresPrevious(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)
	router := setupTableRouter(db, notify.NewHub())

	w := postJSON(router, "/api/generate_table_token/4", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	first := decodeBody(t, w)["data"].(map[string]interface{})["accessToken"].(string)

	w = postJSON(router, "/api/generate_table_token/4", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	second := decodeBody(t, w)["data"].(map[string]interface{})["accessToken"].(string)
	assert.NotEqual(t, first, second)

	var active []models.TableSession
	db.Where("table_id = ? AND status = ?", 4, models.SessionActive).Find(&active)
	assert.Len(t, active, 1)
	assert.Equal(t, second, active[0].AccessToken)

	w = postJSON(router, "/api/generate_table_token/zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTableSummaryFlagsServedTables(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)
	router := setupTableRouter(db, notify.NewHub())

	seedTableOrder(db, 2, models.ItemServed, models.ItemCancelled)
	seedTableOrder(db, 6, models.ItemCooking)
	db.Create(&models.Call{
		TableID: 2, CallType: models.CallCheckout, CallTime: time.Now(),
	})

	w := getJSON(router, "/api/get_table_summary")
	assert.Equal(t, http.StatusOK, w.Code)
	tables := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, tables, 2)

	// Sorted by table ID.
	table2 := tables[0].(map[string]interface{})
	assert.Equal(t, 2.0, table2["table_id"])
	assert.True(t, table2["all_served"].(bool))
	assert.Equal(t, "checkout", table2["call_type"])

	table6 := tables[1].(map[string]interface{})
	assert.False(t, table6["all_served"].(bool))
	assert.Nil(t, table6["call_type"])
}
