package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/my-order-link/restaurant-app/controllers"
	"github.com/my-order-link/restaurant-app/models"
	"github.com/my-order-link/restaurant-app/utils"
)

func setupTestDBForMenu(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Category{}); err != nil {
		panic(err)
	}
	return db
}

func setupMenuRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	menuCtrl := controllers.NewMenuController(db)
	router.GET("/api/get_products", menuCtrl.GetProducts)
	router.GET("/api/get_categories", menuCtrl.GetCategories)
	router.POST("/api/admin/add_category", menuCtrl.CreateCategory)
	router.POST("/api/admin/delete_category/:cat_id", menuCtrl.DeleteCategory)
	router.POST("/api/admin/add_product", menuCtrl.CreateProduct)
	router.POST("/api/admin/update_product_status/:product_id", menuCtrl.UpdateProductStatus)
	return router
}

func TestProductWithCategories(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenu(t)
	router := setupMenuRouter(db)

	w := postJSON(router, "/api/admin/add_category", map[string]interface{}{
		"name_jp": "麺類", "name_en": "Noodles",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	catID := decodeBody(t, w)["data"].(map[string]interface{})["id"].(float64)

	w = postJSON(router, "/api/admin/add_product", map[string]interface{}{
		"name":         "Ramen",
		"price":        900,
		"category_ids": []float64{catID},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// The customer list carries the flattened category string.
	w = getJSON(router, "/api/get_products")
	assert.Equal(t, http.StatusOK, w.Code)
	products := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, products, 1)
	product := products[0].(map[string]interface{})
	assert.Equal(t, "Ramen", product["name"])
	assert.Equal(t, "麺類", product["category"])
	assert.False(t, product["is_sold_out"].(bool))

	// A category still in use cannot be deleted.
	w = postJSON(router, fmt.Sprintf("/api/admin/delete_category/%d", int(catID)), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CONFLICT", decodeBody(t, w)["code"])
}

func TestDuplicateProductNameRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenu(t)
	router := setupMenuRouter(db)

	w := postJSON(router, "/api/admin/add_product", map[string]interface{}{
		"name": "Ramen", "price": 900,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/api/admin/add_product", map[string]interface{}{
		"name": "Ramen", "price": 950,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decodeBody(t, w)["code"])
}

func TestSoldOutToggle(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenu(t)
	router := setupMenuRouter(db)

	product := models.Product{Name: "Gyoza", Price: 400}
	db.Create(&product)

	path := fmt.Sprintf("/api/admin/update_product_status/%d", product.ID)
	w := postJSON(router, path, map[string]interface{}{"is_sold_out": true})
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Product
	db.First(&got, product.ID)
	assert.True(t, got.IsSoldOut)

	w = postJSON(router, path, map[string]interface{}{"is_sold_out": false})
	assert.Equal(t, http.StatusOK, w.Code)
	db.First(&got, product.ID)
	assert.False(t, got.IsSoldOut)
}

func TestCategoriesSortedByDisplayOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenu(t)
	router := setupMenuRouter(db)

	db.Create(&models.Category{NameJP: "デザート", DisplayOrder: 5})
	db.Create(&models.Category{NameJP: "ドリンク", DisplayOrder: 1})

	w := getJSON(router, "/api/get_categories")
	assert.Equal(t, http.StatusOK, w.Code)
	categories := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, categories, 2)
	assert.Equal(t, "ドリンク", categories[0].(map[string]interface{})["name_jp"])
}
