package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/my-order-link/restaurant-app/models"
	"github.com/my-order-link/restaurant-app/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetProducts -> full menu for the customer page, categories preloaded.
// The flattened "category" string keeps the display code simple.
func (mc *MenuController) GetProducts(c *gin.Context) {
	var products []models.Product
	if err := mc.DB.Preload("Categories").Order("id").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	type productView struct {
		models.Product
		Category string `json:"category"`
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		names := make([]string, 0, len(p.Categories))
		for _, cat := range p.Categories {
			names = append(names, cat.NameJP)
		}
		views = append(views, productView{Product: p, Category: strings.Join(names, " ")})
	}

	utils.RespondJSON(c, http.StatusOK, "List of products", views)
}

// GetCategories -> categories in display order.
func (mc *MenuController) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := mc.DB.Order("display_order, id").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

/*
========================================
 ADMIN: CATEGORY CRUD
========================================
*/

func (mc *MenuController) CreateCategory(c *gin.Context) {
	var body struct {
		NameJP string  `json:"name_jp" binding:"required"`
		NameEn *string `json:"name_en"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	category := models.Category{NameJP: body.NameJP, NameEn: body.NameEn}
	if err := mc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, utils.CodeConflict,
			errors.New("that category name is already in use"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", gin.H{"id": category.ID})
}

func (mc *MenuController) UpdateCategory(c *gin.Context) {
	catID := c.Param("cat_id")

	var body struct {
		NameJP       string  `json:"name_jp" binding:"required"`
		NameEn       *string `json:"name_en"`
		DisplayOrder *int    `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	var category models.Category
	if err := mc.DB.First(&category, catID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.CodeNotFound, err)
		return
	}

	category.NameJP = body.NameJP
	category.NameEn = body.NameEn
	if body.DisplayOrder != nil {
		category.DisplayOrder = *body.DisplayOrder
	}
	if err := mc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, utils.CodeConflict,
			errors.New("that category name is already in use"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

func (mc *MenuController) DeleteCategory(c *gin.Context) {
	catID := c.Param("cat_id")

	var inUse int64
	if err := mc.DB.Table("product_categories").
		Where("category_id = ?", catID).Count(&inUse).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}
	if inUse > 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeConflict,
			errors.New("category is still used by menu items"))
		return
	}

	if err := mc.DB.Delete(&models.Category{}, catID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", nil)
}

/*
========================================
 ADMIN: PRODUCT CRUD
========================================
*/

type productReq struct {
	Name          string  `json:"name" binding:"required"`
	NameEn        *string `json:"name_en"`
	Price         float64 `json:"price"`
	Description   string  `json:"description"`
	DescriptionEn *string `json:"description_en"`
	ImagePath     string  `json:"image_path"`
	CategoryIDs   []uint  `json:"category_ids"`
}

func (mc *MenuController) CreateProduct(c *gin.Context) {
	var body productReq
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	product := models.Product{
		Name:          body.Name,
		NameEn:        body.NameEn,
		Price:         body.Price,
		Description:   body.Description,
		DescriptionEn: body.DescriptionEn,
		ImagePath:     strings.ToLower(body.ImagePath),
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return mc.replaceCategories(tx, &product, body.CategoryIDs)
	})
	if err != nil {
		utils.RespondError(c, http.StatusConflict, utils.CodeConflict,
			errors.New("that product name is already in use"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Product created", gin.H{"productId": product.ID})
}

func (mc *MenuController) UpdateProduct(c *gin.Context) {
	productID := c.Param("product_id")

	var body productReq
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	var product models.Product
	if err := mc.DB.First(&product, productID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.CodeNotFound, err)
		return
	}

	product.Name = body.Name
	product.NameEn = body.NameEn
	product.Price = body.Price
	product.Description = body.Description
	product.DescriptionEn = body.DescriptionEn
	product.ImagePath = strings.ToLower(body.ImagePath)

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		return mc.replaceCategories(tx, &product, body.CategoryIDs)
	})
	if err != nil {
		utils.RespondError(c, http.StatusConflict, utils.CodeConflict,
			errors.New("that product name is already in use"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// UpdateProductStatus -> toggle sold-out without touching the rest.
func (mc *MenuController) UpdateProductStatus(c *gin.Context) {
	productID := c.Param("product_id")

	var body struct {
		IsSoldOut *bool `json:"is_sold_out" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	var product models.Product
	if err := mc.DB.First(&product, productID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.CodeNotFound, err)
		return
	}

	product.IsSoldOut = *body.IsSoldOut
	if err := mc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	utils.InfoLogger.Printf("Product %d sold_out=%v", product.ID, product.IsSoldOut)
	utils.RespondJSON(c, http.StatusOK, "Product status updated", product)
}

func (mc *MenuController) DeleteProduct(c *gin.Context) {
	productID := c.Param("product_id")

	var product models.Product
	if err := mc.DB.First(&product, productID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.CodeNotFound, err)
		return
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"id": product.ID})
}

func (mc *MenuController) replaceCategories(tx *gorm.DB, product *models.Product, ids []uint) error {
	if err := tx.Model(product).Association("Categories").Clear(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	var categories []models.Category
	if err := tx.Find(&categories, ids).Error; err != nil {
		return err
	}
	if len(categories) != len(ids) {
		return fmt.Errorf("unknown category in %v", ids)
	}
	return tx.Model(product).Association("Categories").Append(&categories)
}
