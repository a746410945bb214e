package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/my-order-link/restaurant-app/models"
	"github.com/my-order-link/restaurant-app/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// GetAllActiveOrders -> every unpaid order with its items, oldest first.
// This is the read the kitchen and hall screens poll.
func (oc *OrderController) GetAllActiveOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Where("status != ?", models.OrderPaid).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of active orders", orders)
}

// PlaceOrder -> customer submission. Requires the table access token; items
// land in status cooking under the table's active order, which is created on
// demand. Ordering the same product again while it is still cooking merges
// into the existing line.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	type itemReq struct {
		Name     string `json:"name" binding:"required"`
		Quantity int    `json:"quantity" binding:"required,gt=0"`
	}
	type reqBody struct {
		TableID     uint      `json:"tableId" binding:"required"`
		AccessToken string    `json:"accessToken"`
		Items       []itemReq `json:"items" binding:"required,min=1,dive"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	if body.AccessToken == "" {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeUnauthenticated, ErrMissingTableToken)
		return
	}
	if !oc.tableTokenValid(body.TableID, body.AccessToken) {
		utils.RespondError(c, http.StatusForbidden, utils.CodeUnauthorized, ErrInvalidTableToken)
		return
	}

	var orderID uint
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Where("table_id = ? AND status = ?", body.TableID, models.OrderActive).
			First(&order).Error
		if err == gorm.ErrRecordNotFound {
			order = models.Order{
				TableID: body.TableID,
				Status:  models.OrderActive,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		orderID = order.ID

		for _, item := range body.Items {
			var product models.Product
			if err := tx.Where("name = ? AND is_sold_out = ?", item.Name, false).
				First(&product).Error; err != nil {
				return fmt.Errorf("%q is not available right now", item.Name)
			}

			var existing models.OrderItem
			err := tx.Where("order_id = ? AND item_name = ? AND status = ?",
				order.ID, item.Name, models.ItemCooking).First(&existing).Error
			if err == nil {
				existing.Quantity += item.Quantity
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}

			orderItem := models.OrderItem{
				OrderID:  order.ID,
				ItemName: item.Name,
				Quantity: item.Quantity,
				Price:    product.Price,
				Status:   models.ItemCooking,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}

		return recomputeOrderTotal(tx, order.ID)
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	utils.InfoLogger.Printf("Order placed: table=%d order=%d items=%d",
		body.TableID, orderID, len(body.Items))
	utils.RespondJSON(c, http.StatusOK, "Order received", gin.H{"orderId": orderID})
}

// GetOrderHistory -> the customer page's view of its own table. Guarded by
// the table access token passed as a query parameter.
func (oc *OrderController) GetOrderHistory(c *gin.Context) {
	tableID := c.Param("table_id")
	token := c.Query("token")
	if token == "" {
		utils.RespondError(c, http.StatusForbidden, utils.CodeUnauthenticated, ErrMissingTableToken)
		return
	}

	var session models.TableSession
	if err := oc.DB.Where("table_id = ? AND access_token = ? AND status = ?",
		tableID, token, models.SessionActive).First(&session).Error; err != nil {
		utils.RespondError(c, http.StatusForbidden, utils.CodeUnauthorized, ErrInvalidTableToken)
		return
	}

	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Where("table_id = ? AND status = ?", tableID, models.OrderActive).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	var items []models.OrderItem
	var total float64
	for _, order := range orders {
		for _, item := range order.LiveItems() {
			items = append(items, item)
			total += item.Price * float64(item.Quantity)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Order history", gin.H{
		"items":       items,
		"total_price": total,
	})
}

// UpdateItemStatus -> kitchen "complete" (cooking->ready) and hall "serve"
// (ready->served). Any backward or skip transition is rejected and the item
// is left untouched.
func (oc *OrderController) UpdateItemStatus(c *gin.Context) {
	itemID := c.Param("item_id")

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}
	if !models.IsValidItemStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation,
			fmt.Errorf("unknown item status %q", body.Status))
		return
	}

	var item models.OrderItem
	if err := oc.DB.First(&item, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.CodeNotFound, ErrItemNotFound)
		return
	}

	if !models.CanTransition(item.Status, body.Status) {
		utils.RespondError(c, http.StatusConflict, utils.CodeInvalidTransition,
			fmt.Errorf("cannot move item from %s to %s", item.Status, body.Status))
		return
	}

	item.Status = body.Status
	if body.Status == models.ItemReady {
		now := time.Now()
		item.ReadyAt = &now
	}
	if err := oc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	utils.InfoLogger.Printf("Item %d -> %s", item.ID, item.Status)
	utils.RespondJSON(c, http.StatusOK, "Item status updated", item)
}

// UpdateItemQuantity -> hall +/- buttons. Only a cooking item may change
// quantity, and never to zero or below; the hall issues a cancel instead.
func (oc *OrderController) UpdateItemQuantity(c *gin.Context) {
	itemID := c.Param("item_id")

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}
	if body.Quantity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation,
			fmt.Errorf("invalid quantity %d", body.Quantity))
		return
	}

	var item models.OrderItem
	if err := oc.DB.First(&item, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.CodeNotFound, ErrItemNotFound)
		return
	}

	if item.Status != models.ItemCooking {
		utils.RespondError(c, http.StatusConflict, utils.CodeInvalidTransition,
			fmt.Errorf("cannot change quantity of a %s item", item.Status))
		return
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		item.Quantity = body.Quantity
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return recomputeOrderTotal(tx, item.OrderID)
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item quantity updated", item)
}

// CancelItem -> hall cancel. Only valid while cooking; the item is kept with
// status cancelled so the kitchen log stays intact. An order whose live
// items all cancel disappears from the floor.
func (oc *OrderController) CancelItem(c *gin.Context) {
	itemID := c.Param("item_id")

	var item models.OrderItem
	if err := oc.DB.First(&item, itemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.CodeNotFound, ErrItemNotFound)
		return
	}

	if !models.CanTransition(item.Status, models.ItemCancelled) {
		utils.RespondError(c, http.StatusConflict, utils.CodeInvalidTransition,
			fmt.Errorf("cannot cancel a %s item", item.Status))
		return
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		item.Status = models.ItemCancelled
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		if err := recomputeOrderTotal(tx, item.OrderID); err != nil {
			return err
		}

		var liveCount int64
		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND status != ?", item.OrderID, models.ItemCancelled).
			Count(&liveCount).Error; err != nil {
			return err
		}
		if liveCount == 0 {
			if err := tx.Where("order_id = ?", item.OrderID).
				Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Order{}, item.OrderID).Error
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	utils.InfoLogger.Printf("Item %d cancelled", item.ID)
	utils.RespondJSON(c, http.StatusOK, "Item cancelled", gin.H{"item_id": item.ID})
}

// GetOrderForPrint -> order + items + store settings for the register's
// print dialog. Stamps printed_at; layout is the frontend's problem.
func (oc *OrderController) GetOrderForPrint(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.CodeNotFound, ErrOrderNotFound)
		return
	}

	var settings []models.Setting
	if err := oc.DB.Where("key LIKE ?", "store_%").Find(&settings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}
	storeInfo := make(map[string]string, len(settings))
	for _, s := range settings {
		storeInfo[s.Key] = s.Value
	}

	now := time.Now()
	oc.DB.Model(&order).Update("printed_at", &now)

	utils.RespondJSON(c, http.StatusOK, "Order for print", gin.H{
		"order":         order,
		"items":         order.Items,
		"store_info":    storeInfo,
		"total_display": utils.FormatCurrencyJPY(order.TotalPrice),
	})
}

func (oc *OrderController) tableTokenValid(tableID uint, token string) bool {
	var session models.TableSession
	err := oc.DB.Where("table_id = ? AND access_token = ? AND status = ?",
		tableID, token, models.SessionActive).First(&session).Error
	return err == nil
}

// recomputeOrderTotal keeps the order total equal to the sum of its
// non-cancelled items.
func recomputeOrderTotal(tx *gorm.DB, orderID uint) error {
	var total float64
	if err := tx.Model(&models.OrderItem{}).
		Where("order_id = ? AND status != ?", orderID, models.ItemCancelled).
		Select("COALESCE(SUM(price * quantity), 0)").
		Scan(&total).Error; err != nil {
		return err
	}
	return tx.Model(&models.Order{}).Where("id = ?", orderID).
		Update("total_price", total).Error
}
