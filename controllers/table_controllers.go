package controllers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/my-order-link/restaurant-app/models"
	"github.com/my-order-link/restaurant-app/notify"
	"github.com/my-order-link/restaurant-app/utils"
)

type TableController struct {
	DB  *gorm.DB
	Hub *notify.Hub
}

func NewTableController(db *gorm.DB, hub *notify.Hub) *TableController {
	return &TableController{DB: db, Hub: hub}
}

// GenerateTableToken -> hall staff opens a table: prior sessions expire and
// a fresh access token is issued for the QR code.
func (tc *TableController) GenerateTableToken(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil || tableID < 1 {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation,
			ErrInvalidTableID(c.Param("table_id")))
		return
	}

	token := uuid.NewString()
	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TableSession{}).
			Where("table_id = ? AND status = ?", tableID, models.SessionActive).
			Update("status", models.SessionExpired).Error; err != nil {
			return err
		}
		session := models.TableSession{
			TableID:     uint(tableID),
			AccessToken: token,
			Status:      models.SessionActive,
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	utils.InfoLogger.Printf("Issued access token for table %d", tableID)
	utils.RespondJSON(c, http.StatusOK, "Table token generated", gin.H{
		"tableId":     tableID,
		"accessToken": token,
	})
}

// TableSummary is the register screen's unit of display.
type TableSummary struct {
	TableID    uint           `json:"table_id"`
	Orders     []models.Order `json:"orders"`
	GrandTotal float64        `json:"grand_total"`
	CallType   *string        `json:"call_type"`
	AllServed  bool           `json:"all_served"`
}

// GetTableSummary -> active orders grouped per table with the grand total,
// the pending call type and the all-served flag that gates checkout.
func (tc *TableController) GetTableSummary(c *gin.Context) {
	var calls []models.Call
	if err := tc.DB.Find(&calls).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}
	callsByTable := make(map[uint]string, len(calls))
	for _, call := range calls {
		callsByTable[call.TableID] = call.CallType
	}

	var orders []models.Order
	if err := tc.DB.Preload("Items").
		Where("status != ?", models.OrderPaid).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	byTable := make(map[uint]*TableSummary)
	for _, order := range orders {
		summary, ok := byTable[order.TableID]
		if !ok {
			summary = &TableSummary{TableID: order.TableID, AllServed: true}
			if ct, has := callsByTable[order.TableID]; has {
				callType := ct
				summary.CallType = &callType
			}
			byTable[order.TableID] = summary
		}
		summary.Orders = append(summary.Orders, order)
		summary.GrandTotal += order.TotalPrice
		if !order.AllServed() {
			summary.AllServed = false
		}
	}

	summaries := make([]*TableSummary, 0, len(byTable))
	for _, s := range byTable {
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].TableID < summaries[j].TableID
	})

	utils.RespondJSON(c, http.StatusOK, "Table summary", summaries)
}

// CheckoutTable -> register settles the bill. Only valid once every live
// item on the table is served; marks orders paid, expires the table session,
// clears any pending call and announces the checkout to every staff tab.
func (tc *TableController) CheckoutTable(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil || tableID < 1 {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation,
			ErrInvalidTableID(c.Param("table_id")))
		return
	}

	var orders []models.Order
	if err := tc.DB.Preload("Items").
		Where("table_id = ? AND status = ?", tableID, models.OrderActive).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}
	if len(orders) == 0 {
		utils.RespondError(c, http.StatusConflict, utils.CodeConflict, ErrNoActiveOrder)
		return
	}
	for _, order := range orders {
		if !order.AllServed() {
			utils.RespondError(c, http.StatusConflict, utils.CodeInvalidTransition, ErrNotAllServed)
			return
		}
	}

	now := time.Now()
	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).
			Where("table_id = ? AND status = ?", tableID, models.OrderActive).
			Updates(map[string]interface{}{"status": models.OrderPaid, "paid_at": &now}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TableSession{}).
			Where("table_id = ? AND status = ?", tableID, models.SessionActive).
			Update("status", models.SessionExpired).Error; err != nil {
			return err
		}
		return tx.Where("table_id = ?", tableID).Delete(&models.Call{}).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	if tc.Hub != nil {
		tc.Hub.PublishCheckout(uint(tableID))
	}

	utils.InfoLogger.Printf("Table %d checked out (%d orders)", tableID, len(orders))
	utils.RespondJSON(c, http.StatusOK, "Table checked out", gin.H{"table_id": tableID})
}

// GetPaidOrders -> today's settled orders for the register history column,
// newest first.
func (tc *TableController) GetPaidOrders(c *gin.Context) {
	startOfToday := time.Now().Truncate(24 * time.Hour)

	var orders []models.Order
	if err := tc.DB.Preload("Items").
		Where("status = ? AND created_at >= ?", models.OrderPaid, startOfToday).
		Order("paid_at desc").
		Limit(200).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Paid orders", orders)
}
