package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/my-order-link/restaurant-app/models"
	"github.com/my-order-link/restaurant-app/notify"
	"github.com/my-order-link/restaurant-app/utils"
)

type AdminController struct {
	DB  *gorm.DB
	Hub *notify.Hub
}

func NewAdminController(db *gorm.DB, hub *notify.Hub) *AdminController {
	return &AdminController{DB: db, Hub: hub}
}

// SalesRow is one line of the sales report.
type SalesRow struct {
	CreatedAt time.Time `json:"created_at"`
	TableID   uint      `json:"table_id"`
	ItemName  string    `json:"item_name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// GetSalesData -> paid-order lines within the date range, oldest first.
func (ac *AdminController) GetSalesData(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	var rows []SalesRow
	if err := ac.DB.Model(&models.OrderItem{}).
		Select("orders.created_at, orders.table_id, order_items.item_name, order_items.quantity, order_items.price").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ? AND orders.paid_at BETWEEN ? AND ?", models.OrderPaid, start, end).
		Where("order_items.status != ?", models.ItemCancelled).
		Order("orders.paid_at asc").
		Scan(&rows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Sales data", rows)
}

// GetCookingTimes -> average minutes from order creation to ready, per item
// name, over the paid orders in the date range.
func (ac *AdminController) GetCookingTimes(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	type timedItem struct {
		ItemName  string
		ReadyAt   time.Time
		CreatedAt time.Time
	}
	var rows []timedItem
	if err := ac.DB.Model(&models.OrderItem{}).
		Select("order_items.item_name, order_items.ready_at, orders.created_at").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ? AND orders.paid_at BETWEEN ? AND ?", models.OrderPaid, start, end).
		Where("order_items.ready_at IS NOT NULL").
		Scan(&rows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	sums := make(map[string]time.Duration)
	counts := make(map[string]int)
	for _, row := range rows {
		d := row.ReadyAt.Sub(row.CreatedAt)
		if d < 0 || d > 24*time.Hour {
			continue
		}
		sums[row.ItemName] += d
		counts[row.ItemName]++
	}

	averages := make(map[string]float64, len(sums))
	for name, sum := range sums {
		avg := sum / time.Duration(counts[name])
		averages[name] = float64(int(avg.Minutes()*10)) / 10
	}

	utils.RespondJSON(c, http.StatusOK, "Average cooking times", averages)
}

// SessionDuration is one table visit in the session report.
type SessionDuration struct {
	TableID         uint      `json:"table_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	TotalPrice      float64   `json:"total_price"`
}

// GetSessionDurations -> how long each settled table sat, measured from the
// table session start (falling back to the order time) to payment.
func (ac *AdminController) GetSessionDurations(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	var paid []models.Order
	if err := ac.DB.Where("status = ? AND paid_at BETWEEN ? AND ?",
		models.OrderPaid, start, end).Find(&paid).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	durations := make([]SessionDuration, 0, len(paid))
	for _, order := range paid {
		startTime := order.CreatedAt
		var session models.TableSession
		if err := ac.DB.Where("table_id = ? AND created_at < ?", order.TableID, order.PaidAt).
			Order("created_at desc").First(&session).Error; err == nil {
			startTime = session.CreatedAt
		}
		durations = append(durations, SessionDuration{
			TableID:         order.TableID,
			StartTime:       startTime,
			EndTime:         *order.PaidAt,
			DurationMinutes: int(order.PaidAt.Sub(startTime).Minutes()),
			TotalPrice:      order.TotalPrice,
		})
	}

	utils.RespondJSON(c, http.StatusOK, "Session durations", durations)
}

// Shutdown -> pushes the shutdown event to every staff tab. The tabs drop
// their credentials and bail to the login page on receipt.
func (ac *AdminController) Shutdown(c *gin.Context) {
	if ac.Hub != nil {
		ac.Hub.PublishShutdown()
	}
	operator, _ := c.Get("username")
	utils.InfoLogger.Printf("System shutdown requested by %v", operator)
	utils.RespondJSON(c, http.StatusOK, "Shutdown broadcast", nil)
}

func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, errors.New("start_date and end_date are required")
	}
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end.Add(24*time.Hour - time.Second), nil
}
