package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/my-order-link/restaurant-app/models"
	"github.com/my-order-link/restaurant-app/utils"
)

type CallController struct {
	DB *gorm.DB
}

func NewCallController(db *gorm.DB) *CallController {
	return &CallController{DB: db}
}

// CreateCall -> customer rings for service (normal) or for the bill
// (checkout). One call per table; a new ring overwrites the old one.
func (cc *CallController) CreateCall(c *gin.Context) {
	var body struct {
		TableID     uint   `json:"tableId" binding:"required"`
		AccessToken string `json:"token"`
		CallType    string `json:"call_type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	if body.AccessToken == "" {
		utils.RespondError(c, http.StatusUnauthorized, utils.CodeUnauthenticated, ErrMissingTableToken)
		return
	}
	var session models.TableSession
	if err := cc.DB.Where("table_id = ? AND access_token = ? AND status = ?",
		body.TableID, body.AccessToken, models.SessionActive).First(&session).Error; err != nil {
		utils.RespondError(c, http.StatusForbidden, utils.CodeUnauthorized, ErrInvalidTableToken)
		return
	}

	if !models.IsValidCallType(body.CallType) {
		body.CallType = models.CallNormal
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		var call models.Call
		err := tx.Where("table_id = ?", body.TableID).First(&call).Error
		if err == gorm.ErrRecordNotFound {
			call = models.Call{TableID: body.TableID}
		} else if err != nil {
			return err
		}
		call.CallType = body.CallType
		call.CallTime = time.Now()
		return tx.Save(&call).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	utils.InfoLogger.Printf("Call from table %d (type=%s)", body.TableID, body.CallType)
	utils.RespondJSON(c, http.StatusOK, "Call registered", nil)
}

// GetCalls -> pending calls, oldest first.
func (cc *CallController) GetCalls(c *gin.Context) {
	var calls []models.Call
	if err := cc.DB.Order("call_time asc").Find(&calls).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending calls", calls)
}

// ResolveCall -> staff clears a table's call regardless of type. Resolving a
// call that is already gone is a success, the screens race each other here.
func (cc *CallController) ResolveCall(c *gin.Context) {
	tableID := c.Param("table_id")

	if err := cc.DB.Where("table_id = ?", tableID).
		Delete(&models.Call{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Call resolved", nil)
}
