package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/my-order-link/restaurant-app/models"
	"github.com/my-order-link/restaurant-app/utils"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

// GetPublicStoreInfo -> store name for the customer page header.
func (sc *SettingsController) GetPublicStoreInfo(c *gin.Context) {
	name := sc.settingValue("store_name")
	if name == "" {
		name = "My Order LINK"
	}
	utils.RespondJSON(c, http.StatusOK, "Store info", gin.H{"store_name": name})
}

// GetOpeningSettings -> everything the customer opening screen needs.
func (sc *SettingsController) GetOpeningSettings(c *gin.Context) {
	settings, err := sc.settingsByPrefix("opening_")
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Opening settings", settings)
}

// GetStoreInfo -> admin view of the store_* settings.
func (sc *SettingsController) GetStoreInfo(c *gin.Context) {
	settings, err := sc.settingsByPrefix("store_")
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Store info", settings)
}

// UpdateStoreInfo -> admin updates the store_* text fields.
func (sc *SettingsController) UpdateStoreInfo(c *gin.Context) {
	sc.updateKeys(c, []string{"store_name", "store_address", "store_tel", "store_receipt_note"})
}

// UpdateOpeningSettings -> admin updates the opening-screen text fields.
func (sc *SettingsController) UpdateOpeningSettings(c *gin.Context) {
	sc.updateKeys(c, []string{"opening_message", "opening_writing_mode", "opening_effect", "opening_duration"})
}

// updateKeys upserts the allowed keys present in the request body and
// ignores everything else.
func (sc *SettingsController) updateKeys(c *gin.Context, allowed []string) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, err)
		return
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		for _, key := range allowed {
			value, ok := body[key]
			if !ok {
				continue
			}
			setting := models.Setting{Key: key, Value: value}
			if err := tx.Save(&setting).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.CodeInternal, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Settings updated", nil)
}

func (sc *SettingsController) settingValue(key string) string {
	var setting models.Setting
	if err := sc.DB.First(&setting, "key = ?", key).Error; err != nil {
		return ""
	}
	return setting.Value
}

func (sc *SettingsController) settingsByPrefix(prefix string) (map[string]string, error) {
	var settings []models.Setting
	if err := sc.DB.Where("key LIKE ?", prefix+"%").Find(&settings).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	return out, nil
}
