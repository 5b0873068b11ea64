package settings_controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/solemar/concierge/logger"
	"github.com/solemar/concierge/models/settings_models"
)

// SettingsStore is the persistence surface for app settings.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (*settings_models.AppSetting, error)
	UpsertSetting(ctx context.Context, key, value string) (*settings_models.AppSetting, error)
}

// SettingsController serves the admin configuration screen.
type SettingsController struct {
	Store SettingsStore
}

// NewSettingsController creates a new instance of SettingsController.
func NewSettingsController(store SettingsStore) *SettingsController {
	return &SettingsController{Store: store}
}

// GetSetting returns one setting by key.
func (sc *SettingsController) GetSetting(c *gin.Context) {
	key := c.Param("key")

	setting, err := sc.Store.GetSetting(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, settings_models.ErrSettingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to fetch setting %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"setting": setting})
}

type updateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// UpdateSetting writes a setting value. The revenue share percentage gets a
// range check so a typo cannot break every future split calculation.
func (sc *SettingsController) UpdateSetting(c *gin.Context) {
	key := c.Param("key")

	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
		return
	}

	if key == settings_models.KeyRevenueSharePercentage {
		pct, err := strconv.ParseFloat(req.Value, 64)
		if err != nil || pct < 0 || pct > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Share percentage must be a number between 0 and 100"})
			return
		}
	}

	setting, err := sc.Store.UpsertSetting(c.Request.Context(), key, req.Value)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update setting %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"setting": setting})
}
