package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/chitfundhq/chitfund/internal/settings"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SettingsHandler manages DB-backed runtime settings.
type SettingsHandler struct {
	db *gorm.DB
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

// List returns the effective settings with defaults applied.
func (h *SettingsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"org_name":              settings.StringValue(settings.OrgNameKey, settings.DefaultOrgName),
		"winner_markup_percent": settings.IntValue(settings.WinnerMarkupPercentKey, settings.DefaultWinnerMarkupPercent),
		"payment_due_days":      settings.IntValue(settings.PaymentDueDaysKey, settings.DefaultPaymentDueDays),
		"updated_at":            settings.UpdatedAt(),
	})
}

// updateSettingRequest defines the request body for setting updates.
type updateSettingRequest struct {
	Value json.RawMessage `json:"value"`
}

// Update writes one setting and refreshes the snapshot.
func (h *SettingsHandler) Update(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	switch key {
	case settings.OrgNameKey, settings.WinnerMarkupPercentKey, settings.PaymentDueDaysKey:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown setting key"})
		return
	}

	var body updateSettingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(body.Value) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing value"})
		return
	}

	if errUp := settings.Upsert(c.Request.Context(), h.db, key, body.Value); errUp != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save setting failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
