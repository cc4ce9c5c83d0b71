package handlers

import (
	"net/http"

	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DashboardHandler serves the organizer console summary.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Summary returns headline counts and financial totals.
func (h *DashboardHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	var activeGroups, liveAuctions, totalMembers, overduePayments int64
	if errCount := h.db.WithContext(ctx).Model(&models.ChitGroup{}).
		Where("status = ?", models.GroupStatusActive).
		Count(&activeGroups).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if errCount := h.db.WithContext(ctx).Model(&models.Auction{}).
		Where("status = ?", models.AuctionStatusLive).
		Count(&liveAuctions).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if errCount := h.db.WithContext(ctx).Model(&models.User{}).
		Count(&totalMembers).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if errCount := h.db.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusOverdue).
		Count(&overduePayments).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	var collected, outstanding, commission int64
	row := h.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(paid_amount), 0), COALESCE(SUM(CASE WHEN due_amount > paid_amount THEN due_amount - paid_amount ELSE 0 END), 0)").
		Row()
	if errScan := row.Scan(&collected, &outstanding); errScan != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	row = h.db.WithContext(ctx).Model(&models.Auction{}).
		Where("status = ?", models.AuctionStatusClosed).
		Select("COALESCE(SUM(commission_collected), 0)").
		Row()
	if errScan := row.Scan(&commission); errScan != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active_groups":        activeGroups,
		"live_auctions":        liveAuctions,
		"total_members":        totalMembers,
		"overdue_payments":     overduePayments,
		"collected_amount":     collected,
		"outstanding_amount":   outstanding,
		"commission_collected": commission,
	})
}
