package handlers

import (
	"net/http"
	"time"

	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/chitfundhq/chitfund/internal/payments"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaymentFrontHandler serves the member's own payment ledger and score.
type PaymentFrontHandler struct {
	db  *gorm.DB
	svc *payments.Service
}

// NewPaymentFrontHandler constructs a PaymentFrontHandler.
func NewPaymentFrontHandler(db *gorm.DB, svc *payments.Service) *PaymentFrontHandler {
	return &PaymentFrontHandler{db: db, svc: svc}
}

func paymentView(p models.Payment) gin.H {
	return gin.H{
		"id":                p.ID,
		"reference":         p.Reference,
		"chit_group_id":     p.ChitGroupID,
		"auction_id":        p.AuctionID,
		"base_amount":       p.BaseAmount,
		"dividend_received": p.DividendReceived,
		"due_amount":        p.DueAmount,
		"paid_amount":       p.PaidAmount,
		"outstanding":       p.OutstandingBalance(),
		"status":            p.Status,
		"due_date":          p.DueDate,
		"paid_at":           p.PaidAt,
		"is_winner":         p.IsWinner,
	}
}

// List returns the member's payments across all groups.
func (h *PaymentFrontHandler) List(c *gin.Context) {
	rows, errList := h.svc.ListByUser(c.Request.Context(), getUserID(c))
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, p := range rows {
		out = append(out, paymentView(p))
	}
	c.JSON(http.StatusOK, gin.H{"payments": out})
}

// Score returns the member's payment score within one group.
func (h *PaymentFrontHandler) Score(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	userID := getUserID(c)

	var membership models.GroupMember
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("chit_group_id = ? AND user_id = ?", groupID, userID).
		First(&membership).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}

	score, errScore := h.svc.MemberScore(c.Request.Context(), groupID, userID, time.Now().UTC())
	if errScore != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "compute score failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":          score.UserID,
		"on_time_payments": score.OnTimePayments,
		"delayed_payments": score.DelayedPayments,
		"total_delay_days": score.TotalDelayDays,
		"score":            score.Score,
		"category":         score.Category,
	})
}
