package handlers

import (
	"net/http"
	"time"

	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/chitfundhq/chitfund/internal/payments"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaymentHandler manages collection recording and ledger views.
type PaymentHandler struct {
	db  *gorm.DB
	svc *payments.Service
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(db *gorm.DB, svc *payments.Service) *PaymentHandler {
	return &PaymentHandler{db: db, svc: svc}
}

func paymentView(p models.Payment) gin.H {
	return gin.H{
		"id":                p.ID,
		"reference":         p.Reference,
		"chit_group_id":     p.ChitGroupID,
		"auction_id":        p.AuctionID,
		"user_id":           p.UserID,
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

// ListByAuction returns an auction's payment ledger.
func (h *PaymentHandler) ListByAuction(c *gin.Context) {
	auctionID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auction id"})
		return
	}
	rows, errList := h.svc.ListByAuction(c.Request.Context(), auctionID)
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

// recordRequest defines the request body for recording a collection.
type recordRequest struct {
	Amount int64 `json:"amount"`
}

// Record applies a collected amount to a payment.
func (h *PaymentHandler) Record(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	var body recordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updated, errRecord := h.svc.Record(c.Request.Context(), paymentID, body.Amount, time.Now().UTC())
	if errRecord != nil {
		respondDomainError(c, errRecord)
		return
	}
	c.JSON(http.StatusOK, paymentView(*updated))
}

// GroupRanking returns the group's members ranked by payment score.
func (h *PaymentHandler) GroupRanking(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	ranking, errRank := h.svc.GroupRanking(c.Request.Context(), groupID, time.Now().UTC())
	if errRank != nil {
		respondDomainError(c, errRank)
		return
	}
	out := make([]gin.H, 0, len(ranking))
	for i, score := range ranking {
		out = append(out, gin.H{
			"rank":             i + 1,
			"user_id":          score.UserID,
			"on_time_payments": score.OnTimePayments,
			"delayed_payments": score.DelayedPayments,
			"total_delay_days": score.TotalDelayDays,
			"score":            score.Score,
			"category":         score.Category,
		})
	}
	c.JSON(http.StatusOK, gin.H{"ranking": out})
}
