package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/chitfundhq/chitfund/internal/auction"
	"github.com/chitfundhq/chitfund/internal/chit"
	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/chitfundhq/chitfund/internal/settings"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuctionHandler manages the auction lifecycle for the organizer console.
type AuctionHandler struct {
	db  *gorm.DB
	svc *auction.Service
}

// NewAuctionHandler constructs an AuctionHandler.
func NewAuctionHandler(db *gorm.DB, svc *auction.Service) *AuctionHandler {
	return &AuctionHandler{db: db, svc: svc}
}

func auctionView(a models.Auction) gin.H {
	out := gin.H{
		"id":             a.ID,
		"chit_group_id":  a.ChitGroupID,
		"auction_number": a.AuctionNumber,
		"status":         a.Status,
		"starting_bid":   a.StartingBid,
		"scheduled_at":   a.ScheduledAt,
		"due_date":       a.DueDate,
		"started_at":     a.StartedAt,
		"closed_at":      a.ClosedAt,
	}
	if a.Status == models.AuctionStatusClosed {
		out["winner_user_id"] = a.WinnerUserID
		out["winning_bid"] = a.WinningBid
		out["commission_collected"] = a.CommissionCollected
		out["total_dividend"] = a.TotalDividend
		out["dividend_per_member"] = a.DividendPerMember
	}
	return out
}

func settlementView(s *chit.Settlement) gin.H {
	lines := make([]gin.H, 0, len(s.PaymentLines))
	for _, line := range s.PaymentLines {
		lines = append(lines, gin.H{
			"user_id":           line.UserID,
			"base_amount":       line.BaseAmount,
			"dividend_received": line.DividendReceived,
			"due_amount":        line.DueAmount,
			"is_winner":         line.IsWinner,
		})
	}
	return gin.H{
		"winner_user_id":           s.WinnerUserID,
		"winning_bid":              s.WinningBid,
		"commission_collected":     s.CommissionCollected,
		"total_dividend":           s.TotalDividend,
		"auto_dividend_per_member": s.AutoDividendPerMember,
		"dividend_per_member":      s.DividendPerMember,
		"winner_receives":          s.WinnerReceives,
		"payment_lines":            lines,
	}
}

// ListByGroup returns a group's auctions.
func (h *AuctionHandler) ListByGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	var auctions []models.Auction
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("chit_group_id = ?", groupID).
		Order("auction_number ASC").
		Find(&auctions).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(auctions))
	for _, a := range auctions {
		out = append(out, auctionView(a))
	}
	c.JSON(http.StatusOK, gin.H{"auctions": out})
}

// scheduleRequest defines the request body for scheduling an auction.
type scheduleRequest struct {
	ChitGroupID uint64    `json:"chit_group_id"`
	StartingBid int64     `json:"starting_bid"`
	ScheduledAt time.Time `json:"scheduled_at"`
	DueDate     time.Time `json:"due_date"`
}

// Schedule creates the group's next auction cycle.
func (h *AuctionHandler) Schedule(c *gin.Context) {
	var body scheduleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.ChitGroupID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing group id"})
		return
	}
	if body.StartingBid < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid starting bid"})
		return
	}
	if body.ScheduledAt.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing schedule date"})
		return
	}
	dueDate := body.DueDate.UTC()
	if body.DueDate.IsZero() {
		dueDays := settings.IntValue(settings.PaymentDueDaysKey, settings.DefaultPaymentDueDays)
		dueDate = body.ScheduledAt.UTC().AddDate(0, 0, dueDays)
	}

	scheduled, errSched := h.svc.Schedule(c.Request.Context(), auction.ScheduleInput{
		ChitGroupID: body.ChitGroupID,
		StartingBid: body.StartingBid,
		ScheduledAt: body.ScheduledAt.UTC(),
		DueDate:     dueDate,
	})
	if errSched != nil {
		respondDomainError(c, errSched)
		return
	}
	c.JSON(http.StatusCreated, auctionView(*scheduled))
}

// Get returns one auction with its bids ranked into settlement order.
func (h *AuctionHandler) Get(c *gin.Context) {
	auctionID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auction id"})
		return
	}
	var a models.Auction
	if errFind := h.db.WithContext(c.Request.Context()).First(&a, auctionID).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "auction not found"})
		return
	}
	var bids []models.Bid
	if errBids := h.db.WithContext(c.Request.Context()).
		Where("auction_id = ?", auctionID).
		Find(&bids).Error; errBids != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	ranked := chit.RankBids(bids)
	bidViews := make([]gin.H, 0, len(ranked))
	for _, b := range ranked {
		bidViews = append(bidViews, gin.H{
			"user_id":         b.UserID,
			"amount":          b.Amount,
			"bid_time":        b.BidTime,
			"placed_by_admin": b.PlacedByAdmin,
			"placed_by_name":  b.PlacedByName,
		})
	}
	out := auctionView(a)
	out["bids"] = bidViews
	c.JSON(http.StatusOK, out)
}

// Start moves a Scheduled auction to Live.
func (h *AuctionHandler) Start(c *gin.Context) {
	auctionID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auction id"})
		return
	}
	started, errStart := h.svc.Start(c.Request.Context(), auctionID)
	if errStart != nil {
		respondDomainError(c, errStart)
		return
	}
	c.JSON(http.StatusOK, auctionView(*started))
}

// adminBidRequest defines the request body for admin-entered bids.
type adminBidRequest struct {
	UserID uint64 `json:"user_id"`
	Amount int64  `json:"amount"`
}

// PlaceBid records a bid on a member's behalf, attributed to the admin.
func (h *AuctionHandler) PlaceBid(c *gin.Context) {
	auctionID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auction id"})
		return
	}
	var body adminBidRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.UserID == 0 || body.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user id or amount"})
		return
	}

	bid, errBid := h.svc.PlaceBid(c.Request.Context(), auction.BidInput{
		AuctionID:    auctionID,
		UserID:       body.UserID,
		Amount:       body.Amount,
		PlacedByName: getAdminUsername(c),
	})
	if errBid != nil {
		respondDomainError(c, errBid)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"auction_id":      bid.AuctionID,
		"user_id":         bid.UserID,
		"amount":          bid.Amount,
		"bid_time":        bid.BidTime,
		"placed_by_admin": bid.PlacedByAdmin,
		"placed_by_name":  bid.PlacedByName,
	})
}

// Eligibility returns the auction's member partition.
func (h *AuctionHandler) Eligibility(c *gin.Context) {
	auctionID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auction id"})
		return
	}
	elig, errElig := h.svc.Eligibility(c.Request.Context(), auctionID)
	if errElig != nil {
		respondDomainError(c, errElig)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"eligible":          elig.Eligible,
		"previous_winners":  elig.PreviousWinners,
		"manually_excluded": elig.ManuallyExcluded,
	})
}

// excludeRequest defines the request body for manual exclusions.
type excludeRequest struct {
	UserID uint64 `json:"user_id"`
	Reason string `json:"reason"`
}

// Exclude adds a manual exclusion.
func (h *AuctionHandler) Exclude(c *gin.Context) {
	auctionID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auction id"})
		return
	}
	var body excludeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user id"})
		return
	}

	errEx := h.svc.Exclude(c.Request.Context(), auctionID, body.UserID,
		strings.TrimSpace(body.Reason), getAdminUsername(c))
	if errEx != nil {
		respondDomainError(c, errEx)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// Unexclude lifts a manual exclusion.
func (h *AuctionHandler) Unexclude(c *gin.Context) {
	auctionID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auction id"})
		return
	}
	userID, ok := parseIDParam(c, "userID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if errLift := h.svc.Unexclude(c.Request.Context(), auctionID, userID); errLift != nil {
		respondDomainError(c, errLift)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// settleRequest defines the request body for settlement preview and close.
type settleRequest struct {
	WinnerUserID      *uint64 `json:"winner_user_id"`
	DividendPerMember *int64  `json:"dividend_per_member"`
}

// PreviewSettlement computes the settlement without persisting it.
func (h *AuctionHandler) PreviewSettlement(c *gin.Context) {
	auctionID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auction id"})
		return
	}
	var body settleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	preview, errPrev := h.svc.Preview(c.Request.Context(), auction.SettleInput{
		AuctionID:         auctionID,
		WinnerUserID:      body.WinnerUserID,
		DividendPerMember: body.DividendPerMember,
	})
	if errPrev != nil {
		respondDomainError(c, errPrev)
		return
	}
	c.JSON(http.StatusOK, settlementView(preview))
}

// Settle closes a live auction and writes the settlement.
func (h *AuctionHandler) Settle(c *gin.Context) {
	auctionID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auction id"})
		return
	}
	var body settleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	settlement, errSettle := h.svc.Settle(c.Request.Context(), auction.SettleInput{
		AuctionID:         auctionID,
		WinnerUserID:      body.WinnerUserID,
		DividendPerMember: body.DividendPerMember,
	})
	if errSettle != nil {
		respondDomainError(c, errSettle)
		return
	}
	c.JSON(http.StatusOK, settlementView(settlement))
}
