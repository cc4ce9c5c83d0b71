package handlers

import (
	"errors"
	"net/http"

	"github.com/chitfundhq/chitfund/internal/auction"
	"github.com/chitfundhq/chitfund/internal/chit"
	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuctionFrontHandler serves auction views and bid submission for members.
type AuctionFrontHandler struct {
	db  *gorm.DB
	svc *auction.Service
}

// NewAuctionFrontHandler constructs an AuctionFrontHandler.
func NewAuctionFrontHandler(db *gorm.DB, svc *auction.Service) *AuctionFrontHandler {
	return &AuctionFrontHandler{db: db, svc: svc}
}

// memberOfGroup verifies the authenticated member belongs to the group.
func (h *AuctionFrontHandler) memberOfGroup(c *gin.Context, groupID, userID uint64) bool {
	var membership models.GroupMember
	errFind := h.db.WithContext(c.Request.Context()).
		Where("chit_group_id = ? AND user_id = ?", groupID, userID).
		First(&membership).Error
	return errFind == nil
}

func auctionSummary(a models.Auction) gin.H {
	return gin.H{
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
}

// ListByGroup returns a group's auctions for one of its members.
func (h *AuctionFrontHandler) ListByGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	if !h.memberOfGroup(c, groupID, getUserID(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
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
		out = append(out, auctionSummary(a))
	}
	c.JSON(http.StatusOK, gin.H{"auctions": out})
}

// Get returns one auction with its ranked bids and the member partition.
// Settlement fields appear once the auction closes.
func (h *AuctionFrontHandler) Get(c *gin.Context) {
	auctionID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auction id"})
		return
	}
	userID := getUserID(c)

	var a models.Auction
	if errFind := h.db.WithContext(c.Request.Context()).First(&a, auctionID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "auction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if !h.memberOfGroup(c, a.ChitGroupID, userID) {
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
		})
	}

	elig, errElig := h.svc.Eligibility(c.Request.Context(), auctionID)
	if errElig != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve eligibility failed"})
		return
	}

	out := auctionSummary(a)
	out["bids"] = bidViews
	out["eligible"] = elig.IsEligible(userID)
	out["eligible_members"] = elig.Eligible
	out["previous_winners"] = elig.PreviousWinners
	out["manually_excluded"] = elig.ManuallyExcluded
	if a.Status == models.AuctionStatusClosed {
		out["winner_user_id"] = a.WinnerUserID
		out["winning_bid"] = a.WinningBid
		out["commission_collected"] = a.CommissionCollected
		out["total_dividend"] = a.TotalDividend
		out["dividend_per_member"] = a.DividendPerMember
	}
	c.JSON(http.StatusOK, out)
}

// placeBidRequest defines the request body for bid submission.
type placeBidRequest struct {
	Amount int64 `json:"amount"`
}

// PlaceBid records the member's bid on a live auction.
func (h *AuctionFrontHandler) PlaceBid(c *gin.Context) {
	auctionID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auction id"})
		return
	}
	var body placeBidRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	bid, errBid := h.svc.PlaceBid(c.Request.Context(), auction.BidInput{
		AuctionID: auctionID,
		UserID:    getUserID(c),
		Amount:    body.Amount,
	})
	if errBid != nil {
		respondDomainError(c, errBid)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"auction_id": bid.AuctionID,
		"user_id":    bid.UserID,
		"amount":     bid.Amount,
		"bid_time":   bid.BidTime,
	})
}
