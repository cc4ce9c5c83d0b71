package handlers

import (
	"errors"
	"net/http"

	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GroupFrontHandler serves the member's chit group views.
type GroupFrontHandler struct {
	db *gorm.DB
}

// NewGroupFrontHandler constructs a GroupFrontHandler.
func NewGroupFrontHandler(db *gorm.DB) *GroupFrontHandler {
	return &GroupFrontHandler{db: db}
}

// groupSummary is the member-facing shape of a chit group.
func groupSummary(group models.ChitGroup, membership models.GroupMember) gin.H {
	return gin.H{
		"id":                   group.ID,
		"name":                 group.Name,
		"chit_amount":          group.ChitAmount,
		"commission_amount":    group.CommissionAmount,
		"total_members":        group.TotalMembers,
		"duration_months":      group.DurationMonths,
		"monthly_contribution": group.MonthlyContribution,
		"status":               group.Status,
		"has_won":              membership.HasWon,
		"won_in_auction":       membership.WonInAuction,
		"joined_at":            membership.JoinedAt,
	}
}

// List returns the groups the member belongs to.
func (h *GroupFrontHandler) List(c *gin.Context) {
	userID := getUserID(c)

	var memberships []models.GroupMember
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&memberships).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	out := make([]gin.H, 0, len(memberships))
	for _, membership := range memberships {
		var group models.ChitGroup
		if errFind := h.db.WithContext(c.Request.Context()).First(&group, membership.ChitGroupID).Error; errFind != nil {
			continue
		}
		out = append(out, groupSummary(group, membership))
	}
	c.JSON(http.StatusOK, gin.H{"groups": out})
}

// Get returns one group the member belongs to.
func (h *GroupFrontHandler) Get(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	userID := getUserID(c)

	var membership models.GroupMember
	errFind := h.db.WithContext(c.Request.Context()).
		Where("chit_group_id = ? AND user_id = ?", groupID, userID).
		First(&membership).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	var group models.ChitGroup
	if errGroup := h.db.WithContext(c.Request.Context()).First(&group, groupID).Error; errGroup != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	c.JSON(http.StatusOK, groupSummary(group, membership))
}
