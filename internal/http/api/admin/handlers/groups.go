package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/chitfundhq/chitfund/internal/chit"
	"github.com/chitfundhq/chitfund/internal/db"
	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/chitfundhq/chitfund/internal/settings"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GroupHandler manages chit groups and their rosters.
type GroupHandler struct {
	db *gorm.DB
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(db *gorm.DB) *GroupHandler {
	return &GroupHandler{db: db}
}

func groupView(group models.ChitGroup) gin.H {
	return gin.H{
		"id":                   group.ID,
		"name":                 group.Name,
		"chit_amount":          group.ChitAmount,
		"commission_amount":    group.CommissionAmount,
		"total_members":        group.TotalMembers,
		"duration_months":      group.DurationMonths,
		"winner_payment_model": group.WinnerPaymentModel,
		"monthly_contribution": group.MonthlyContribution,
		"status":               group.Status,
		"created_at":           group.CreatedAt,
	}
}

// List returns all chit groups, optionally filtered by a name search.
func (h *GroupHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context())
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + db.NormalizeLikePattern(h.db, search) + "%"
		query = query.Where(db.CaseInsensitiveLikeExpr(h.db, "name"), pattern)
	}

	var groups []models.ChitGroup
	if errFind := query.Order("id ASC").Find(&groups).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupView(g))
	}
	c.JSON(http.StatusOK, gin.H{"groups": out})
}

// createGroupRequest defines the request body for group creation.
type createGroupRequest struct {
	Name               string `json:"name"`
	ChitAmount         int64  `json:"chit_amount"`
	CommissionAmount   int64  `json:"commission_amount"`
	TotalMembers       int    `json:"total_members"`
	DurationMonths     int    `json:"duration_months"`
	WinnerPaymentModel string `json:"winner_payment_model"`
}

// Create adds a chit group. The monthly contribution is derived from the
// chit amount, the duration, and the payment model; model B applies the
// configured markup.
func (h *GroupHandler) Create(c *gin.Context) {
	var body createGroupRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}
	if body.ChitAmount <= 0 || body.CommissionAmount < 0 || body.CommissionAmount >= body.ChitAmount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amounts"})
		return
	}
	if body.TotalMembers < 2 || body.DurationMonths < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group size or duration"})
		return
	}
	model := strings.TrimSpace(body.WinnerPaymentModel)
	if model == "" {
		model = models.PaymentModelA
	}
	if model != models.PaymentModelA && model != models.PaymentModelB {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid winner payment model"})
		return
	}

	markup := int64(settings.IntValue(settings.WinnerMarkupPercentKey, settings.DefaultWinnerMarkupPercent))
	group := models.ChitGroup{
		Name:                name,
		ChitAmount:          body.ChitAmount,
		CommissionAmount:    body.CommissionAmount,
		TotalMembers:        body.TotalMembers,
		DurationMonths:      body.DurationMonths,
		WinnerPaymentModel:  model,
		MonthlyContribution: chit.MonthlyContribution(body.ChitAmount, body.DurationMonths, model, markup),
		Status:              models.GroupStatusPending,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&group).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create group failed"})
		return
	}
	c.JSON(http.StatusCreated, groupView(group))
}

// Get returns one group with its roster.
func (h *GroupHandler) Get(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	var group models.ChitGroup
	if errFind := h.db.WithContext(c.Request.Context()).First(&group, groupID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	var roster []models.GroupMember
	if errRoster := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Where("chit_group_id = ?", groupID).
		Order("joined_at ASC, id ASC").
		Find(&roster).Error; errRoster != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	members := make([]gin.H, 0, len(roster))
	for _, m := range roster {
		view := gin.H{
			"user_id":        m.UserID,
			"joined_at":      m.JoinedAt,
			"has_won":        m.HasWon,
			"won_in_auction": m.WonInAuction,
		}
		if m.User != nil {
			view["username"] = m.User.Username
			view["full_name"] = m.User.FullName
		}
		members = append(members, view)
	}

	out := groupView(group)
	out["members"] = members
	c.JSON(http.StatusOK, out)
}

// updateGroupStatusRequest defines the request body for status changes.
type updateGroupStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a group through its lifecycle. Activation requires a
// full roster.
func (h *GroupHandler) UpdateStatus(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	var body updateGroupStatusRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	status := strings.TrimSpace(body.Status)
	if status != models.GroupStatusActive && status != models.GroupStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	var group models.ChitGroup
	if errFind := h.db.WithContext(c.Request.Context()).First(&group, groupID).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}

	if status == models.GroupStatusActive {
		var memberCount int64
		if errCount := h.db.WithContext(c.Request.Context()).
			Model(&models.GroupMember{}).
			Where("chit_group_id = ?", groupID).
			Count(&memberCount).Error; errCount != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		if memberCount != int64(group.TotalMembers) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "roster is not full"})
			return
		}
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&group).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()}).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update status failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": status})
}

// addMemberRequest defines the request body for roster additions.
type addMemberRequest struct {
	UserID uint64 `json:"user_id"`
}

// AddMember adds a member to a pending group's roster.
func (h *GroupHandler) AddMember(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	var body addMemberRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user id"})
		return
	}

	var group models.ChitGroup
	if errFind := h.db.WithContext(c.Request.Context()).First(&group, groupID).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	if group.Status != models.GroupStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "roster is locked once the group is active"})
		return
	}

	var user models.User
	if errUser := h.db.WithContext(c.Request.Context()).First(&user, body.UserID).Error; errUser != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var memberCount int64
	if errCount := h.db.WithContext(c.Request.Context()).
		Model(&models.GroupMember{}).
		Where("chit_group_id = ?", groupID).
		Count(&memberCount).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if memberCount >= int64(group.TotalMembers) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "roster is full"})
		return
	}

	member := models.GroupMember{
		ChitGroupID: groupID,
		UserID:      body.UserID,
		JoinedAt:    time.Now().UTC(),
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&member).Error; errCreate != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "member already in group"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user_id":   member.UserID,
		"joined_at": member.JoinedAt,
	})
}

// RemoveMember removes a member from a pending group's roster.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	userID, ok := parseIDParam(c, "userID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var group models.ChitGroup
	if errFind := h.db.WithContext(c.Request.Context()).First(&group, groupID).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	if group.Status != models.GroupStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "roster is locked once the group is active"})
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("chit_group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "remove member failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
