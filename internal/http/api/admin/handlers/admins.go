package handlers

import (
	"net/http"
	"strings"

	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/chitfundhq/chitfund/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminsHandler manages organizer staff accounts.
type AdminsHandler struct {
	db *gorm.DB
}

// NewAdminsHandler constructs an AdminsHandler.
func NewAdminsHandler(db *gorm.DB) *AdminsHandler {
	return &AdminsHandler{db: db}
}

// List returns all admin accounts.
func (h *AdminsHandler) List(c *gin.Context) {
	var admins []models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).
		Order("id ASC").
		Find(&admins).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(admins))
	for _, a := range admins {
		out = append(out, gin.H{
			"id":             a.ID,
			"username":       a.Username,
			"active":         a.Active,
			"is_super_admin": a.IsSuperAdmin,
			"totp_enabled":   strings.TrimSpace(a.TOTPSecret) != "",
			"created_at":     a.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"admins": out})
}

// createAdminRequest defines the request body for admin creation.
type createAdminRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// Create adds an admin account. Only super admins may create admins.
func (h *AdminsHandler) Create(c *gin.Context) {
	if !isSuperAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "super admin required"})
		return
	}

	var body createAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	username := strings.TrimSpace(body.Username)
	password := strings.TrimSpace(body.Password)
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing username or password"})
		return
	}

	var exists models.Admin
	if errCheck := h.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&exists).Error; errCheck == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}
	admin := models.Admin{
		Username:     username,
		Password:     hash,
		Active:       true,
		IsSuperAdmin: body.IsSuperAdmin,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&admin).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create admin failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":             admin.ID,
		"username":       admin.Username,
		"is_super_admin": admin.IsSuperAdmin,
	})
}

// Delete removes an admin account. Only super admins may delete admins,
// and never themselves.
func (h *AdminsHandler) Delete(c *gin.Context) {
	if !isSuperAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "super admin required"})
		return
	}
	adminID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid admin id"})
		return
	}
	if adminID == getAdminID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete yourself"})
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Admin{}, adminID)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete admin failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
