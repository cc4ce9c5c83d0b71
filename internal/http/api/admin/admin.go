// Package admin exposes the organizer console API: group and roster
// management, the auction lifecycle, settlement, payment collection, and
// runtime settings.
package admin

import (
	"net/http"
	"strings"

	"github.com/chitfundhq/chitfund/internal/auction"
	"github.com/chitfundhq/chitfund/internal/config"
	"github.com/chitfundhq/chitfund/internal/http/api/admin/handlers"
	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/chitfundhq/chitfund/internal/payments"
	"github.com/chitfundhq/chitfund/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterAdminRoutes registers public and authenticated admin routes.
func RegisterAdminRoutes(r *gin.Engine, db *gorm.DB, jwtCfg config.JWTConfig, auctionSvc *auction.Service, paymentSvc *payments.Service) {
	if r == nil || db == nil {
		return
	}

	admin := r.Group("/v0/admin")

	authHandler := handlers.NewAuthHandler(db, jwtCfg)
	admin.POST("/login", authHandler.Login)
	admin.POST("/login/totp", authHandler.LoginTOTP)

	authed := admin.Group("")
	authed.Use(adminAuthMiddleware(db, jwtCfg))

	mfaHandler := handlers.NewMFAHandler(db)
	authed.GET("/mfa/status", mfaHandler.Status)
	authed.POST("/mfa/totp/prepare", mfaHandler.PrepareTOTP)
	authed.POST("/mfa/totp/confirm", mfaHandler.ConfirmTOTP)
	authed.POST("/mfa/totp/disable", mfaHandler.DisableTOTP)

	adminsHandler := handlers.NewAdminsHandler(db)
	authed.GET("/admins", adminsHandler.List)
	authed.POST("/admins", adminsHandler.Create)
	authed.DELETE("/admins/:id", adminsHandler.Delete)

	groupHandler := handlers.NewGroupHandler(db)
	authed.GET("/groups", groupHandler.List)
	authed.POST("/groups", groupHandler.Create)
	authed.GET("/groups/:id", groupHandler.Get)
	authed.PUT("/groups/:id/status", groupHandler.UpdateStatus)
	authed.POST("/groups/:id/members", groupHandler.AddMember)
	authed.DELETE("/groups/:id/members/:userID", groupHandler.RemoveMember)

	auctionHandler := handlers.NewAuctionHandler(db, auctionSvc)
	authed.GET("/groups/:id/auctions", auctionHandler.ListByGroup)
	authed.POST("/auctions", auctionHandler.Schedule)
	authed.GET("/auctions/:id", auctionHandler.Get)
	authed.POST("/auctions/:id/start", auctionHandler.Start)
	authed.POST("/auctions/:id/bids", auctionHandler.PlaceBid)
	authed.GET("/auctions/:id/eligibility", auctionHandler.Eligibility)
	authed.POST("/auctions/:id/exclusions", auctionHandler.Exclude)
	authed.DELETE("/auctions/:id/exclusions/:userID", auctionHandler.Unexclude)
	authed.POST("/auctions/:id/settlement/preview", auctionHandler.PreviewSettlement)
	authed.POST("/auctions/:id/settle", auctionHandler.Settle)

	paymentHandler := handlers.NewPaymentHandler(db, paymentSvc)
	authed.GET("/auctions/:id/payments", paymentHandler.ListByAuction)
	authed.POST("/payments/:id/record", paymentHandler.Record)
	authed.GET("/groups/:id/ranking", paymentHandler.GroupRanking)

	settingsHandler := handlers.NewSettingsHandler(db)
	authed.GET("/settings", settingsHandler.List)
	authed.PUT("/settings/:key", settingsHandler.Update)

	dashboardHandler := handlers.NewDashboardHandler(db)
	authed.GET("/dashboard", dashboardHandler.Summary)
}

// adminAuthMiddleware validates admin JWTs and loads the admin into context.
func adminAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseAdminToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var admin models.Admin
		if errFind := db.WithContext(c.Request.Context()).First(&admin, claims.AdminID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
			return
		}
		if !admin.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin disabled"})
			return
		}

		c.Set("adminID", admin.ID)
		c.Set("adminUsername", admin.Username)
		c.Set("isSuperAdmin", admin.IsSuperAdmin)
		c.Next()
	}
}
