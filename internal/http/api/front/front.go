// Package front exposes the member portal API: account management, group
// and auction views, bidding, and the member's own payment ledger.
package front

import (
	"net/http"
	"strings"

	"github.com/chitfundhq/chitfund/internal/auction"
	"github.com/chitfundhq/chitfund/internal/config"
	"github.com/chitfundhq/chitfund/internal/http/api/front/handlers"
	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/chitfundhq/chitfund/internal/payments"
	"github.com/chitfundhq/chitfund/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterFrontRoutes registers public and authenticated member routes.
func RegisterFrontRoutes(r *gin.Engine, db *gorm.DB, jwtCfg config.JWTConfig, auctionSvc *auction.Service, paymentSvc *payments.Service) {
	if r == nil || db == nil {
		return
	}

	front := r.Group("/v0/front")

	authHandler := handlers.NewAuthHandler(db, jwtCfg)
	front.POST("/register", authHandler.Register)
	front.POST("/login", authHandler.Login)

	authed := front.Group("")
	authed.Use(userAuthMiddleware(db, jwtCfg))

	profileHandler := handlers.NewProfileHandler(db)
	authed.GET("/profile", profileHandler.Get)
	authed.PUT("/profile/password", profileHandler.ChangePassword)

	groupHandler := handlers.NewGroupFrontHandler(db)
	authed.GET("/groups", groupHandler.List)
	authed.GET("/groups/:id", groupHandler.Get)

	auctionHandler := handlers.NewAuctionFrontHandler(db, auctionSvc)
	authed.GET("/groups/:id/auctions", auctionHandler.ListByGroup)
	authed.GET("/auctions/:id", auctionHandler.Get)
	authed.POST("/auctions/:id/bids", auctionHandler.PlaceBid)

	paymentHandler := handlers.NewPaymentFrontHandler(db, paymentSvc)
	authed.GET("/payments", paymentHandler.List)
	authed.GET("/groups/:id/score", paymentHandler.Score)
}

// userAuthMiddleware validates member JWTs and loads the user into context.
func userAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
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

		claims, errJWT := security.ParseToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var user models.User
		if errFind := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if user.Disabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user disabled"})
			return
		}

		c.Set("userID", user.ID)
		c.Next()
	}
}
