package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/chitfundhq/chitfund/internal/chit"
	"github.com/chitfundhq/chitfund/internal/lock"
	"github.com/gin-gonic/gin"
)

// getAdminID extracts the admin ID from gin context.
func getAdminID(c *gin.Context) uint64 {
	val, exists := c.Get("adminID")
	if !exists {
		return 0
	}
	id, ok := val.(uint64)
	if !ok {
		return 0
	}
	return id
}

// getAdminUsername extracts the admin username from gin context.
func getAdminUsername(c *gin.Context) string {
	val, exists := c.Get("adminUsername")
	if !exists {
		return ""
	}
	name, ok := val.(string)
	if !ok {
		return ""
	}
	return name
}

// isSuperAdmin reports whether the request is from a super admin.
func isSuperAdmin(c *gin.Context) bool {
	val, exists := c.Get("isSuperAdmin")
	if !exists {
		return false
	}
	flag, ok := val.(bool)
	return ok && flag
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, errParse := strconv.ParseUint(c.Param(name), 10, 64)
	if errParse != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// respondDomainError maps domain errors onto HTTP responses.
func respondDomainError(c *gin.Context, err error) {
	var bidErr *chit.InvalidBidError
	var valErr *chit.ValidationError
	switch {
	case errors.Is(err, chit.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &bidErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": bidErr.Error(), "reason": string(bidErr.Reason)})
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": valErr.Error()})
	case errors.Is(err, chit.ErrAlreadyClosed),
		errors.Is(err, chit.ErrAuctionNotLive),
		errors.Is(err, chit.ErrInvalidTransition),
		errors.Is(err, lock.ErrHeld):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, chit.ErrNoBids),
		errors.Is(err, chit.ErrInsufficientBid),
		errors.Is(err, chit.ErrExcessiveBid),
		errors.Is(err, chit.ErrDegenerateGroup):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
