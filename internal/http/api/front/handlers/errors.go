package handlers

import (
	"errors"
	"net/http"

	"github.com/chitfundhq/chitfund/internal/chit"
	"github.com/chitfundhq/chitfund/internal/lock"
	"github.com/gin-gonic/gin"
)

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
