// Package chit holds the pure chit fund domain logic: eligibility
// resolution, bid admission and ranking, auction settlement arithmetic,
// and member scoring. Nothing in this package touches storage or I/O.
package chit

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by the settlement and bid paths.
var (
	// ErrNotFound indicates a missing group, auction, or member.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyClosed indicates a settlement attempt on a closed auction.
	ErrAlreadyClosed = errors.New("auction already closed")
	// ErrAuctionNotLive indicates an operation that requires a live auction.
	ErrAuctionNotLive = errors.New("auction is not live")
	// ErrNoBids indicates a settlement attempt with an empty bid list.
	ErrNoBids = errors.New("auction has no bids")
	// ErrInsufficientBid indicates a winning bid below the commission.
	ErrInsufficientBid = errors.New("winning bid does not cover commission")
	// ErrExcessiveBid indicates a winning bid above the winner's payout capacity.
	ErrExcessiveBid = errors.New("winning bid exceeds chit amount minus commission")
	// ErrDegenerateGroup indicates a group with fewer than two members.
	ErrDegenerateGroup = errors.New("group has no non-winning members")
	// ErrInvalidTransition indicates an auction state change that would
	// move backwards or skip a state.
	ErrInvalidTransition = errors.New("invalid auction state transition")
)

// BidRejectReason identifies why a bid was refused admission.
type BidRejectReason string

// Bid rejection reasons.
const (
	// RejectAuctionNotLive rejects bids outside the Live window.
	RejectAuctionNotLive BidRejectReason = "auction_not_live"
	// RejectNotEligible rejects bids from excluded or unknown members.
	RejectNotEligible BidRejectReason = "not_eligible"
	// RejectBelowFloor rejects bids under the starting bid.
	RejectBelowFloor BidRejectReason = "below_floor"
)

// InvalidBidError reports a bid admission failure with its reason.
type InvalidBidError struct {
	Reason BidRejectReason
	UserID uint64
}

// Error implements the error interface.
func (e *InvalidBidError) Error() string {
	return fmt.Sprintf("invalid bid from member %d: %s", e.UserID, e.Reason)
}

// ValidationError reports a malformed caller-supplied value.
type ValidationError struct {
	Field string
	Msg   string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}
