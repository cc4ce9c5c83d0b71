// Package events fans out auction state changes to interested
// collaborators. Subscribers replace the polling the original member
// portal relied on: instead of refetching auction state on a timer,
// callers receive an event whenever an auction opens, takes a bid, or
// settles.
package events

import (
	"context"
	"time"
)

// Auction event kinds.
const (
	// KindAuctionStarted signals a Scheduled auction going Live.
	KindAuctionStarted = "auction.started"
	// KindBidPlaced signals a bid recorded on a live auction.
	KindBidPlaced = "auction.bid_placed"
	// KindAuctionClosed signals a settled auction.
	KindAuctionClosed = "auction.closed"
)

// AuctionEvent describes one auction state change.
type AuctionEvent struct {
	Kind        string    `json:"kind"`
	ChitGroupID uint64    `json:"chit_group_id"`
	AuctionID   uint64    `json:"auction_id"`
	Status      string    `json:"status"`
	At          time.Time `json:"at"`
}

// Bus publishes auction events and hands out subscriptions. Subscribe
// returns a channel that closes when the context is cancelled.
type Bus interface {
	Publish(ctx context.Context, event AuctionEvent) error
	Subscribe(ctx context.Context) (<-chan AuctionEvent, error)
}
