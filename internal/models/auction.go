package models

import "time"

// Auction lifecycle states. Transitions only move forward:
// Scheduled -> Live -> Closed.
const (
	// AuctionStatusScheduled marks an auction not yet open for bids.
	AuctionStatusScheduled = "Scheduled"
	// AuctionStatusLive marks an auction accepting bids.
	AuctionStatusLive = "Live"
	// AuctionStatusClosed marks a settled auction.
	AuctionStatusClosed = "Closed"
)

// Auction represents one cycle of a chit group.
type Auction struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ChitGroupID   uint64 `gorm:"not null;index;uniqueIndex:idx_group_auction_no"` // Owning group ID.
	AuctionNumber int    `gorm:"not null;uniqueIndex:idx_group_auction_no"`       // Cycle number within the group, starting at 1.

	Status      string    `gorm:"type:text;not null;index;default:'Scheduled'"` // Lifecycle status.
	StartingBid int64     `gorm:"not null;default:0"`                           // Floor for admissible bids.
	ScheduledAt time.Time `gorm:"not null"`                                     // When the auction is planned to run.
	DueDate     time.Time `gorm:"not null"`                                     // Due date for the cycle's payments.

	StartedAt *time.Time `` // When the auction went live.
	ClosedAt  *time.Time `` // When the auction was settled.

	// Settlement fields, populated only when Status is Closed.
	WinnerUserID        *uint64 `gorm:"index"` // Winning member's user ID.
	WinningBid          *int64  ``             // Winning bid amount.
	CommissionCollected *int64  ``             // Organizer commission for the cycle.
	TotalDividend       *int64  ``             // Winning bid minus commission.
	DividendPerMember   *int64  ``             // Dividend credited to each non-winner.

	Bids []Bid `gorm:"foreignKey:AuctionID"` // Submitted bids.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName overrides the default table name.
func (Auction) TableName() string {
	return "auctions"
}
