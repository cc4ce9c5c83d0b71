package models

import "time"

// Bid records one member's current bid in an auction. A member holds at
// most one bid per auction; resubmitting replaces the previous row.
type Bid struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	AuctionID uint64 `gorm:"not null;index;uniqueIndex:idx_auction_bidder"` // Owning auction ID.
	UserID    uint64 `gorm:"not null;index;uniqueIndex:idx_auction_bidder"` // Bidding member's user ID.

	Amount  int64     `gorm:"not null"` // Bid amount in currency minor units.
	BidTime time.Time `gorm:"not null"` // Submission time, used for tie-breaking.

	PlacedByAdmin bool   `gorm:"not null;default:false"` // Whether an admin entered the bid on the member's behalf.
	PlacedByName  string `gorm:"type:text"`              // Name of the admin who entered the bid, if any.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName overrides the default table name.
func (Bid) TableName() string {
	return "bids"
}

// AuctionExclusion records an admin-entered manual exclusion for one
// auction. Auto-exclusions (previous winners) are derived from the group
// roster and never stored here.
type AuctionExclusion struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	AuctionID uint64 `gorm:"not null;index;uniqueIndex:idx_auction_excluded"` // Owning auction ID.
	UserID    uint64 `gorm:"not null;uniqueIndex:idx_auction_excluded"`       // Excluded member's user ID.

	Reason     string `gorm:"type:text"`          // Admin-entered reason.
	ExcludedBy string `gorm:"type:text;not null"` // Username of the admin who excluded the member.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}

// TableName overrides the default table name.
func (AuctionExclusion) TableName() string {
	return "auction_exclusions"
}
