package store

import (
	"context"

	"github.com/chitfundhq/chitfund/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BidStore reads and upserts auction bids.
type BidStore struct {
	db *gorm.DB
}

// NewBidStore constructs a BidStore.
func NewBidStore(db *gorm.DB) *BidStore {
	return &BidStore{db: db}
}

// List returns all bids for an auction in submission order.
func (s *BidStore) List(ctx context.Context, auctionID uint64) ([]models.Bid, error) {
	var bids []models.Bid
	if errFind := s.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("bid_time ASC, id ASC").
		Find(&bids).Error; errFind != nil {
		return nil, errFind
	}
	return bids, nil
}

// Upsert records a bid, replacing the member's previous bid for the same
// auction if one exists. Replacing resets the bid time: a changed bid is
// a new bid for tie-break purposes.
func (s *BidStore) Upsert(ctx context.Context, bid *models.Bid) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "auction_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"amount", "bid_time", "placed_by_admin", "placed_by_name", "updated_at",
			}),
		}).
		Create(bid).Error
}
