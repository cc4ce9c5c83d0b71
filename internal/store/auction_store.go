// Package store binds the chit fund domain to the database. Each store
// wraps a gorm handle; callers running inside a transaction construct a
// store over the transaction handle.
package store

import (
	"context"
	"errors"

	"github.com/chitfundhq/chitfund/internal/chit"
	"github.com/chitfundhq/chitfund/internal/models"
	"gorm.io/gorm"
)

// AuctionStore loads auctions and applies guarded status transitions.
type AuctionStore struct {
	db *gorm.DB
}

// NewAuctionStore constructs an AuctionStore.
func NewAuctionStore(db *gorm.DB) *AuctionStore {
	return &AuctionStore{db: db}
}

// Load fetches an auction by ID.
func (s *AuctionStore) Load(ctx context.Context, auctionID uint64) (models.Auction, error) {
	var auction models.Auction
	if errFind := s.db.WithContext(ctx).First(&auction, auctionID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.Auction{}, chit.ErrNotFound
		}
		return models.Auction{}, errFind
	}
	return auction, nil
}

// LoadGroup fetches a chit group by ID.
func (s *AuctionStore) LoadGroup(ctx context.Context, groupID uint64) (models.ChitGroup, error) {
	var group models.ChitGroup
	if errFind := s.db.WithContext(ctx).First(&group, groupID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.ChitGroup{}, chit.ErrNotFound
		}
		return models.ChitGroup{}, errFind
	}
	return group, nil
}

// Transition atomically moves an auction from one status to another,
// applying the given field updates in the same statement. The conditional
// UPDATE is the compare-and-swap backing the at-most-once settlement
// guarantee: when the row is no longer in the expected status, zero rows
// match and the loser learns why from the current state.
func (s *AuctionStore) Transition(ctx context.Context, auctionID uint64, from, to string, fields map[string]any) error {
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["status"] = to

	res := s.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("id = ? AND status = ?", auctionID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	current, errLoad := s.Load(ctx, auctionID)
	if errLoad != nil {
		return errLoad
	}
	if current.Status == models.AuctionStatusClosed {
		return chit.ErrAlreadyClosed
	}
	return chit.ErrInvalidTransition
}
