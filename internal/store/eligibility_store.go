package store

import (
	"context"
	"errors"

	"github.com/chitfundhq/chitfund/internal/chit"
	"github.com/chitfundhq/chitfund/internal/models"
	"gorm.io/gorm"
)

// EligibilityStore reads the inputs of eligibility resolution: the group
// roster and an auction's manual exclusion list.
type EligibilityStore struct {
	db *gorm.DB
}

// NewEligibilityStore constructs an EligibilityStore.
func NewEligibilityStore(db *gorm.DB) *EligibilityStore {
	return &EligibilityStore{db: db}
}

// Roster returns a group's member list in join order. It fails with
// chit.ErrNotFound when the group does not exist.
func (s *EligibilityStore) Roster(ctx context.Context, groupID uint64) ([]models.GroupMember, error) {
	var group models.ChitGroup
	if errFind := s.db.WithContext(ctx).Select("id").First(&group, groupID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, chit.ErrNotFound
		}
		return nil, errFind
	}

	var members []models.GroupMember
	if errFind := s.db.WithContext(ctx).
		Where("chit_group_id = ?", groupID).
		Order("joined_at ASC, id ASC").
		Find(&members).Error; errFind != nil {
		return nil, errFind
	}
	return members, nil
}

// ManualExclusions returns an auction's admin-entered exclusions.
func (s *EligibilityStore) ManualExclusions(ctx context.Context, auctionID uint64) ([]models.AuctionExclusion, error) {
	var exclusions []models.AuctionExclusion
	if errFind := s.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("created_at ASC, id ASC").
		Find(&exclusions).Error; errFind != nil {
		return nil, errFind
	}
	return exclusions, nil
}
