package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chitfundhq/chitfund/internal/chit"
	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentStore writes and reads the payment ledger.
type PaymentStore struct {
	db *gorm.DB
}

// NewPaymentStore constructs a PaymentStore.
func NewPaymentStore(db *gorm.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

// CreateSettlementPayments materializes a settlement's payment lines as
// ledger rows. The insert ignores conflicts on (auction_id, user_id), so
// a retried settlement never duplicates or overwrites a member's entry.
// A line whose dividend fully covers the contribution owes nothing and is
// created Paid immediately.
func (s *PaymentStore) CreateSettlementPayments(ctx context.Context, groupID, auctionID uint64, lines []chit.PaymentLine, dueDate time.Time) error {
	if len(lines) == 0 {
		return nil
	}
	now := time.Now().UTC()
	payments := make([]models.Payment, 0, len(lines))
	for _, line := range lines {
		status := chit.PaymentStatus(line.DueAmount, 0, dueDate, now)
		var paidAt *time.Time
		if status == models.PaymentStatusPaid {
			settledAt := now
			paidAt = &settledAt
		}
		payments = append(payments, models.Payment{
			Reference:        fmt.Sprintf("PAY-%s", uuid.NewString()),
			ChitGroupID:      groupID,
			AuctionID:        auctionID,
			UserID:           line.UserID,
			BaseAmount:       line.BaseAmount,
			DividendReceived: line.DividendReceived,
			DueAmount:        line.DueAmount,
			Status:           status,
			DueDate:          dueDate,
			PaidAt:           paidAt,
			IsWinner:         line.IsWinner,
		})
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "auction_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&payments).Error
}

// Load fetches a payment by ID.
func (s *PaymentStore) Load(ctx context.Context, paymentID uint64) (models.Payment, error) {
	var payment models.Payment
	if errFind := s.db.WithContext(ctx).First(&payment, paymentID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.Payment{}, chit.ErrNotFound
		}
		return models.Payment{}, errFind
	}
	return payment, nil
}

// ListByAuction returns an auction's ledger rows.
func (s *PaymentStore) ListByAuction(ctx context.Context, auctionID uint64) ([]models.Payment, error) {
	var payments []models.Payment
	if errFind := s.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("user_id ASC").
		Find(&payments).Error; errFind != nil {
		return nil, errFind
	}
	return payments, nil
}

// ListByUser returns a member's ledger rows, newest cycle first.
func (s *PaymentStore) ListByUser(ctx context.Context, userID uint64) ([]models.Payment, error) {
	var payments []models.Payment
	if errFind := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&payments).Error; errFind != nil {
		return nil, errFind
	}
	return payments, nil
}

// ListByGroupAndUser returns a member's ledger rows within one group,
// oldest cycle first. Member scoring consumes this ordering.
func (s *PaymentStore) ListByGroupAndUser(ctx context.Context, groupID, userID uint64) ([]models.Payment, error) {
	var payments []models.Payment
	if errFind := s.db.WithContext(ctx).
		Where("chit_group_id = ? AND user_id = ?", groupID, userID).
		Order("created_at ASC, id ASC").
		Find(&payments).Error; errFind != nil {
		return nil, errFind
	}
	return payments, nil
}

// Save persists mutated payment fields.
func (s *PaymentStore) Save(ctx context.Context, payment *models.Payment) error {
	return s.db.WithContext(ctx).Save(payment).Error
}

// MarkOverdue flips every payment past its due date that still owes
// something to Overdue and returns how many rows changed.
func (s *PaymentStore) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status IN ? AND due_amount > paid_amount AND due_date < ?",
			[]string{models.PaymentStatusPending, models.PaymentStatusPartial}, now).
		Update("status", models.PaymentStatusOverdue)
	return res.RowsAffected, res.Error
}
