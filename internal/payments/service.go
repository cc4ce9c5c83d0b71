// Package payments manages the ledger after settlement: recording
// collections against payment rows and sweeping missed due dates into
// the Overdue state.
package payments

import (
	"context"
	"time"

	"github.com/chitfundhq/chitfund/internal/chit"
	"github.com/chitfundhq/chitfund/internal/models"
	"github.com/chitfundhq/chitfund/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service records collections and reads the ledger.
type Service struct {
	db *gorm.DB
}

// NewService constructs a payments Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Record applies a collected amount to a payment and recomputes its
// status. Overpaying past the due amount is rejected; reaching it stamps
// PaidAt.
func (s *Service) Record(ctx context.Context, paymentID uint64, amount int64, now time.Time) (*models.Payment, error) {
	if amount <= 0 {
		return nil, &chit.ValidationError{Field: "amount", Msg: "must be positive"}
	}

	var payment models.Payment
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payStore := store.NewPaymentStore(tx)
		loaded, errLoad := payStore.Load(ctx, paymentID)
		if errLoad != nil {
			return errLoad
		}
		if amount > loaded.OutstandingBalance() {
			return &chit.ValidationError{Field: "amount", Msg: "exceeds outstanding balance"}
		}

		loaded.PaidAmount += amount
		loaded.Status = chit.PaymentStatus(loaded.DueAmount, loaded.PaidAmount, loaded.DueDate, now)
		if loaded.Status == models.PaymentStatusPaid && loaded.PaidAt == nil {
			paidAt := now
			loaded.PaidAt = &paidAt
		}
		if errSave := payStore.Save(ctx, &loaded); errSave != nil {
			return errSave
		}
		payment = loaded
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	log.WithFields(log.Fields{"payment_id": payment.ID, "user_id": payment.UserID, "status": payment.Status}).Info("payment recorded")
	return &payment, nil
}

// ListByAuction returns an auction's ledger rows.
func (s *Service) ListByAuction(ctx context.Context, auctionID uint64) ([]models.Payment, error) {
	return store.NewPaymentStore(s.db).ListByAuction(ctx, auctionID)
}

// ListByUser returns a member's ledger rows across groups.
func (s *Service) ListByUser(ctx context.Context, userID uint64) ([]models.Payment, error) {
	return store.NewPaymentStore(s.db).ListByUser(ctx, userID)
}

// MemberScore computes a member's payment score within one group.
func (s *Service) MemberScore(ctx context.Context, groupID, userID uint64, now time.Time) (chit.MemberScore, error) {
	rows, errList := store.NewPaymentStore(s.db).ListByGroupAndUser(ctx, groupID, userID)
	if errList != nil {
		return chit.MemberScore{}, errList
	}
	return chit.ScorePayments(userID, rows, now), nil
}

// GroupRanking scores every member of a group and returns them ranked.
func (s *Service) GroupRanking(ctx context.Context, groupID uint64, now time.Time) ([]chit.MemberScore, error) {
	roster, errRoster := store.NewEligibilityStore(s.db).Roster(ctx, groupID)
	if errRoster != nil {
		return nil, errRoster
	}
	scores := make([]chit.MemberScore, 0, len(roster))
	for _, member := range roster {
		score, errScore := s.MemberScore(ctx, groupID, member.UserID, now)
		if errScore != nil {
			return nil, errScore
		}
		scores = append(scores, score)
	}
	return chit.RankScores(scores), nil
}
