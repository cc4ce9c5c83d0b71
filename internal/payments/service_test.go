package payments

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chitfundhq/chitfund/internal/chit"
	"github.com/chitfundhq/chitfund/internal/db"
	"github.com/chitfundhq/chitfund/internal/models"
	"gorm.io/gorm"
)

func setupPaymentsDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func seedPayment(t *testing.T, conn *gorm.DB, userID uint64, due int64, dueDate time.Time) models.Payment {
	t.Helper()
	payment := models.Payment{
		Reference:   fmt.Sprintf("PAY-test-%d-%d", userID, time.Now().UnixNano()),
		ChitGroupID: 1,
		AuctionID:   userID, // one row per (auction, user); vary the auction
		UserID:      userID,
		BaseAmount:  20000,
		DueAmount:   due,
		Status:      models.PaymentStatusPending,
		DueDate:     dueDate,
	}
	if errCreate := conn.Create(&payment).Error; errCreate != nil {
		t.Fatalf("seed payment: %v", errCreate)
	}
	return payment
}

func TestRecordPartialThenPaid(t *testing.T) {
	conn := setupPaymentsDB(t, "pay_record")
	svc := NewService(conn)
	ctx := context.Background()
	now := time.Now().UTC()
	payment := seedPayment(t, conn, 1, 16250, now.AddDate(0, 0, 5))

	partial, errPart := svc.Record(ctx, payment.ID, 6250, now)
	if errPart != nil {
		t.Fatalf("record partial: %v", errPart)
	}
	if partial.Status != models.PaymentStatusPartial || partial.PaidAmount != 6250 {
		t.Fatalf("unexpected partial row: %+v", partial)
	}
	if partial.PaidAt != nil {
		t.Fatalf("PaidAt must stay unset on partial collection")
	}

	paid, errPaid := svc.Record(ctx, payment.ID, 10000, now)
	if errPaid != nil {
		t.Fatalf("record remainder: %v", errPaid)
	}
	if paid.Status != models.PaymentStatusPaid || paid.OutstandingBalance() != 0 {
		t.Fatalf("unexpected paid row: %+v", paid)
	}
	if paid.PaidAt == nil {
		t.Fatalf("expected PaidAt to be stamped")
	}
}

func TestRecordRejectsBadAmounts(t *testing.T) {
	conn := setupPaymentsDB(t, "pay_reject")
	svc := NewService(conn)
	ctx := context.Background()
	now := time.Now().UTC()
	payment := seedPayment(t, conn, 2, 16250, now.AddDate(0, 0, 5))

	var verr *chit.ValidationError
	if _, errZero := svc.Record(ctx, payment.ID, 0, now); !errors.As(errZero, &verr) {
		t.Fatalf("expected ValidationError for zero amount, got %v", errZero)
	}
	if _, errOver := svc.Record(ctx, payment.ID, 16251, now); !errors.As(errOver, &verr) {
		t.Fatalf("expected ValidationError for overpayment, got %v", errOver)
	}
	if _, errMissing := svc.Record(ctx, 9999, 100, now); !errors.Is(errMissing, chit.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", errMissing)
	}
}

func TestRecordLateCollectionStaysPaid(t *testing.T) {
	conn := setupPaymentsDB(t, "pay_late")
	svc := NewService(conn)
	ctx := context.Background()
	now := time.Now().UTC()
	payment := seedPayment(t, conn, 3, 16250, now.AddDate(0, 0, -3))

	paid, errPaid := svc.Record(ctx, payment.ID, 16250, now)
	if errPaid != nil {
		t.Fatalf("record: %v", errPaid)
	}
	if paid.Status != models.PaymentStatusPaid {
		t.Fatalf("full collection past due must be Paid, got %s", paid.Status)
	}
}

func TestSweepFlipsOnlyUnpaidPastDue(t *testing.T) {
	conn := setupPaymentsDB(t, "pay_sweep")
	svc := NewService(conn)
	sweeper := NewSweeper(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	pastDue := seedPayment(t, conn, 1, 16250, now.AddDate(0, 0, -2))
	paidLate := seedPayment(t, conn, 2, 16250, now.AddDate(0, 0, -2))
	upcoming := seedPayment(t, conn, 3, 16250, now.AddDate(0, 0, 2))
	if _, errPay := svc.Record(ctx, paidLate.ID, 16250, now); errPay != nil {
		t.Fatalf("record: %v", errPay)
	}

	if flipped := sweeper.Sweep(ctx); flipped != 1 {
		t.Fatalf("expected 1 flip, got %d", flipped)
	}

	var rows []models.Payment
	if errFind := conn.Find(&rows).Error; errFind != nil {
		t.Fatalf("load rows: %v", errFind)
	}
	want := map[uint64]string{
		pastDue.ID:  models.PaymentStatusOverdue,
		paidLate.ID: models.PaymentStatusPaid,
		upcoming.ID: models.PaymentStatusPending,
	}
	for _, row := range rows {
		if row.Status != want[row.ID] {
			t.Fatalf("payment %d: expected %s, got %s", row.ID, want[row.ID], row.Status)
		}
	}
}

func TestZeroDueRowNeverPenalized(t *testing.T) {
	conn := setupPaymentsDB(t, "pay_zero_due")
	svc := NewService(conn)
	sweeper := NewSweeper(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	// A row owing nothing, days past its due date. The sweeper must leave
	// it alone and the member's score must not record a delay.
	seedPayment(t, conn, 6, 0, now.AddDate(0, 0, -3))

	if flipped := sweeper.Sweep(ctx); flipped != 0 {
		t.Fatalf("expected no flips for zero-due row, got %d", flipped)
	}

	score, errScore := svc.MemberScore(ctx, 1, 6, now)
	if errScore != nil {
		t.Fatalf("score: %v", errScore)
	}
	if score.DelayedPayments != 0 || score.TotalDelayDays != 0 {
		t.Fatalf("zero-due row must not count as delayed: %+v", score)
	}
	if score.OnTimePayments != 1 || score.Category != chit.CategoryExcellent {
		t.Fatalf("zero-due row must count on time: %+v", score)
	}
}

func TestGroupRankingOrdersByScore(t *testing.T) {
	conn := setupPaymentsDB(t, "pay_ranking")
	svc := NewService(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := uint64(1); i <= 2; i++ {
		member := models.GroupMember{ChitGroupID: 1, UserID: i, JoinedAt: now}
		if errCreate := conn.Create(&member).Error; errCreate != nil {
			t.Fatalf("seed member: %v", errCreate)
		}
	}
	group := models.ChitGroup{Name: "Rank Pool", ChitAmount: 100000, CommissionAmount: 5000,
		TotalMembers: 2, DurationMonths: 2, MonthlyContribution: 50000,
		WinnerPaymentModel: models.PaymentModelA, Status: models.GroupStatusActive}
	group.ID = 1
	if errCreate := conn.Create(&group).Error; errCreate != nil {
		t.Fatalf("seed group: %v", errCreate)
	}

	// Member 1 paid on time, member 2 is overdue.
	onTime := seedPayment(t, conn, 1, 16250, now.AddDate(0, 0, 3))
	if _, errPay := svc.Record(ctx, onTime.ID, 16250, now); errPay != nil {
		t.Fatalf("record: %v", errPay)
	}
	seedPayment(t, conn, 2, 16250, now.AddDate(0, 0, -2))

	ranking, errRank := svc.GroupRanking(ctx, 1, now)
	if errRank != nil {
		t.Fatalf("ranking: %v", errRank)
	}
	if len(ranking) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(ranking))
	}
	if ranking[0].UserID != 1 || ranking[0].Score != 1050 {
		t.Fatalf("unexpected leader: %+v", ranking[0])
	}
	if ranking[1].UserID != 2 || ranking[1].Category == chit.CategoryExcellent {
		t.Fatalf("unexpected runner-up: %+v", ranking[1])
	}
}
