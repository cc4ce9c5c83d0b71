package chit

import (
	"testing"
	"time"

	"github.com/chitfundhq/chitfund/internal/models"
)

func paidOn(t time.Time) *time.Time { return &t }

func TestScorePayments(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	payments := []models.Payment{
		// On time: paid the day before due.
		{UserID: 7, DueAmount: 16250, Status: models.PaymentStatusPaid, DueDate: due, PaidAt: paidOn(due.AddDate(0, 0, -1))},
		// On time: paid exactly on the due date.
		{UserID: 7, DueAmount: 16250, Status: models.PaymentStatusPaid, DueDate: due, PaidAt: paidOn(due)},
		// On time: the dividend covered the whole contribution, nothing owed.
		{UserID: 7, DueAmount: 0, DividendReceived: 20000, Status: models.PaymentStatusPaid, DueDate: due},
		// Delayed: paid three days late.
		{UserID: 7, DueAmount: 16250, Status: models.PaymentStatusPaid, DueDate: due, PaidAt: paidOn(due.AddDate(0, 0, 3))},
		// Still unpaid and past due: 21 days of delay as of now.
		{UserID: 7, DueAmount: 16250, Status: models.PaymentStatusOverdue, DueDate: due},
		// Not yet due: ignored.
		{UserID: 7, DueAmount: 16250, Status: models.PaymentStatusPending, DueDate: now.AddDate(0, 0, 5)},
		// Another member's payment: ignored.
		{UserID: 8, DueAmount: 16250, Status: models.PaymentStatusPaid, DueDate: due, PaidAt: paidOn(due)},
	}

	score := ScorePayments(7, payments, now)
	if score.OnTimePayments != 3 {
		t.Fatalf("expected 3 on-time payments, got %d", score.OnTimePayments)
	}
	if score.DelayedPayments != 2 {
		t.Fatalf("expected 2 delayed payments, got %d", score.DelayedPayments)
	}
	if score.TotalDelayDays != 24 {
		t.Fatalf("expected 24 delay days, got %d", score.TotalDelayDays)
	}
	want := 1000 + 50*3 - 30*2 - 5*24
	if score.Score != want {
		t.Fatalf("expected score %d, got %d", want, score.Score)
	}
}

func TestScoreCategoryThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{1200, CategoryExcellent},
		{1000, CategoryExcellent},
		{999, CategoryGood},
		{800, CategoryGood},
		{799, CategoryAverage},
		{600, CategoryAverage},
		{599, CategoryPoor},
		{-100, CategoryPoor},
	}
	for _, tc := range cases {
		if got := ScoreCategory(tc.score); got != tc.want {
			t.Fatalf("score %d: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}

func TestRankScores(t *testing.T) {
	scores := []MemberScore{
		{UserID: 1, Score: 900, OnTimePayments: 2},
		{UserID: 2, Score: 1100},
		{UserID: 3, Score: 900, OnTimePayments: 5},
		{UserID: 4, Score: 900, OnTimePayments: 5},
	}
	ranked := RankScores(scores)
	want := []uint64{2, 3, 4, 1}
	for i, id := range want {
		if ranked[i].UserID != id {
			t.Fatalf("rank %d: expected member %d, got %d", i, id, ranked[i].UserID)
		}
	}
}
