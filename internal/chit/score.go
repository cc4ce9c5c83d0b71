package chit

import (
	"sort"
	"time"

	"github.com/chitfundhq/chitfund/internal/models"
)

// Score categories.
const (
	CategoryExcellent = "Excellent"
	CategoryGood      = "Good"
	CategoryAverage   = "Average"
	CategoryPoor      = "Poor"
)

// Scoring weights. Every member starts at the base score; on-time payments
// add, delayed payments and accumulated delay days subtract.
const (
	scoreBase          = 1000
	scorePerOnTime     = 50
	scorePerDelayed    = 30
	scorePerDelayedDay = 5
)

// MemberScore aggregates one member's payment timeliness.
type MemberScore struct {
	UserID          uint64
	OnTimePayments  int
	DelayedPayments int
	TotalDelayDays  int
	Score           int
	Category        string
}

// ScorePayments computes a member's timeliness score from their payment
// history. A payment counts on time when fully collected by its due date.
// A payment collected late, or still unpaid past its due date, counts as
// delayed; delay days accrue from the due date to collection (or to now
// for payments still outstanding). A cycle whose dividend covered the
// whole contribution owes nothing and counts on time.
func ScorePayments(userID uint64, payments []models.Payment, now time.Time) MemberScore {
	out := MemberScore{UserID: userID}
	for _, p := range payments {
		if p.UserID != userID {
			continue
		}
		switch {
		case p.DueAmount <= 0:
			out.OnTimePayments++
		case p.Status == models.PaymentStatusPaid && p.PaidAt != nil && !p.PaidAt.After(p.DueDate):
			out.OnTimePayments++
		case p.Status == models.PaymentStatusPaid && p.PaidAt != nil:
			out.DelayedPayments++
			out.TotalDelayDays += delayDays(p.DueDate, *p.PaidAt)
		case now.After(p.DueDate):
			out.DelayedPayments++
			out.TotalDelayDays += delayDays(p.DueDate, now)
		}
	}
	out.Score = scoreBase +
		scorePerOnTime*out.OnTimePayments -
		scorePerDelayed*out.DelayedPayments -
		scorePerDelayedDay*out.TotalDelayDays
	out.Category = ScoreCategory(out.Score)
	return out
}

// ScoreCategory maps a score onto its display category.
func ScoreCategory(score int) string {
	switch {
	case score >= 1000:
		return CategoryExcellent
	case score >= 800:
		return CategoryGood
	case score >= 600:
		return CategoryAverage
	default:
		return CategoryPoor
	}
}

// RankScores sorts member scores best-first, breaking score ties by more
// on-time payments, then by user ID for determinism.
func RankScores(scores []MemberScore) []MemberScore {
	ranked := make([]MemberScore, len(scores))
	copy(ranked, scores)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].OnTimePayments != ranked[j].OnTimePayments {
			return ranked[i].OnTimePayments > ranked[j].OnTimePayments
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	return ranked
}

// delayDays counts whole days of delay, rounding any partial day up.
func delayDays(due, paid time.Time) int {
	if !paid.After(due) {
		return 0
	}
	d := paid.Sub(due)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
