package chit

import (
	"time"

	"github.com/chitfundhq/chitfund/internal/models"
)

// PaymentStatus derives a payment's status from its amounts and due date.
// Fully collected payments are Paid regardless of timing; anything not
// fully collected past its due date is Overdue; otherwise partial
// collections are Partial and untouched payments Pending.
func PaymentStatus(dueAmount, paidAmount int64, dueDate time.Time, now time.Time) string {
	if paidAmount >= dueAmount {
		return models.PaymentStatusPaid
	}
	if now.After(dueDate) {
		return models.PaymentStatusOverdue
	}
	if paidAmount > 0 {
		return models.PaymentStatusPartial
	}
	return models.PaymentStatusPending
}
