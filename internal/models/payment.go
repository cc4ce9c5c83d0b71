package models

import "time"

// Payment statuses.
const (
	// PaymentStatusPending marks a payment with nothing collected yet.
	PaymentStatusPending = "Pending"
	// PaymentStatusPartial marks a payment collected in part.
	PaymentStatusPartial = "Partial"
	// PaymentStatusPaid marks a fully collected payment.
	PaymentStatusPaid = "Paid"
	// PaymentStatusOverdue marks an unpaid payment past its due date.
	PaymentStatusOverdue = "Overdue"
)

// Payment is one member's ledger entry for one settled auction cycle.
// Rows are created when an auction closes and mutated by recorded
// payments; the (auction_id, user_id) unique index backs idempotent
// ledger writes.
type Payment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Reference string `gorm:"type:text;not null;uniqueIndex"` // Stable reference number for receipts.

	ChitGroupID uint64 `gorm:"not null;index"`                                  // Owning group ID.
	AuctionID   uint64 `gorm:"not null;index;uniqueIndex:idx_auction_payee"`    // Auction cycle the payment belongs to.
	UserID      uint64 `gorm:"not null;index;uniqueIndex:idx_auction_payee"`    // Paying member's user ID.

	BaseAmount       int64 `gorm:"not null"`           // Monthly contribution before dividend adjustment.
	DividendReceived int64 `gorm:"not null;default:0"` // Dividend credited against the contribution.
	DueAmount        int64 `gorm:"not null"`           // BaseAmount minus DividendReceived, never negative.
	PaidAmount       int64 `gorm:"not null;default:0"` // Amount collected so far.

	Status  string    `gorm:"type:text;not null;index;default:'Pending'"` // Payment status.
	DueDate time.Time `gorm:"not null"`                                   // When the payment falls due.

	PaidAt *time.Time `` // When the payment was fully collected.

	IsWinner bool `gorm:"not null;default:false"` // Whether the payer won this cycle.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName overrides the default table name.
func (Payment) TableName() string {
	return "payments"
}

// OutstandingBalance returns the amount still owed.
func (p *Payment) OutstandingBalance() int64 {
	remaining := p.DueAmount - p.PaidAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}
