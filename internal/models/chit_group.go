package models

import "time"

// Chit group lifecycle states.
const (
	// GroupStatusPending marks a group still collecting members.
	GroupStatusPending = "Pending"
	// GroupStatusActive marks a group whose auction cycles are running.
	GroupStatusActive = "Active"
	// GroupStatusCompleted marks a group whose cycles are all closed.
	GroupStatusCompleted = "Completed"
)

// Winner payment models.
const (
	// PaymentModelA derives the contribution from the plain chit amount.
	PaymentModelA = "A"
	// PaymentModelB bakes a markup into the monthly contribution.
	PaymentModelB = "B"
)

// ChitGroup represents a rotating-savings auction pool.
type ChitGroup struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name string `gorm:"type:text;not null"` // Display name for the group.

	ChitAmount          int64  `gorm:"not null"`                         // Total pool value in currency minor units.
	CommissionAmount    int64  `gorm:"not null"`                         // Fixed organizer fee per auction cycle.
	TotalMembers        int    `gorm:"not null"`                         // Fixed membership cardinality.
	DurationMonths      int    `gorm:"not null"`                         // Number of auction cycles.
	WinnerPaymentModel  string `gorm:"type:text;not null;default:'A'"`   // Payment model A or B.
	MonthlyContribution int64  `gorm:"not null"`                         // Per-cycle amount due before dividend adjustment.
	Status              string `gorm:"type:text;not null;index;default:'Pending'"` // Lifecycle status.

	Members []GroupMember `gorm:"foreignKey:ChitGroupID"` // Member roster.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName overrides the default table name.
func (ChitGroup) TableName() string {
	return "chit_groups"
}

// GroupMember links a user to a chit group and records winning history.
type GroupMember struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ChitGroupID uint64 `gorm:"not null;index;uniqueIndex:idx_group_user"` // Owning group ID.
	UserID      uint64 `gorm:"not null;index;uniqueIndex:idx_group_user"` // Member user ID.

	JoinedAt     time.Time `gorm:"not null"`               // When the member joined the group.
	HasWon       bool      `gorm:"not null;default:false"` // Whether the member has won an auction in this group.
	WonInAuction *int      ``                              // Auction number won, when HasWon is true.

	User *User `gorm:"foreignKey:UserID"` // Linked user account.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName overrides the default table name.
func (GroupMember) TableName() string {
	return "group_members"
}
