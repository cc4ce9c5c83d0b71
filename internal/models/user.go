package models

import "time"

// User represents a chit fund member account for the portal.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Email    string `gorm:"type:text"`                      // Contact email.
	Phone    string `gorm:"type:text"`                      // Contact phone number.
	Password string `gorm:"type:text;not null"`             // Hashed password.
	FullName string `gorm:"type:text"`                      // Display name.

	Disabled bool `gorm:"not null;default:false"` // Whether sign-in is blocked.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName overrides the default table name.
func (User) TableName() string {
	return "users"
}
