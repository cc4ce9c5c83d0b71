package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting stores one configuration value as JSON.
type Setting struct {
	Key       string         `gorm:"primaryKey;type:text"`             // Setting key.
	Value     datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"` // Setting payload.
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime"`          // Last update timestamp.
}

// TableName overrides the default table name.
func (Setting) TableName() string {
	return "settings"
}
