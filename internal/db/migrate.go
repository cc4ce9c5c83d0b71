package db

import (
	"fmt"

	"github.com/chitfundhq/chitfund/internal/models"
	"gorm.io/gorm"
)

// Migrate applies the schema for all chit fund tables.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if err := conn.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.ChitGroup{},
		&models.GroupMember{},
		&models.Auction{},
		&models.Bid{},
		&models.AuctionExclusion{},
		&models.Payment{},
		&models.Setting{},
	); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
