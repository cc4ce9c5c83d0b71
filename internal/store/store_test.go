package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/chitfundhq/chitfund/internal/db"
	"github.com/chitfundhq/chitfund/internal/models"
	"gorm.io/gorm"
)

func setupStoreDB(t *testing.T, name string) *gorm.DB {
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

func seedAuction(t *testing.T, conn *gorm.DB, status string) models.Auction {
	t.Helper()
	now := time.Now().UTC()
	auction := models.Auction{
		ChitGroupID:   1,
		AuctionNumber: 1,
		Status:        status,
		StartingBid:   5000,
		ScheduledAt:   now,
		DueDate:       now.AddDate(0, 0, 10),
	}
	if errCreate := conn.Create(&auction).Error; errCreate != nil {
		t.Fatalf("seed auction: %v", errCreate)
	}
	return auction
}
