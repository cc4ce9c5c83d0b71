package db

import (
	"fmt"
	"testing"
	"time"

	"github.com/chitfundhq/chitfund/internal/models"
)

func TestMigrateCreatesSchema(t *testing.T) {
	dsn := fmt.Sprintf("file:migrate_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	for _, table := range []string{
		"admins", "users", "chit_groups", "group_members",
		"auctions", "bids", "auction_exclusions", "payments", "settings",
	} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}

	// Migration is idempotent.
	if errAgain := Migrate(conn); errAgain != nil {
		t.Fatalf("second migrate: %v", errAgain)
	}
}

func TestBidUniquePerMemberPerAuction(t *testing.T) {
	dsn := fmt.Sprintf("file:bidunique_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	now := time.Now().UTC()
	first := models.Bid{AuctionID: 1, UserID: 1, Amount: 1000, BidTime: now}
	if errCreate := conn.Create(&first).Error; errCreate != nil {
		t.Fatalf("create bid: %v", errCreate)
	}
	dup := models.Bid{AuctionID: 1, UserID: 1, Amount: 2000, BidTime: now}
	if errDup := conn.Create(&dup).Error; errDup == nil {
		t.Fatalf("expected unique index violation for duplicate bid")
	}
}
