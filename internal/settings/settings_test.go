package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/chitfundhq/chitfund/internal/db"
)

func TestSnapshotDefaultsAndOverrides(t *testing.T) {
	Store(time.Now().UTC(), map[string]json.RawMessage{
		WinnerMarkupPercentKey: json.RawMessage(`12`),
		OrgNameKey:             json.RawMessage(`"Madras Chits"`),
	})
	t.Cleanup(func() { Store(time.Time{}, nil) })

	if got := IntValue(WinnerMarkupPercentKey, DefaultWinnerMarkupPercent); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	if got := IntValue(PaymentDueDaysKey, DefaultPaymentDueDays); got != DefaultPaymentDueDays {
		t.Fatalf("expected default due days, got %d", got)
	}
	if got := StringValue(OrgNameKey, DefaultOrgName); got != "Madras Chits" {
		t.Fatalf("expected override org name, got %s", got)
	}
}

func TestUpsertAndRefreshRoundTrip(t *testing.T) {
	dsn := fmt.Sprintf("file:settings_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	t.Cleanup(func() { Store(time.Time{}, nil) })
	ctx := context.Background()

	if errUp := Upsert(ctx, conn, PaymentDueDaysKey, json.RawMessage(`15`)); errUp != nil {
		t.Fatalf("upsert: %v", errUp)
	}
	if got := IntValue(PaymentDueDaysKey, DefaultPaymentDueDays); got != 15 {
		t.Fatalf("expected 15 after upsert, got %d", got)
	}

	// Updating an existing key replaces, not duplicates.
	if errUp := Upsert(ctx, conn, PaymentDueDaysKey, json.RawMessage(`20`)); errUp != nil {
		t.Fatalf("second upsert: %v", errUp)
	}
	if got := IntValue(PaymentDueDaysKey, DefaultPaymentDueDays); got != 20 {
		t.Fatalf("expected 20 after update, got %d", got)
	}
}
