// Package settings exposes DB-backed runtime settings through an atomic
// in-memory snapshot. Handlers read the snapshot without touching the
// database; updates via the admin API refresh it.
package settings

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// DB config keys and defaults.
const (
	// OrgNameKey is the DB config key for the organization display name.
	OrgNameKey = "ORG_NAME"
	// DefaultOrgName is the fallback organization name.
	DefaultOrgName = "ChitFund"
	// WinnerMarkupPercentKey controls the model B contribution markup.
	WinnerMarkupPercentKey = "WINNER_MARKUP_PERCENT"
	// PaymentDueDaysKey controls how many days after settlement payments fall due.
	PaymentDueDaysKey = "PAYMENT_DUE_DAYS"
	// DefaultWinnerMarkupPercent is the fallback model B markup.
	DefaultWinnerMarkupPercent = 20
	// DefaultPaymentDueDays is the fallback due window in days.
	DefaultPaymentDueDays = 10
)

// snapshot holds the in-memory DB config values.
type snapshot struct {
	updatedAt time.Time
	values    map[string]json.RawMessage
}

var global atomic.Value // stores snapshot

func init() {
	global.Store(snapshot{values: map[string]json.RawMessage{}})
}

// Store replaces the in-memory snapshot.
func Store(updatedAt time.Time, values map[string]json.RawMessage) {
	next := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		if v == nil {
			next[key] = nil
			continue
		}
		copied := make([]byte, len(v))
		copy(copied, v)
		next[key] = copied
	}
	global.Store(snapshot{updatedAt: updatedAt.UTC(), values: next})
}

// UpdatedAt returns the snapshot's last update timestamp.
func UpdatedAt() time.Time {
	return load().updatedAt
}

// Value returns a copy of the raw config value for a key.
func Value(key string) (json.RawMessage, bool) {
	cfg := load()
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	val, ok := cfg.values[key]
	if !ok {
		return nil, false
	}
	if val == nil {
		return nil, true
	}
	copied := make([]byte, len(val))
	copy(copied, val)
	return copied, true
}

// IntValue returns a key's value parsed as an int, or the fallback.
func IntValue(key string, fallback int) int {
	raw, ok := Value(key)
	if !ok {
		return fallback
	}
	if n, okParse := parseInt(raw); okParse {
		return n
	}
	return fallback
}

// StringValue returns a key's value parsed as a string, or the fallback.
func StringValue(key, fallback string) string {
	raw, ok := Value(key)
	if !ok {
		return fallback
	}
	var s string
	if errUnmarshal := json.Unmarshal(raw, &s); errUnmarshal == nil && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func load() snapshot {
	v := global.Load()
	cfg, ok := v.(snapshot)
	if !ok || cfg.values == nil {
		return snapshot{values: map[string]json.RawMessage{}}
	}
	return cfg
}

func parseInt(raw json.RawMessage) (int, bool) {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return 0, false
	}
	var n int
	if errUnmarshal := json.Unmarshal(raw, &n); errUnmarshal == nil {
		return n, true
	}
	var s string
	if errUnmarshal := json.Unmarshal(raw, &s); errUnmarshal == nil {
		if parsed, errParse := strconv.Atoi(strings.TrimSpace(s)); errParse == nil {
			return parsed, true
		}
	}
	return 0, false
}
