// Package lock serializes settlement attempts per auction. A redis-backed
// locker covers multi-instance deployments; the in-process locker covers
// single-node and test setups. Either way the database CAS on the auction
// status remains the authoritative guard — the lock only keeps losers from
// doing wasted work before hitting it.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrHeld indicates the lock is already held by another party.
var ErrHeld = errors.New("lock: already held")

// Locker acquires exclusive per-key locks. Acquire returns an unlock
// function that must be called to release the lock; it is safe to call
// more than once.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}
