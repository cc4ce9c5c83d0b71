package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker implements Locker with an in-process key set. TTLs are
// ignored: an in-process holder either releases the lock or the process
// is gone along with the lock itself.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryLocker creates an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

// Acquire takes the lock for key or returns ErrHeld without blocking.
func (l *MemoryLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, ErrHeld
	}
	l.held[key] = struct{}{}

	released := false
	unlock := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if released {
			return
		}
		released = true
		delete(l.held, key)
	}
	return unlock, nil
}

// Compile-time interface check.
var _ Locker = (*MemoryLocker)(nil)
