package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryLockerExcludes(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	unlock, err := l.Acquire(ctx, "auction:1", time.Minute)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if _, errHeld := l.Acquire(ctx, "auction:1", time.Minute); !errors.Is(errHeld, ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", errHeld)
	}

	// A different key is independent.
	unlock2, errOther := l.Acquire(ctx, "auction:2", time.Minute)
	if errOther != nil {
		t.Fatalf("acquire other key: %v", errOther)
	}
	unlock2()

	unlock()
	// Unlock is idempotent.
	unlock()

	if _, errAgain := l.Acquire(ctx, "auction:1", time.Minute); errAgain != nil {
		t.Fatalf("reacquire after unlock: %v", errAgain)
	}
}

func TestMemoryLockerSingleWinnerUnderRace(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Acquire(ctx, "auction:9", time.Minute); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one lock winner, got %d", winners)
	}
}
