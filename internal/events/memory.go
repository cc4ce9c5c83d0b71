package events

import (
	"context"
	"sync"
)

// MemoryBus implements Bus with in-process fan-out for single-node and
// test setups. Slow subscribers drop events rather than blocking
// publishers.
type MemoryBus struct {
	mu   sync.Mutex
	subs map[chan AuctionEvent]struct{}
}

// NewMemoryBus creates an empty MemoryBus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[chan AuctionEvent]struct{})}
}

// Publish delivers the event to every live subscriber.
func (b *MemoryBus) Publish(_ context.Context, event AuctionEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber whose channel closes when the context
// is cancelled.
func (b *MemoryBus) Subscribe(ctx context.Context) (<-chan AuctionEvent, error) {
	ch := make(chan AuctionEvent, 128)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// Compile-time interface check.
var _ Bus = (*MemoryBus)(nil)
