package events

import (
	"context"
	"testing"
	"time"
)

func TestMemoryBusFanOut(t *testing.T) {
	bus := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub1, errSub1 := bus.Subscribe(ctx)
	if errSub1 != nil {
		t.Fatalf("subscribe: %v", errSub1)
	}
	sub2, errSub2 := bus.Subscribe(ctx)
	if errSub2 != nil {
		t.Fatalf("subscribe: %v", errSub2)
	}

	event := AuctionEvent{
		Kind:        KindAuctionClosed,
		ChitGroupID: 1,
		AuctionID:   7,
		Status:      "Closed",
		At:          time.Now().UTC(),
	}
	if errPub := bus.Publish(ctx, event); errPub != nil {
		t.Fatalf("publish: %v", errPub)
	}

	for i, sub := range []<-chan AuctionEvent{sub1, sub2} {
		select {
		case got := <-sub:
			if got.AuctionID != 7 || got.Kind != KindAuctionClosed {
				t.Fatalf("subscriber %d: unexpected event %+v", i, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timed out waiting for event", i)
		}
	}
}

func TestMemoryBusSubscriptionClosesOnCancel(t *testing.T) {
	bus := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())

	sub, errSub := bus.Subscribe(ctx)
	if errSub != nil {
		t.Fatalf("subscribe: %v", errSub)
	}
	cancel()

	select {
	case _, ok := <-sub:
		if ok {
			t.Fatalf("expected closed channel after cancel")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for channel close")
	}

	// Publishing after the subscriber is gone must not fail.
	if errPub := bus.Publish(context.Background(), AuctionEvent{Kind: KindBidPlaced}); errPub != nil {
		t.Fatalf("publish after cancel: %v", errPub)
	}
}
