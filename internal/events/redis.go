package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// channel is the redis Pub/Sub channel carrying auction events.
const channel = "chitfund.auctions"

// RedisBus implements Bus over redis Pub/Sub so every server instance
// sees every auction change.
type RedisBus struct {
	rdb *redis.Client
}

// NewRedisBus creates a RedisBus backed by the given client.
func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

// Publish sends the event to the shared channel.
func (b *RedisBus) Publish(ctx context.Context, event AuctionEvent) error {
	payload, errMarshal := json.Marshal(event)
	if errMarshal != nil {
		return fmt.Errorf("events: marshal: %w", errMarshal)
	}
	if err := b.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("events: publish: %w", err)
	}
	return nil
}

// Subscribe opens a Pub/Sub subscription and returns a channel of decoded
// events. The subscription closes when the context is cancelled.
func (b *RedisBus) Subscribe(ctx context.Context) (<-chan AuctionEvent, error) {
	pubsub := b.rdb.Subscribe(ctx, channel)

	// Verify the subscription is established before handing out the channel.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("events: subscribe: %w", err)
	}

	out := make(chan AuctionEvent, 128)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event AuctionEvent
				if errDecode := json.Unmarshal([]byte(msg.Payload), &event); errDecode != nil {
					log.WithError(errDecode).Warn("events: drop undecodable payload")
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Compile-time interface check.
var _ Bus = (*RedisBus)(nil)
