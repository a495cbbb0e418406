// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-auth/internal/platform/constants"
)

// Event is the JSON payload published on the lock channel.
type Event struct {
	Username    string    `json:"username"`
	RequestedAt time.Time `json:"requested_at"`
}

// # Publisher

// Publisher sends lock instructions over Redis Pub/Sub. Messages published
// while no subscriber listens are lost.
type Publisher struct {
	client  *redis.Client
	channel string
	now     func() time.Time
}

// NewPublisher creates a publisher on the default lock channel.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client, channel: constants.RedisChannelAccountLock, now: time.Now}
}

// RequestLock publishes the instruction and returns without waiting for it to be applied.
func (publisher *Publisher) RequestLock(context context.Context, username string) error {
	payload, err := json.Marshal(Event{Username: username, RequestedAt: publisher.now().UTC()})
	if err != nil {
		return fmt.Errorf("lock_event_encode_failed: %w", err)
	}

	if err := publisher.client.Publish(context, publisher.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis_publish_lock_failed: %w", err)
	}
	return nil
}

// # Subscriber

// Locker is what the subscriber applies each event to.
type Locker interface {
	Lock(context context.Context, username string) error
}

// LockerFunc adapts a function to [Locker].
type LockerFunc func(context context.Context, username string) error

// Lock calls f.
func (f LockerFunc) Lock(context context.Context, username string) error { return f(context, username) }

// Subscriber consumes lock events and applies them.
type Subscriber struct {
	client  *redis.Client
	channel string
	locker  Locker
	logger  *slog.Logger
	ready   func()
}

// SubscriberOption customizes a [Subscriber].
type SubscriberOption func(*Subscriber)

// WithReadyHook registers a callback invoked once the subscription is confirmed.
func WithReadyHook(hook func()) SubscriberOption {
	return func(subscriber *Subscriber) { subscriber.ready = hook }
}

// NewSubscriber creates a subscriber on the default lock channel.
func NewSubscriber(client *redis.Client, locker Locker, logger *slog.Logger, opts ...SubscriberOption) *Subscriber {
	subscriber := &Subscriber{
		client:  client,
		channel: constants.RedisChannelAccountLock,
		locker:  locker,
		logger:  logger,
		ready:   func() {},
	}
	for _, opt := range opts {
		opt(subscriber)
	}
	return subscriber
}

/*
Run blocks, applying events until ctx is cancelled.

Returns:
  - error: nil on cancellation, or the subscription failure
*/
func (subscriber *Subscriber) Run(ctx context.Context) error {
	pubsub := subscriber.client.Subscribe(ctx, subscriber.channel)
	defer pubsub.Close()

	// Wait for the subscription confirmation before consuming
	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("redis_subscribe_lock_failed: %w", err)
	}

	subscriber.logger.InfoContext(ctx, "lock_subscriber_started", slog.String("channel", subscriber.channel))
	subscriber.ready()

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			subscriber.logger.InfoContext(ctx, "lock_subscriber_stopped")
			return nil
		case message, ok := <-messages:
			if !ok {
				return nil
			}
			subscriber.handle(ctx, message.Payload)
		}
	}
}

func (subscriber *Subscriber) handle(ctx context.Context, payload string) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil || event.Username == "" {
		subscriber.logger.WarnContext(ctx, "lock_event_malformed", slog.String("payload", payload))
		return
	}

	if err := subscriber.locker.Lock(ctx, event.Username); err != nil {
		subscriber.logger.WarnContext(ctx, "lock_event_apply_failed",
			slog.String("username", event.Username),
			slog.Any("error", err),
		)
	}
}
