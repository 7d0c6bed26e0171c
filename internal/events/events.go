// Package events publishes domain events to Redis pub/sub so the dashboard
// gateway can forward them to connected browsers.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Channel names.
const (
	DealMoved           = "EVENT_DEAL_MOVED"
	NotificationCreated = "EVENT_NOTIFICATION_CREATED"
)

// Publisher sends an event payload on a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// RedisPublisher is a Publisher backed by go-redis.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher returns a Publisher that JSON-encodes payloads onto rdb.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish marshals payload and publishes it on channel.
func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", channel, err)
	}
	if err := p.rdb.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

// Discard drops every event. Used when Redis is not wired (tests, migrate).
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(context.Context, string, any) error { return nil }
