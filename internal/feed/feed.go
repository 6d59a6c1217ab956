// Package feed publishes order change events for UI refresh. The feed is an
// optimization only: courier and admin views must stay correct on plain
// polling, so publish failures are logged and dropped.
package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	EventCreated   = "order.created"
	EventAccepted  = "order.accepted"
	EventDelivered = "order.delivered"
	EventCanceled  = "order.canceled"
)

type Event struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
	TS      string `json:"ts"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType, orderID string) error
	Close() error
}

type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(addr, channel string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisPublisher{client: client, channel: channel}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType, orderID string) error {
	b, err := json.Marshal(Event{
		Type:    eventType,
		OrderID: orderID,
		TS:      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, b).Err()
}

func (p *RedisPublisher) Close() error { return p.client.Close() }

// Nop is used when REDIS_ADDR is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string) error { return nil }
func (Nop) Close() error                                  { return nil }
