package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GoSim-25-26J-441/todo-service/internal/todos/domain"
	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "todos:events"

// RedisPublisher fans todo change events out over Redis Pub/Sub.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a publisher for the given channel
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// Channel returns the Pub/Sub channel events are sent to.
func (p *RedisPublisher) Channel() string { return p.channel }

// Publish serializes the event and sends it to the channel.
func (p *RedisPublisher) Publish(ctx context.Context, ev domain.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", ev.Type, err)
	}
	return nil
}

// NopPublisher drops every event. Used when no Redis is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }
