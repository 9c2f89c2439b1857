package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/todo-service/config"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/events"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/service"
	"github.com/redis/go-redis/v9"
)

// OpenEvents returns the change-event publisher and a close func.
// Without REDIS_ADDR events are dropped.
func OpenEvents(ctx context.Context, cfg config.RedisConfig) (service.Publisher, func() error, error) {
	if cfg.Addr == "" {
		return events.NopPublisher{}, func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	return events.NewRedisPublisher(client, cfg.Channel), client.Close, nil
}
