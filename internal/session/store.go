package session

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/csv-dupcheck/internal/config"
	"github.com/ignite/csv-dupcheck/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Connect opens a Redis client for cfg.RedisURL and verifies it with a PING.
// It returns nil, nil when no URL is configured.
func Connect(ctx context.Context, cfg config.SessionConfig) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewStore returns a Redis store when client is non-nil and an in-memory
// store otherwise.
func NewStore(client *redis.Client) Store {
	if client != nil {
		logger.Info("Upload sessions stored in Redis")
		return NewRedisStore(client)
	}
	logger.Info("Upload sessions stored in memory")
	return NewMemoryStore()
}

// StartSweeper periodically drops expired sessions from a MemoryStore until
// ctx is done. Other stores expire entries on their own.
func StartSweeper(ctx context.Context, store Store, interval time.Duration) {
	mem, ok := store.(*MemoryStore)
	if !ok {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := mem.Sweep(now); n > 0 {
					logger.Debug("Expired upload sessions swept", "count", n)
				}
			}
		}
	}()
}
