package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saaga0h/sunwall/pkg/config"
)

// goRedisClient implements Client with go-redis. The agent touches one small
// hash per decision, so the pool is kept tiny and timeouts short.
type goRedisClient struct {
	rdb    *redis.Client
	addr   string
	logger *slog.Logger
}

// NewClient creates a Redis client. No connection is made until the first command.
func NewClient(cfg *config.Config, logger *slog.Logger) Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		ClientName:   fmt.Sprintf("%s-%s", cfg.ServiceName, cfg.Display),
		PoolSize:     2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &goRedisClient{
		rdb:    rdb,
		addr:   cfg.RedisAddress(),
		logger: logger,
	}
}

func (c *goRedisClient) HSet(ctx context.Context, key string, values map[string]interface{}) error {
	if err := c.rdb.HSet(ctx, key, values).Err(); err != nil {
		return fmt.Errorf("failed to write hash %s: %w", key, err)
	}
	return nil
}

func (c *goRedisClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read hash %s: %w", key, err)
	}
	return fields, nil
}

func (c *goRedisClient) Del(ctx context.Context, keys ...string) error {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete %v: %w", keys, err)
	}
	return nil
}

// Ping verifies the server is reachable
func (c *goRedisClient) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s failed: %w", c.addr, err)
	}
	c.logger.Info("Connected to Redis", "address", c.addr)
	return nil
}

func (c *goRedisClient) Close() error {
	c.logger.Info("Closing Redis connection", "address", c.addr)
	return c.rdb.Close()
}
