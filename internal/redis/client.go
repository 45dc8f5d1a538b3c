// Redis client: pool, timeouts, Ping at startup; used for the per-IP rate
// limit and the chatbot answer cache.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/config"
)

// New creates a Redis client with pool and timeouts (Dial, Read, Write);
// performs a Ping before returning.
func New(cfg config.Redis) (*redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return cli, nil
}

// Close closes the client (call during graceful shutdown).
func Close(cli *redis.Client) {
	_ = cli.Close()
}
