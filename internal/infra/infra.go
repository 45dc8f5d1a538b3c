// Shared infrastructure lifecycle: Postgres pool and Redis client.
package infra

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/config"
	"github.com/thejas-c/E-Waste-Facility-Locator/internal/db"
	redisclient "github.com/thejas-c/E-Waste-Facility-Locator/internal/redis"
)

type Infra struct {
	PG    *pgxpool.Pool
	Redis *redis.Client
}

// New connects Postgres and Redis; both are pinged before this returns.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	pool, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}

	rdb, err := redisclient.New(cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("infra ready",
		zap.String("redis_addr", cfg.Redis.Addr),
		zap.Int32("pg_max_conns", cfg.Postgres.MaxConns))
	return &Infra{PG: pool, Redis: rdb}, nil
}

func (i *Infra) Close() {
	if i == nil {
		return
	}
	if i.PG != nil {
		i.PG.Close()
	}
	if i.Redis != nil {
		redisclient.Close(i.Redis)
	}
}
