package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/roadsigns-backend/internal/adapter/kvstore"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres"
	"github.com/heartmarshall/roadsigns-backend/internal/config"
	"github.com/heartmarshall/roadsigns-backend/internal/transport/rest"
)

type kvStore interface {
	Get(ctx context.Context, userID uuid.UUID, key string) (string, bool, error)
	Set(ctx context.Context, userID uuid.UUID, key, value string) error
	Remove(ctx context.Context, userID uuid.UUID, key string) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type byteCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// stores holds the connections shared by every component.
type stores struct {
	pool   *pgxpool.Pool
	redis  *redis.Client
	kv     kvStore
	cache  byteCache
	checks []rest.Check
}

// openStores connects to PostgreSQL and the configured KV driver. The
// memory driver has no cache; the catalogue is then read from PostgreSQL on
// every request.
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	s := &stores{
		pool:   pool,
		checks: []rest.Check{{Name: "database", Pinger: pool}},
	}

	switch cfg.KV.Driver {
	case config.KVDriverRedis:
		client, err := kvstore.NewRedisClient(ctx, cfg.KV)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		r := kvstore.NewRedis(client, cfg.KV.KeyPrefix)
		s.redis = client
		s.kv = r
		s.cache = kvstore.NewCache(client, cfg.KV.KeyPrefix)
		s.checks = append(s.checks, rest.Check{Name: "kv", Pinger: r, Optional: true})
	default:
		s.kv = kvstore.NewMemory()
		s.cache = kvstore.NopCache{}
	}

	logger.InfoContext(ctx, "stores ready",
		slog.String("kv_driver", cfg.KV.Driver),
		slog.Int("db_max_conns", int(cfg.Database.MaxConns)),
	)
	return s, nil
}

func (s *stores) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	s.pool.Close()
}
