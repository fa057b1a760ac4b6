package app

import (
	"context"
	"fmt"
	"io"

	"github.com/MrSnakeDoc/webmark/internal/config"
	"github.com/MrSnakeDoc/webmark/internal/domain"
	"github.com/MrSnakeDoc/webmark/internal/hierarchy"
	"github.com/MrSnakeDoc/webmark/internal/logger"
	"github.com/MrSnakeDoc/webmark/internal/redis"
	"github.com/MrSnakeDoc/webmark/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/webmark/internal/store/redis"
)

// Backend is what the running service needs from a store implementation.
type Backend interface {
	hierarchy.Store
	Ping(ctx context.Context) error
	SweepOrphans(ctx context.Context) (int, error)
	Snapshot(ctx context.Context) (domain.GlobalSnapshot, error)
	SaveSnapshot(ctx context.Context, snap domain.GlobalSnapshot) error
	LatestSnapshot(ctx context.Context) (*domain.GlobalSnapshot, error)
}

var (
	_ Backend = (*redisstore.Store)(nil)
	_ Backend = (*memory.Store)(nil)
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore builds the configured backend. The returned closer releases
// the underlying connection and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (Backend, io.Closer, error) {
	switch cfg.Store {
	case config.StoreMemory:
		loggerClient.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), nopCloser{}, nil
	case config.StoreRedis:
		// Fail fast if unavailable
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		loggerClient.Info("Redis initialized successfully")
		return redisstore.NewStore(client), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
