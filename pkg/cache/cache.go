package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/storyloom/treasury/pkg/config"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cache is the small shared-counter abstraction injected into components
// that keep hot, non-authoritative state (for example unread counters).
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Incr(ctx context.Context, key string, delta int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// New picks the redis-backed cache when configured, falling back to the
// in-process cache otherwise.
func New(cfg *config.Config, log *zap.SugaredLogger) Cache {
	if cfg.Cache.RedisAddr != "" {
		log.Infow("cache: using redis", "addr", cfg.Cache.RedisAddr)
		return NewRedis(cfg)
	}
	log.Infow("cache: using in-process memory cache")
	return NewMemory()
}

var Module = fx.Options(
	fx.Provide(New),
)
