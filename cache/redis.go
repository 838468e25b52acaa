package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fashion-etl/config"
)

// NewRedis returns nil when REDIS_HOST is unset; the page cache is then off.
// A failed ping only disables the cache for this process.
func NewRedis(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) *redis.Client {
	rc := cfg.Redis
	if strings.TrimSpace(rc.Host) == "" {
		log.Infow("redis_disabled", "reason", "missing REDIS_HOST")
		return nil
	}

	client := redis.NewClient(Options(rc))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warnw("redis_ping_failed", "addr", client.Options().Addr, "err", err)
				return nil
			}
			log.Infow("redis_connected", "addr", client.Options().Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := client.Close(); err != nil {
				log.Warnw("redis_close_failed", "err", err)
			}
			return nil
		},
	})

	return client
}

func Options(rc config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", rc.Host, rc.Port),
		Username: strings.TrimSpace(rc.User),
		Password: rc.Password,
	}
	if strings.EqualFold(strings.TrimSpace(rc.Scheme), "rediss") {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}
