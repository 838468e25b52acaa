package collector

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PageCache stores fetched page bodies keyed by URL.
type PageCache interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Set(ctx context.Context, url string, body []byte) error
}

const pageKeyPrefix = "fashion-etl:page:"

type RedisPageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPageCache returns nil when client is nil so callers can pass the
// result straight to WithCache.
func NewRedisPageCache(client *redis.Client, ttl time.Duration) PageCache {
	if client == nil {
		return nil
	}
	return &RedisPageCache{client: client, ttl: ttl}
}

func (c *RedisPageCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, pageKeyPrefix+url).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisPageCache) Set(ctx context.Context, url string, body []byte) error {
	return c.client.Set(ctx, pageKeyPrefix+url, body, c.ttl).Err()
}

type cachingFetcher struct {
	next   Fetcher
	cache  PageCache
	logger *zap.SugaredLogger
}

// WithCache serves pages from cache when present. Cache errors never fail a
// fetch; they only cost a network request.
func WithCache(next Fetcher, cache PageCache, logger *zap.SugaredLogger) Fetcher {
	if cache == nil {
		return next
	}
	return &cachingFetcher{next: next, cache: cache, logger: logger}
}

func (f *cachingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, ok, err := f.cache.Get(ctx, url)
	switch {
	case err != nil:
		f.logger.Warnw("page_cache_get_failed", "url", url, "err", err)
	case ok:
		f.logger.Debugw("page_cache_hit", "url", url)
		return body, nil
	}

	body, err = f.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, url, body); err != nil {
		f.logger.Warnw("page_cache_set_failed", "url", url, "err", err)
	}
	return body, nil
}
