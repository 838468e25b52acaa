package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapCache struct {
	pages  map[string][]byte
	getErr error
}

func (c *mapCache) Get(_ context.Context, url string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	b, ok := c.pages[url]
	return b, ok, nil
}

func (c *mapCache) Set(_ context.Context, url string, body []byte) error {
	c.pages[url] = body
	return nil
}

type countingFetcher struct {
	calls int
	err   error
}

func (f *countingFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("body of " + url), nil
}

func TestWithCache_NilCacheReturnsFetcher(t *testing.T) {
	next := &countingFetcher{}
	require.Same(t, next, WithCache(next, nil, zap.NewNop().Sugar()))
	require.Nil(t, NewRedisPageCache(nil, 0))
}

func TestWithCache_MissThenHit(t *testing.T) {
	next := &countingFetcher{}
	cache := &mapCache{pages: map[string][]byte{}}
	f := WithCache(next, cache, zap.NewNop().Sugar())

	for i := 0; i < 2; i++ {
		body, err := f.Fetch(context.Background(), "http://x/index.html")
		require.NoError(t, err)
		require.Equal(t, "body of http://x/index.html", string(body))
	}
	require.Equal(t, 1, next.calls)
}

func TestWithCache_CacheErrorFallsBackToNetwork(t *testing.T) {
	next := &countingFetcher{}
	cache := &mapCache{pages: map[string][]byte{}, getErr: errors.New("redis down")}
	f := WithCache(next, cache, zap.NewNop().Sugar())

	_, err := f.Fetch(context.Background(), "http://x/index.html")
	require.NoError(t, err)
	require.Equal(t, 1, next.calls)
}

func TestWithCache_FetchErrorIsNotCached(t *testing.T) {
	next := &countingFetcher{err: errors.New("boom")}
	cache := &mapCache{pages: map[string][]byte{}}
	f := WithCache(next, cache, zap.NewNop().Sugar())

	_, err := f.Fetch(context.Background(), "http://x/page2.html")
	require.Error(t, err)
	require.Empty(t, cache.pages)
}
