package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"fashion-etl/config"
)

func TestNewRedis_DisabledWithoutHost(t *testing.T) {
	client := NewRedis(fxtest.NewLifecycle(t), &config.Config{}, zap.NewNop().Sugar())
	require.Nil(t, client)
}

func TestOptions(t *testing.T) {
	opts := Options(config.RedisConfig{Host: "cache.local", Port: 6380, User: " etl ", Password: "pw", Scheme: "rediss"})
	require.Equal(t, "cache.local:6380", opts.Addr)
	require.Equal(t, "etl", opts.Username)
	require.Equal(t, "pw", opts.Password)
	require.NotNil(t, opts.TLSConfig)

	plain := Options(config.RedisConfig{Host: "cache.local", Port: 6379, Scheme: "redis"})
	require.Nil(t, plain.TLSConfig)
}
