package cache

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/codeduel/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCacheWithoutAddrIsNop(t *testing.T) {
	c, err := NewCache(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, NopCache{}, c)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "leaderboard:global", []byte("[]"), time.Minute))
	val, ok, err := c.Get(ctx, "leaderboard:global")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.NoError(t, c.DeletePrefix(ctx, "leaderboard:"))
}

func TestNewCacheFailsWhenRedisUnreachable(t *testing.T) {
	_, err := NewCache(&config.Config{Redis: config.Redis{Addr: "127.0.0.1:1"}})
	assert.Error(t, err)
}

func TestRedisCacheWrapsErrors(t *testing.T) {
	c := NewRedisCache(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	}))
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	_, ok, err := c.Get(ctx, "leaderboard:global")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "leaderboard:global")
	assert.ErrorContains(t, c.Set(ctx, "k", []byte("v"), time.Second), "failed to set key k")
	assert.Error(t, c.DeletePrefix(ctx, "leaderboard:"))
}
