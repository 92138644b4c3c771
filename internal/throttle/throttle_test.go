package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLimiter(rdb, window), s
}

func TestRedisLimiter_Window(t *testing.T) {
	l, s := newLimiter(t, time.Minute)
	ctx := context.Background()

	ok, _, err := l.Allow(ctx, "resend", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, wait, err := l.Allow(ctx, "resend", 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, time.Minute)

	ok, _, err = l.Allow(ctx, "resend", 2)
	require.NoError(t, err)
	assert.True(t, ok, "other ids are independent")

	s.FastForward(61 * time.Second)
	ok, _, err = l.Allow(ctx, "resend", 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_RedisDown(t *testing.T) {
	l, s := newLimiter(t, time.Minute)
	s.Close()

	_, _, err := l.Allow(context.Background(), "resend", 1)
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	ok, wait, err := Nop{}.Allow(context.Background(), "resend", 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, wait)
}
