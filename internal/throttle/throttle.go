package throttle

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "writers:throttle:"

// Limiter allows one action per key within a window.
type Limiter interface {
	// Allow reports whether the action may proceed and, if not, how long
	// until it may.
	Allow(ctx context.Context, scope string, id int64) (bool, time.Duration, error)
}

// RedisLimiter keeps the window as a SETNX key with a TTL.
type RedisLimiter struct {
	rdb    *redis.Client
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{rdb: rdb, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, scope string, id int64) (bool, time.Duration, error) {
	key := keyPrefix + scope + ":" + strconv.FormatInt(id, 10)
	ok, err := l.rdb.SetNX(ctx, key, "1", l.window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("throttle setnx: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	ttl, err := l.rdb.PTTL(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("throttle pttl: %w", err)
	}
	if ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

// Nop never throttles.
type Nop struct{}

func (Nop) Allow(context.Context, string, int64) (bool, time.Duration, error) {
	return true, 0, nil
}
