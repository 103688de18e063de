// Package cooldown throttles repeated actions per key using redis key expiry.
package cooldown

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "blog:cooldown:"

// Throttle reports whether an action keyed by key may run now. When it may
// not, the remaining wait is returned.
type Throttle interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type Cooldown struct {
	rdb    *redis.Client
	window time.Duration
}

func New(rdb *redis.Client, window time.Duration) *Cooldown {
	if window <= 0 {
		window = time.Minute
	}
	return &Cooldown{rdb: rdb, window: window}
}

func (c *Cooldown) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if c == nil || c.rdb == nil || key == "" {
		return true, 0, nil
	}
	k := keyPrefix + key
	ok, err := c.rdb.SetNX(ctx, k, "1", c.window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("cooldown setnx: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	left, err := c.rdb.PTTL(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("cooldown pttl: %w", err)
	}
	if left < 0 {
		left = c.window
	}
	return false, left, nil
}

// Reset clears the cooldown for key.
func (c *Cooldown) Reset(ctx context.Context, key string) error {
	if c == nil || c.rdb == nil || key == "" {
		return nil
	}
	if err := c.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("cooldown del: %w", err)
	}
	return nil
}
