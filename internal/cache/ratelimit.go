// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateKeyPrefix is the Valkey key prefix for rate limit counters.
const rateKeyPrefix = "ratelimit:"

// WindowLimiter counts requests per key in fixed windows stored in Valkey,
// so every server instance shares the same budget.
type WindowLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewWindowLimiter allows limit requests per key in each window.
func NewWindowLimiter(client *redis.Client, limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{client: client, limit: limit, window: window, now: time.Now}
}

// Allow increments the counter of the current window and reports whether
// it is still within the limit. The counter expires with its window.
func (l *WindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.windowKey(key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return incr.Val() <= int64(l.limit), nil
}

// Window returns the window length.
func (l *WindowLimiter) Window() time.Duration {
	return l.window
}

func (l *WindowLimiter) windowKey(key string) string {
	slot := l.now().UnixNano() / int64(l.window)
	return rateKeyPrefix + key + ":" + strconv.FormatInt(slot, 10)
}
