// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/warden/internal/platform/constants"
	"github.com/taibuivan/warden/internal/platform/ctxutil"
)

// # Login Throttle

// LoginThrottle counts failed credential checks per submitted identifier.
//
// Implementations fail open: a backend error never blocks a login.
type LoginThrottle interface {

	// Locked reports whether identifier has exhausted its failure budget and,
	// if so, how long until the window resets.
	Locked(context context.Context, identifier string) (bool, time.Duration)

	// RecordFailure counts one failed attempt for identifier.
	RecordFailure(context context.Context, identifier string)

	// Reset clears the failure count after a successful login.
	Reset(context context.Context, identifier string)
}

// RedisLoginThrottle implements [LoginThrottle] with an expiring Redis counter.
type RedisLoginThrottle struct {
	client      redis.UniversalClient
	maxFailures int64
	window      time.Duration
}

// NewRedisLoginThrottle creates a throttle allowing maxFailures per window.
func NewRedisLoginThrottle(client redis.UniversalClient, maxFailures int, window time.Duration) *RedisLoginThrottle {
	return &RedisLoginThrottle{
		client:      client,
		maxFailures: int64(maxFailures),
		window:      window,
	}
}

func throttleKey(identifier string) string {
	return constants.RedisPrefixLoginFailures + identifier
}

/*
Locked reads the failure counter of identifier.

Parameters:
  - context: context.Context
  - identifier: string (Normalized login identifier)

Returns:
  - bool: true once the counter reached the budget
  - time.Duration: Remaining lock time, zero when not locked
*/
func (throttle *RedisLoginThrottle) Locked(context context.Context, identifier string) (bool, time.Duration) {
	key := throttleKey(identifier)

	failures, err := throttle.client.Get(context, key).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			warnThrottle(context, "get", err)
		}
		return false, 0
	}
	if failures < throttle.maxFailures {
		return false, 0
	}

	remaining, err := throttle.client.TTL(context, key).Result()
	if err != nil || remaining <= 0 {
		remaining = throttle.window
	}
	return true, remaining
}

/*
RecordFailure increments the counter of identifier.

Description: Every failure restarts the window, so a locked identifier stays
locked while attempts continue.

Parameters:
  - context: context.Context
  - identifier: string
*/
func (throttle *RedisLoginThrottle) RecordFailure(context context.Context, identifier string) {
	key := throttleKey(identifier)

	pipe := throttle.client.TxPipeline()
	pipe.Incr(context, key)
	pipe.Expire(context, key, throttle.window)

	if _, err := pipe.Exec(context); err != nil {
		warnThrottle(context, "incr", err)
	}
}

// Reset deletes the counter of identifier.
func (throttle *RedisLoginThrottle) Reset(context context.Context, identifier string) {
	if err := throttle.client.Del(context, throttleKey(identifier)).Err(); err != nil {
		warnThrottle(context, "del", err)
	}
}

func warnThrottle(context context.Context, op string, err error) {
	ctxutil.GetLogger(context).WarnContext(context, "login_throttle_unavailable",
		slog.String("op", op),
		slog.String("error", fmt.Sprintf("redis_login_throttle_%s_failed: %v", op, err)),
	)
}

// # Disabled Throttle

// NoopLoginThrottle never locks. It is wired when REDIS_URL is empty.
type NoopLoginThrottle struct{}

func (NoopLoginThrottle) Locked(context.Context, string) (bool, time.Duration) { return false, 0 }
func (NoopLoginThrottle) RecordFailure(context.Context, string)                {}
func (NoopLoginThrottle) Reset(context.Context, string)                        {}
