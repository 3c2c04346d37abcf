// Package throttle limits repeated failed logins per email address.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AchilleasB/campus-hub/campus-service/internal/config"
	"github.com/AchilleasB/campus-hub/campus-service/internal/core/ports"
)

const keyPrefix = "login:failures:"

// RedisClient is the subset of redis commands the throttle uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisThrottle counts failures in a key that expires lockout after the first
// failure of a window. When redis is unreachable Allow still admits the
// attempt and reports the error alongside.
type RedisThrottle struct {
	client      RedisClient
	maxFailures int
	lockout     time.Duration
	cb          *gobreaker.CircuitBreaker
}

var _ ports.LoginThrottle = (*RedisThrottle)(nil)

func NewRedisThrottle(client RedisClient, maxFailures int, lockout time.Duration, log *zap.Logger) *RedisThrottle {
	return &RedisThrottle{
		client:      client,
		maxFailures: maxFailures,
		lockout:     lockout,
		cb: config.NewCircuitBreaker(config.BreakerRedis, func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		}, log),
	}
}

func key(email string) string {
	return keyPrefix + strings.ToLower(email)
}

func (t *RedisThrottle) Allow(ctx context.Context, email string) (bool, error) {
	out, err := t.cb.Execute(func() (interface{}, error) {
		return t.client.Get(ctx, key(email)).Result()
	})
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("read login failures: %w", err)
	}

	failures, err := strconv.Atoi(out.(string))
	if err != nil {
		return true, fmt.Errorf("parse login failures: %w", err)
	}
	return failures < t.maxFailures, nil
}

func (t *RedisThrottle) RecordFailure(ctx context.Context, email string) error {
	_, err := t.cb.Execute(func() (interface{}, error) {
		k := key(email)
		n, err := t.client.Incr(ctx, k).Result()
		if err != nil {
			return nil, err
		}
		// the window starts at the first failure
		if n == 1 {
			if err := t.client.Expire(ctx, k, t.lockout).Err(); err != nil {
				return nil, err
			}
		}
		return n, nil
	})
	if err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	return nil
}

func (t *RedisThrottle) Reset(ctx context.Context, email string) error {
	_, err := t.cb.Execute(func() (interface{}, error) {
		return nil, t.client.Del(ctx, key(email)).Err()
	})
	if err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}
	return nil
}
