package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginLimiter counts failed logins per handle in Redis.
// Key format: login:fail:<handle>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter wraps the given Redis client. Non-positive limits fall back
// to 5 attempts per 15 minutes.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether the handle is still below the failure threshold.
func (l *LoginLimiter) Allow(ctx context.Context, handle string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(handle)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("login limiter check: %w", err)
	}
	return n < l.maxAttempts, nil
}

// RecordFailure increments the failure counter. The window starts with the
// first failure and is not extended by later ones.
func (l *LoginLimiter) RecordFailure(ctx context.Context, handle string) error {
	key := l.key(handle)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login limiter record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, handle string) error {
	return l.client.Del(ctx, l.key(handle)).Err()
}

func (l *LoginLimiter) key(handle string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(handle))
}
