package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leadpoint/site-api/internal/core/domain"
)

const loginFailurePrefix = "login:fail:"

// LoginLimiter counts failed logins per email in a fixed window. Once the
// count reaches maxFailures the account stays locked until the window
// expires or a successful login resets it.
//
// Key format: login:fail:<email>
type LoginLimiter struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

func NewLoginLimiter(client *redis.Client, maxFailures int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, maxFailures: maxFailures, window: window}
}

func (l *LoginLimiter) Allow(ctx context.Context, email string) error {
	n, err := l.client.Get(ctx, l.key(email)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("login limiter get: %w", err)
	}
	if n >= l.maxFailures {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// RecordFailure increments the counter. The key is created with the window
// TTL in the same transaction, so a counter never exists without one and
// later failures do not extend the window.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := l.key(email)
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetArgs(ctx, key, 0, redis.SetArgs{Mode: "NX", TTL: l.window})
		incr = pipe.Incr(ctx, key)
		return nil
	})
	// SET NX replies nil once the key exists.
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("login limiter record: %w", err)
	}
	if err := incr.Err(); err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	return nil
}

func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *LoginLimiter) key(email string) string {
	return loginFailurePrefix + email
}
