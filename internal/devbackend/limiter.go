package devbackend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// loginLimiter throttles failed logins per username and per client IP with
// fixed-window Redis counters.
type loginLimiter struct {
	redis       redis.UniversalClient
	prefix      string
	maxAttempts int
	cooldown    time.Duration
}

func newLoginLimiter(rdb redis.UniversalClient, cfg Config) *loginLimiter {
	return &loginLimiter{
		redis:       rdb,
		prefix:      cfg.RedisPrefix,
		maxAttempts: cfg.MaxLoginAttempts,
		cooldown:    cfg.LoginCooldown,
	}
}

func (l *loginLimiter) userKey(username string) string { return l.prefix + ":login:u:" + username }
func (l *loginLimiter) ipKey(ip string) string         { return l.prefix + ":login:ip:" + ip }

func (l *loginLimiter) keys(username, ip string) []string {
	keys := []string{l.userKey(username)}
	if ip != "" {
		keys = append(keys, l.ipKey(ip))
	}
	return keys
}

// Check returns ErrRateLimited when either window is exhausted.
func (l *loginLimiter) Check(ctx context.Context, username, ip string) error {
	for _, key := range l.keys(username, ip) {
		count, err := l.redis.Get(ctx, key).Int64()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if count >= int64(l.maxAttempts) {
			return ErrRateLimited
		}
	}
	return nil
}

// Fail records one failed attempt.
func (l *loginLimiter) Fail(ctx context.Context, username, ip string) error {
	for _, key := range l.keys(username, ip) {
		if _, err := l.incrementWithTTL(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears the username window after a successful login. The IP window
// keeps counting until it expires.
func (l *loginLimiter) Reset(ctx context.Context, username string) error {
	if err := l.redis.Del(ctx, l.userKey(username)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Attempts returns the failed-attempt count for username.
func (l *loginLimiter) Attempts(ctx context.Context, username string) (int, error) {
	count, err := l.redis.Get(ctx, l.userKey(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return int(count), nil
}

func (l *loginLimiter) incrementWithTTL(ctx context.Context, key string) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// The window starts at the first failure.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.cooldown).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return count, nil
}
