package devbackend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionRegistry records issued session IDs so logout can revoke a token
// before it expires.
type sessionRegistry struct {
	redis  redis.UniversalClient
	prefix string
}

func newSessionRegistry(rdb redis.UniversalClient, prefix string) *sessionRegistry {
	return &sessionRegistry{redis: rdb, prefix: prefix}
}

func (r *sessionRegistry) key(id string) string {
	return r.prefix + ":sess:" + id
}

// Register stores the session until expiresAt.
func (r *sessionRegistry) Register(ctx context.Context, id, username string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("%w: session already expired", ErrInvalidToken)
	}
	if err := r.redis.Set(ctx, r.key(id), username, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Lookup returns the username of an active session.
func (r *sessionRegistry) Lookup(ctx context.Context, id string) (string, error) {
	username, err := r.redis.Get(ctx, r.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: session revoked or unknown", ErrInvalidToken)
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return username, nil
}

// Revoke deletes the session. Unknown IDs are not an error.
func (r *sessionRegistry) Revoke(ctx context.Context, id string) error {
	if err := r.redis.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
