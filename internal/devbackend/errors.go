package devbackend

import "errors"

var (
	// ErrRateLimited is returned when the failed-login budget is spent.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps Redis failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
	// ErrInvalidToken is returned for unparseable, expired or revoked tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrInvalidHash is returned for malformed argon2id digests.
	ErrInvalidHash = errors.New("invalid password hash")
)

// Response messages of the console backend.
const (
	msgInvalidPayload     = "invalid login payload"
	msgInvalidCredentials = "invalid credentials"
	msgIssueFailed        = "failed to issue session"
	msgUnauthorized       = "unauthorized"
	msgTooManyAttempts    = "too many login attempts"
)
