package devbackend

import (
	"errors"
	"strings"
	"time"
)

// Config defines the dev backend's account, token and throttling settings.
type Config struct {
	AdminUsername string
	// AdminPassword is hashed at startup when AdminPasswordHash is empty.
	AdminPassword string
	// AdminPasswordHash is an argon2id PHC string.
	AdminPasswordHash string

	Secret        []byte
	Issuer        string
	SessionTTL    time.Duration
	CookieName    string
	SecureCookies bool
	// StaticToken authenticates as AdminUsername when presented as a token.
	StaticToken string

	RedisPrefix      string
	MaxLoginAttempts int
	LoginCooldown    time.Duration
}

// DefaultConfig mirrors the console backend defaults: admin/admin, a 24h
// session in the nebula_session cookie.
func DefaultConfig() Config {
	return Config{
		AdminUsername:    "admin",
		AdminPassword:    "admin",
		Secret:           []byte("nebula-session-secret"),
		Issuer:           "nebula-manager",
		SessionTTL:       24 * time.Hour,
		CookieName:       "nebula_session",
		RedisPrefix:      "gosession",
		MaxLoginAttempts: 5,
		LoginCooldown:    15 * time.Minute,
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.AdminUsername) == "" {
		return errors.New("devbackend: AdminUsername must be set")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return errors.New("devbackend: AdminPassword or AdminPasswordHash must be set")
	}
	if len(c.Secret) < 8 {
		return errors.New("devbackend: Secret must be at least 8 bytes")
	}
	if c.SessionTTL <= 0 {
		return errors.New("devbackend: SessionTTL must be > 0")
	}
	if strings.TrimSpace(c.CookieName) == "" {
		return errors.New("devbackend: CookieName must be set")
	}
	if c.MaxLoginAttempts <= 0 {
		return errors.New("devbackend: MaxLoginAttempts must be > 0")
	}
	if c.LoginCooldown <= 0 {
		return errors.New("devbackend: LoginCooldown must be > 0")
	}
	return nil
}
