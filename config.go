package goSession

import (
	"fmt"
	"strings"
)

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Routes   RouteConfig
	Messages MessageConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
ROUTE CONFIG
====================================
*/

// RouteConfig names the routes the guard treats specially.
//
// LoginName is the public route shown to anonymous users. DefaultLanding is
// where an authenticated user lands when the login route is requested without
// a redirect. RedirectParam is the query key that carries the redirect-back
// target. MaxRedirects bounds how many redirects one navigation may follow.
type RouteConfig struct {
	LoginName      string
	DefaultLanding string
	RedirectParam  string
	MaxRedirects   int
}

/*
====================================
MESSAGE CONFIG
====================================
*/

// MessageConfig holds user-facing fallback texts.
type MessageConfig struct {
	// LoginFailed is shown when a failed login carries no server message.
	LoginFailed string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by goSession APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goSession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

const defaultLoginFailedMessage = "login failed, check your account or network"

// DefaultConfig returns the console defaults: login route "login", landing
// route "/dashboard", redirect query key "redirect".
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Routes: RouteConfig{
			LoginName:      "login",
			DefaultLanding: "/dashboard",
			RedirectParam:  "redirect",
			MaxRedirects:   10,
		},
		Messages: MessageConfig{
			LoginFailed: defaultLoginFailedMessage,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for values the engine cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Routes.LoginName) == "" {
		return fmt.Errorf("%w: Routes LoginName must be set", ErrInvalidConfig)
	}
	if !isAppPath(c.Routes.DefaultLanding) {
		return fmt.Errorf("%w: Routes DefaultLanding must be an in-app path", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Routes.RedirectParam) == "" {
		return fmt.Errorf("%w: Routes RedirectParam must be set", ErrInvalidConfig)
	}
	if c.Routes.MaxRedirects <= 0 {
		return fmt.Errorf("%w: Routes MaxRedirects must be > 0", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Messages.LoginFailed) == "" {
		return fmt.Errorf("%w: Messages LoginFailed must be set", ErrInvalidConfig)
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("%w: Audit BufferSize must be > 0 when audit is enabled", ErrInvalidConfig)
	}
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return fmt.Errorf("%w: Metrics EnableLatencyHistograms requires Metrics Enabled", ErrInvalidConfig)
	}
	return nil
}

// isAppPath reports whether p is a same-origin absolute path. Protocol-relative
// ("//host") and backslash tricks are rejected.
func isAppPath(p string) bool {
	if !strings.HasPrefix(p, "/") {
		return false
	}
	if strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}
	return !strings.ContainsAny(p, "\r\n")
}
