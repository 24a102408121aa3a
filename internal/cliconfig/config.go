package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/gateway"
	"github.com/MrEthical07/goSession/internal/devbackend"
	"github.com/MrEthical07/goSession/route"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk configuration.
type FileConfig struct {
	API                APIConfig        `yaml:"api"`
	Routes             RoutesConfig     `yaml:"routes"`
	Messages           MessagesConfig   `yaml:"messages"`
	Audit              AuditConfig      `yaml:"audit"`
	Metrics            MetricsConfig    `yaml:"metrics"`
	DevBackendSettings DevBackendConfig `yaml:"dev_backend"`

	// dir is the directory of the loaded file; relative paths resolve
	// against it.
	dir string
}

// APIConfig selects the identity backend.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	Token     string        `yaml:"token"` // #nosec G117 -- config key for an operator supplied token
	UserAgent string        `yaml:"user_agent"`
}

// RoutesConfig names the special routes and an optional route file.
type RoutesConfig struct {
	File           string `yaml:"file"`
	Login          string `yaml:"login"`
	DefaultLanding string `yaml:"default_landing"`
	RedirectParam  string `yaml:"redirect_param"`
	MaxRedirects   int    `yaml:"max_redirects"`
}

// MessagesConfig overrides user-facing fallback texts.
type MessagesConfig struct {
	LoginFailed string `yaml:"login_failed"`
}

// AuditConfig enables audit output. Log is a JSON-lines file path.
type AuditConfig struct {
	Enabled    *bool  `yaml:"enabled"`
	BufferSize int    `yaml:"buffer_size"`
	DropIfFull *bool  `yaml:"drop_if_full"`
	Log        string `yaml:"log"`
}

// MetricsConfig toggles engine metrics.
type MetricsConfig struct {
	Enabled           *bool `yaml:"enabled"`
	LatencyHistograms *bool `yaml:"latency_histograms"`
}

// DevBackendConfig configures `gosession dev-backend`.
type DevBackendConfig struct {
	Listen           string        `yaml:"listen"`
	AdminUsername    string        `yaml:"admin_username"`
	AdminPassword    string        `yaml:"admin_password"` // #nosec G117 -- development credential
	Secret           string        `yaml:"secret"`
	SessionTTL       time.Duration `yaml:"session_ttl"`
	StaticToken      string        `yaml:"static_token"`
	MaxLoginAttempts int           `yaml:"max_login_attempts"`
	LoginCooldown    time.Duration `yaml:"login_cooldown"`
}

// DefaultListen is the dev backend address when none is configured.
const DefaultListen = "127.0.0.1:8080"

// Load reads and parses a configuration file.
func Load(path string) (FileConfig, error) {
	var cfg FileConfig

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304 - config file path comes from the operator
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.dir = filepath.Dir(cleanPath)
	return cfg, nil
}

// Engine overlays the file on [goSession.DefaultConfig] and validates the
// result.
func (f FileConfig) Engine() (goSession.Config, error) {
	cfg := goSession.DefaultConfig()

	setString(&cfg.Routes.LoginName, f.Routes.Login)
	setString(&cfg.Routes.DefaultLanding, f.Routes.DefaultLanding)
	setString(&cfg.Routes.RedirectParam, f.Routes.RedirectParam)
	if f.Routes.MaxRedirects != 0 {
		cfg.Routes.MaxRedirects = f.Routes.MaxRedirects
	}

	setString(&cfg.Messages.LoginFailed, f.Messages.LoginFailed)

	setBool(&cfg.Audit.Enabled, f.Audit.Enabled)
	setBool(&cfg.Audit.DropIfFull, f.Audit.DropIfFull)
	if f.Audit.BufferSize != 0 {
		cfg.Audit.BufferSize = f.Audit.BufferSize
	}
	if f.Audit.Enabled == nil && strings.TrimSpace(f.Audit.Log) != "" {
		cfg.Audit.Enabled = true
	}

	setBool(&cfg.Metrics.Enabled, f.Metrics.Enabled)
	setBool(&cfg.Metrics.EnableLatencyHistograms, f.Metrics.LatencyHistograms)
	if !cfg.Metrics.Enabled {
		cfg.Metrics.EnableLatencyHistograms = false
	}

	if err := cfg.Validate(); err != nil {
		return goSession.Config{}, fmt.Errorf("invalid engine config: %w", err)
	}
	return cfg, nil
}

// Gateway returns the HTTP gateway settings.
func (f FileConfig) Gateway() gateway.Config {
	cfg := gateway.DefaultConfig()
	setString(&cfg.BaseURL, f.API.BaseURL)
	if f.API.Timeout > 0 {
		cfg.Timeout = f.API.Timeout
	}
	cfg.BearerToken = strings.TrimSpace(f.API.Token)
	cfg.UserAgent = strings.TrimSpace(f.API.UserAgent)
	return cfg
}

// RouteTable loads the configured route file, or returns
// [route.DefaultTable] when none is set.
func (f FileConfig) RouteTable() (*route.Table, error) {
	if strings.TrimSpace(f.Routes.File) == "" {
		return route.DefaultTable(), nil
	}
	return route.LoadFile(f.resolve(f.Routes.File))
}

// AuditLogPath returns the audit log path resolved against the config file
// directory, or "".
func (f FileConfig) AuditLogPath() string {
	if strings.TrimSpace(f.Audit.Log) == "" {
		return ""
	}
	return f.resolve(f.Audit.Log)
}

// DevBackend overlays the file on [devbackend.DefaultConfig].
func (f FileConfig) DevBackend() devbackend.Config {
	cfg := devbackend.DefaultConfig()
	d := f.DevBackendSettings
	setString(&cfg.AdminUsername, d.AdminUsername)
	setString(&cfg.AdminPassword, d.AdminPassword)
	if d.Secret != "" {
		cfg.Secret = []byte(d.Secret)
	}
	if d.SessionTTL > 0 {
		cfg.SessionTTL = d.SessionTTL
	}
	cfg.StaticToken = strings.TrimSpace(d.StaticToken)
	if d.MaxLoginAttempts > 0 {
		cfg.MaxLoginAttempts = d.MaxLoginAttempts
	}
	if d.LoginCooldown > 0 {
		cfg.LoginCooldown = d.LoginCooldown
	}
	return cfg
}

// Listen returns the dev backend listen address.
func (f FileConfig) Listen() string {
	if v := strings.TrimSpace(f.DevBackendSettings.Listen); v != "" {
		return v
	}
	return DefaultListen
}

func (f FileConfig) resolve(p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) || f.dir == "" {
		return p
	}
	return filepath.Join(f.dir, p)
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
