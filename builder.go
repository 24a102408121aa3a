package goSession

import (
	"errors"
	"fmt"
	"log"

	"github.com/MrEthical07/goSession/route"
)

// Builder defines a public type used by goSession APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	gateway   Gateway
	routes    *route.Table
	store     *Store
	auditSink AuditSink
	logger    *log.Logger

	built bool
}

// New returns a builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithGateway sets the identity backend. It is required.
func (b *Builder) WithGateway(gw Gateway) *Builder {
	b.gateway = gw
	return b
}

// WithRoutes sets the route table. [route.DefaultTable] is used when unset.
func (b *Builder) WithRoutes(t *route.Table) *Builder {
	b.routes = t
	return b
}

// WithStore injects an existing store so several engines, or tests, can
// share one session state. A fresh store is created when unset.
func (b *Builder) WithStore(s *Store) *Builder {
	b.store = s
	return b
}

// WithAuditSink sets where audit events go when Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the logger used for swallowed failures. log.Default() is
// used when unset.
func (b *Builder) WithLogger(l *log.Logger) *Builder {
	b.logger = l
	return b
}

// WithMetricsEnabled toggles counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles latency histograms.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready engine. A builder can
// be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.gateway == nil {
		return nil, errors.New("identity gateway required")
	}

	routes := b.routes
	if routes == nil {
		routes = route.DefaultTable()
	}

	// -------- ROUTES --------
	login, ok := routes.ByName(cfg.Routes.LoginName)
	if !ok {
		return nil, fmt.Errorf("%w: login route %q is not in the route table", ErrInvalidConfig, cfg.Routes.LoginName)
	}
	if login.Protected() {
		return nil, fmt.Errorf("%w: login route %q must not require auth", ErrInvalidConfig, cfg.Routes.LoginName)
	}
	landing, err := routes.Resolve(cfg.Routes.DefaultLanding)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !landing.Matched {
		return nil, fmt.Errorf("%w: default landing %q matches no route", ErrInvalidConfig, cfg.Routes.DefaultLanding)
	}

	store := b.store
	if store == nil {
		store = NewStore()
	}

	logger := b.logger
	if logger == nil {
		logger = log.Default()
	}

	engine := &Engine{
		config:  cfg,
		gateway: b.gateway,
		routes:  routes,
		store:   store,
		logger:  logger,
	}
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)
	engine.guard = &Guard{engine: engine}
	engine.navigator = &Navigator{engine: engine}

	b.built = true

	return engine, nil
}
