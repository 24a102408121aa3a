package goSession

import (
	"context"
	"log"
	"time"

	"github.com/MrEthical07/goSession/route"
)

// Engine defines a public type used by goSession APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config    Config
	gateway   Gateway
	routes    *route.Table
	store     *Store
	guard     *Guard
	navigator *Navigator
	audit     *auditDispatcher
	metrics   *Metrics
	logger    *log.Logger
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// State returns the current session state.
func (e *Engine) State() State {
	if e == nil || e.store == nil {
		return State{}
	}
	return e.store.State()
}

// Store returns the shared session store.
func (e *Engine) Store() *Store {
	if e == nil {
		return nil
	}
	return e.store
}

// ClearError removes a pending login error.
func (e *Engine) ClearError() {
	if e == nil || e.store == nil {
		return
	}
	e.store.ClearError()
}

// Guard returns the pre-navigation hook bound to this engine.
func (e *Engine) Guard() *Guard {
	if e == nil {
		return nil
	}
	return e.guard
}

// Navigator returns the engine's router.
func (e *Engine) Navigator() *Navigator {
	if e == nil {
		return nil
	}
	return e.navigator
}

// Navigate is shorthand for e.Navigator().Navigate.
func (e *Engine) Navigate(ctx context.Context, fullPath string) (Navigation, error) {
	if e == nil || e.navigator == nil {
		return Navigation{}, ErrEngineNotReady
	}
	return e.navigator.Navigate(ctx, fullPath)
}

// Routes returns the route table.
func (e *Engine) Routes() *route.Table {
	if e == nil {
		return nil
	}
	return e.routes
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return cloneConfig(e.config)
}

// AuditDropped returns how many audit events were discarded.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot copies the engine's counters and histograms.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) observeLatency(id MetricID, start time.Time) {
	if e == nil || !e.metrics.LatencyEnabled() {
		return
	}
	e.metrics.Observe(id, time.Since(start))
}

func (e *Engine) logf(format string, args ...any) {
	if e == nil || e.logger == nil {
		return
	}
	e.logger.Printf("goSession: "+format, args...)
}
