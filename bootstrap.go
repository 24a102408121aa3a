package goSession

import (
	"context"
	"time"
)

// EnsureSession resolves the session once per store lifetime.
//
// When the store is already initialized it returns immediately without a
// network call. Otherwise it starts the profile probe, or joins the one
// already in flight on the store, possibly started by another engine, and
// waits for it to settle. Probe failures leave the session anonymous and are
// never returned. The probe runs detached from ctx, so the only error is
// ctx.Err() when the caller stops waiting first.
func (e *Engine) EnsureSession(ctx context.Context) error {
	if e == nil || e.store == nil || e.gateway == nil {
		return ErrEngineNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if e.store.Initialized() {
		return nil
	}

	probeCtx := context.WithoutCancel(ctx)
	ch := e.store.joinBootstrap(func() { e.probe(probeCtx) })

	select {
	case res := <-ch:
		if res.Shared {
			e.metricInc(MetricBootstrapShared)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// probe runs inside the single flight.
func (e *Engine) probe(ctx context.Context) {
	if e.store.Initialized() {
		return
	}

	e.metricInc(MetricBootstrapStarted)
	start := time.Now()
	identity, err := e.gateway.Profile(ctx)
	e.observeLatency(MetricBootstrapLatency, start)
	if err != nil {
		e.logf("session probe failed, continuing anonymous: %v", err)
		identity = nil
	}

	if !e.store.settleBootstrap(identity) {
		e.metricInc(MetricBootstrapDiscarded)
		return
	}

	if identity != nil {
		e.metricInc(MetricBootstrapAuthenticated)
	} else {
		e.metricInc(MetricBootstrapAnonymous)
	}

	e.emitAudit(ctx, AuditSessionBootstrap, identity != nil, usernameOf(identity), "", err, nil)
}
