package goSession

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/MrEthical07/goSession/route"
)

// Guard decides whether a navigation may proceed.
//
// Before the first decision it waits for the session bootstrap. Public routes
// are always allowed, except that an authenticated user asking for the login
// route is sent back to the redirect target or the default landing route.
// Protected routes require an identity; anonymous users are sent to the login
// route with the requested full path as the redirect parameter.
type Guard struct {
	engine *Engine
}

// BeforeEach decides one navigation attempt from `from` to `to`. A `to`
// without RequiresAuth is treated as protected.
//
// The returned error is non-nil only for DecisionAbort, which happens when ctx
// ends while the bootstrap is still running.
func (g *Guard) BeforeEach(ctx context.Context, to, from route.Location) (Decision, error) {
	if g == nil || g.engine == nil {
		return Decision{Kind: DecisionAbort, Reason: "engine not initialized"}, ErrEngineNotReady
	}
	a := Attempt{To: to, From: from}
	return g.decide(ctx, &a)
}

func (g *Guard) decide(ctx context.Context, a *Attempt) (Decision, error) {
	e := g.engine
	if ctx == nil {
		ctx = context.Background()
	}

	a.Phase = PhaseUnresolved
	if !e.store.Initialized() {
		a.Phase = PhaseResolving
		if err := e.EnsureSession(ctx); err != nil {
			a.Phase = PhaseDecided
			a.Decision = Decision{Kind: DecisionAbort, Reason: "session bootstrap interrupted"}
			e.metricInc(MetricGuardAbort)
			e.emitDecision(ctx, a, err)
			return a.Decision, fmt.Errorf("%w: %w", ErrNavigationAborted, err)
		}
	}

	st := e.store.State()
	cfg := e.config.Routes
	to := a.To

	var d Decision
	switch {
	case !to.Protected() && to.Name == cfg.LoginName && st.Authenticated():
		d = Decision{Kind: DecisionRedirect, Target: g.landing(to), Reason: "already authenticated"}
		e.metricInc(MetricGuardRedirectAuthenticated)
	case !to.Protected():
		d = Decision{Kind: DecisionAllow, Reason: "public route"}
		e.metricInc(MetricGuardAllow)
	case !st.Authenticated():
		target, err := e.routes.Href(cfg.LoginName, nil, url.Values{cfg.RedirectParam: {to.FullPath}})
		if err != nil {
			a.Phase = PhaseDecided
			a.Decision = Decision{Kind: DecisionAbort, Reason: "login route unavailable"}
			e.metricInc(MetricGuardAbort)
			e.emitDecision(ctx, a, err)
			return a.Decision, fmt.Errorf("%w: %w", ErrNavigationAborted, err)
		}
		d = Decision{Kind: DecisionRedirect, Target: target, Reason: "authentication required"}
		e.metricInc(MetricGuardRedirectLogin)
	default:
		d = Decision{Kind: DecisionAllow, Reason: "authenticated"}
		e.metricInc(MetricGuardAllow)
	}

	a.Phase = PhaseDecided
	a.Decision = d
	e.emitDecision(ctx, a, nil)
	return d, nil
}

// landing picks where an authenticated user goes instead of the login route.
// Only same-origin paths from the redirect parameter are honored.
func (g *Guard) landing(to route.Location) string {
	cfg := g.engine.config.Routes
	if target := to.Query.Get(cfg.RedirectParam); target != "" && isAppPath(target) {
		return target
	}
	return cfg.DefaultLanding
}

func (e *Engine) emitDecision(ctx context.Context, a *Attempt, err error) {
	if e == nil || e.audit == nil {
		return
	}
	e.emitAudit(ctx, AuditNavigationDecision, a.Decision.Kind != DecisionAbort, usernameOf(e.store.Identity()), a.To.FullPath, err, func() map[string]string {
		md := map[string]string{
			"attempt":       a.ID,
			"decision":      a.Decision.Kind.String(),
			"reason":        a.Decision.Reason,
			"requires_auth": strconv.FormatBool(a.To.Protected()),
		}
		if a.Decision.Target != "" {
			md["target"] = a.Decision.Target
		}
		if a.From.FullPath != "" {
			md["from"] = a.From.FullPath
		}
		return md
	})
}
