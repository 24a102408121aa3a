package goSession

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrEthical07/goSession/route"
	"github.com/google/uuid"
)

// Navigator is the console router. It resolves paths against the route table,
// runs every hop through the guard, follows redirects and commits the final
// location.
type Navigator struct {
	engine *Engine

	mu      sync.Mutex
	current route.Location
}

// Current returns the last committed location. It is zero before the first
// successful navigation.
func (n *Navigator) Current() route.Location {
	if n == nil {
		return route.Location{}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate moves to fullPath.
//
// Static route redirects and guard redirects are followed up to
// Config.Routes.MaxRedirects hops. An aborted or failed navigation keeps the
// current location. Every hop, including the failing one, is listed in the
// returned Navigation.
func (n *Navigator) Navigate(ctx context.Context, fullPath string) (Navigation, error) {
	if n == nil || n.engine == nil {
		return Navigation{}, ErrEngineNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	e := n.engine
	from := n.Current()
	maxRedirects := e.config.Routes.MaxRedirects

	var nav Navigation
	path := fullPath
	for hop := 0; ; hop++ {
		if hop > maxRedirects {
			e.metricInc(MetricNavigationRedirectLoop)
			return nav, fmt.Errorf("%w: %q after %d redirects", ErrRedirectLoop, fullPath, maxRedirects)
		}
		if err := ctx.Err(); err != nil {
			e.metricInc(MetricGuardAbort)
			return nav, fmt.Errorf("%w: %w", ErrNavigationAborted, err)
		}

		to, err := e.routes.Resolve(path)
		if err != nil {
			return nav, err
		}

		a := Attempt{ID: uuid.NewString(), To: to, From: from}

		if to.Redirect != "" {
			a.Phase = PhaseDecided
			a.Decision = Decision{Kind: DecisionRedirect, Target: to.Redirect, Reason: "route redirect"}
			nav.Attempts = append(nav.Attempts, a)
			path = to.Redirect
			continue
		}

		d, err := e.guard.decide(ctx, &a)
		nav.Attempts = append(nav.Attempts, a)
		if err != nil {
			return nav, err
		}

		switch d.Kind {
		case DecisionRedirect:
			path = d.Target
			continue
		case DecisionAbort:
			return nav, ErrNavigationAborted
		}

		if !to.Matched {
			e.metricInc(MetricNavigationRouteNotFound)
			return nav, fmt.Errorf("%w: %s", ErrRouteNotFound, to.Path)
		}

		n.mu.Lock()
		n.current = to
		n.mu.Unlock()

		nav.Final = to
		e.metricInc(MetricNavigationCommitted)
		return nav, nil
	}
}
