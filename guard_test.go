package goSession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/route"
)

func resolve(t *testing.T, e *Engine, path string) route.Location {
	t.Helper()
	loc, err := e.Routes().Resolve(path)
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", path, err)
	}
	return loc
}

func TestGuardWaitsForBootstrapThenAllows(t *testing.T) {
	gw := newFakeGateway()
	gw.profile = &Identity{Username: "alice"}
	engine := buildTestEngine(t, gw)

	nav, err := engine.Navigate(context.Background(), "/dashboard")
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if nav.Final.Name != route.NameDashboard {
		t.Fatalf("expected dashboard, got %q", nav.Final.Name)
	}
	if nav.Redirected() {
		t.Fatalf("expected no redirect, got %d attempts", len(nav.Attempts))
	}
	a := nav.Attempts[0]
	if a.Phase != PhaseDecided || a.Decision.Kind != DecisionAllow {
		t.Fatalf("unexpected attempt: %+v", a)
	}
	if id := engine.State().Identity; id == nil || id.Username != "alice" {
		t.Fatalf("expected alice, got %+v", id)
	}
	if gw.profileCalls.Load() != 1 {
		t.Fatalf("expected one profile call, got %d", gw.profileCalls.Load())
	}
}

func TestGuardAnonymousRedirectsToLoginWithRedirectBack(t *testing.T) {
	gw := newFakeGateway()
	gw.profileErr = &GatewayError{Status: 401, Message: "unauthorized", Err: ErrUnauthorized}
	engine := buildTestEngine(t, gw)

	nav, err := engine.Navigate(context.Background(), "/dashboard")
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	first := nav.Attempts[0].Decision
	if first.Kind != DecisionRedirect || first.Target != "/login?redirect=%2Fdashboard" {
		t.Fatalf("unexpected decision: %+v", first)
	}
	if nav.Final.Name != route.NameLogin || nav.Final.FullPath != "/login?redirect=%2Fdashboard" {
		t.Fatalf("unexpected final location: %+v", nav.Final)
	}
	if engine.State().Identity != nil {
		t.Fatalf("expected anonymous")
	}
}

func TestGuardAuthenticatedLoginGoesToLanding(t *testing.T) {
	gw := newFakeGateway()
	engine := buildTestEngine(t, gw, withStore(authenticatedStore()))

	nav, err := engine.Navigate(context.Background(), "/login")
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if d := nav.Attempts[0].Decision; d.Kind != DecisionRedirect || d.Target != "/dashboard" {
		t.Fatalf("unexpected decision: %+v", d)
	}
	if nav.Final.Name != route.NameDashboard {
		t.Fatalf("expected dashboard, got %+v", nav.Final)
	}
	if gw.profileCalls.Load() != 0 {
		t.Fatalf("expected no profile call, got %d", gw.profileCalls.Load())
	}
}

func TestGuardAuthenticatedLoginHonorsRedirectQuery(t *testing.T) {
	gw := newFakeGateway()
	engine := buildTestEngine(t, gw, withStore(authenticatedStore()))

	nav, err := engine.Navigate(context.Background(), "/login?redirect=/templates")
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if d := nav.Attempts[0].Decision; d.Kind != DecisionRedirect || d.Target != "/templates" {
		t.Fatalf("unexpected decision: %+v", d)
	}
	if nav.Final.Name != route.NameTemplates {
		t.Fatalf("expected templates, got %+v", nav.Final)
	}
}

func TestGuardRejectsOffsiteRedirectTargets(t *testing.T) {
	engine := buildTestEngine(t, newFakeGateway(), withStore(authenticatedStore()))

	for _, target := range []string{"https://evil.example/", "//evil.example/x", "/\\evil.example", "dashboard"} {
		to := resolve(t, engine, "/login")
		to.Query.Set("redirect", target)

		d, err := engine.Guard().BeforeEach(context.Background(), to, route.Location{})
		if err != nil {
			t.Fatalf("BeforeEach failed: %v", err)
		}
		if d.Target != "/dashboard" {
			t.Fatalf("target %q: expected landing fallback, got %q", target, d.Target)
		}
	}
}

func TestGuardAnonymousMayOpenLogin(t *testing.T) {
	gw := newFakeGateway()
	engine := buildTestEngine(t, gw)

	d, err := engine.Guard().BeforeEach(context.Background(), resolve(t, engine, "/login"), route.Location{})
	if err != nil {
		t.Fatalf("BeforeEach failed: %v", err)
	}
	if d.Kind != DecisionAllow {
		t.Fatalf("expected allow, got %+v", d)
	}
	if !engine.State().Initialized {
		t.Fatalf("guard must bootstrap before deciding")
	}
}

func TestGuardDescriptorWithoutAuthFlagIsProtected(t *testing.T) {
	engine := buildTestEngine(t, newFakeGateway())

	to := route.Location{Name: route.NameDashboard, Path: "/dashboard", FullPath: "/dashboard"}
	d, err := engine.Guard().BeforeEach(context.Background(), to, route.Location{})
	if err != nil {
		t.Fatalf("BeforeEach failed: %v", err)
	}
	if d.Kind != DecisionRedirect || d.Target != "/login?redirect=%2Fdashboard" {
		t.Fatalf("expected redirect to login, got %+v", d)
	}
	if engine.State().Identity != nil {
		t.Fatalf("expected anonymous session")
	}

	public := route.Location{Name: "about", Path: "/about", FullPath: "/about", RequiresAuth: route.Public()}
	d, err = engine.Guard().BeforeEach(context.Background(), public, route.Location{})
	if err != nil {
		t.Fatalf("BeforeEach failed: %v", err)
	}
	if d.Kind != DecisionAllow {
		t.Fatalf("expected explicit public descriptor to be allowed, got %+v", d)
	}
}

func TestGuardAuthenticatedProtectedRouteAllowed(t *testing.T) {
	engine := buildTestEngine(t, newFakeGateway(), withStore(authenticatedStore()))

	to := resolve(t, engine, "/nodes/n1/network")
	d, err := engine.Guard().BeforeEach(context.Background(), to, resolve(t, engine, "/nodes"))
	if err != nil {
		t.Fatalf("BeforeEach failed: %v", err)
	}
	if d.Kind != DecisionAllow {
		t.Fatalf("expected allow, got %+v", d)
	}
}

func TestGuardAbortsWhenCallerGivesUpDuringBootstrap(t *testing.T) {
	gw := newFakeGateway()
	gw.profile = &Identity{Username: "alice"}
	gw.blockProfile()
	engine := buildTestEngine(t, gw)
	defer close(gw.release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	d, err := engine.Guard().BeforeEach(ctx, resolve(t, engine, "/dashboard"), route.Location{})
	if d.Kind != DecisionAbort {
		t.Fatalf("expected abort, got %+v", d)
	}
	if !errors.Is(err, ErrNavigationAborted) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected ErrNavigationAborted wrapping deadline, got %v", err)
	}
	if got := engine.MetricsSnapshot().Counters[MetricGuardAbort]; got != 1 {
		t.Fatalf("expected MetricGuardAbort=1 got %d", got)
	}
}

func TestGuardNilReceiver(t *testing.T) {
	var g *Guard
	d, err := g.BeforeEach(context.Background(), route.Location{}, route.Location{})
	if d.Kind != DecisionAbort || !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected abort with ErrEngineNotReady, got %+v %v", d, err)
	}
}
