package goSession

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goSession/route"
)

func TestNavigateRootFollowsStaticAndGuardRedirects(t *testing.T) {
	gw := newFakeGateway()
	engine := buildTestEngine(t, gw)

	nav, err := engine.Navigate(context.Background(), "/")
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if len(nav.Attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(nav.Attempts))
	}
	if d := nav.Attempts[0].Decision; d.Kind != DecisionRedirect || d.Target != "/dashboard" {
		t.Fatalf("unexpected static redirect: %+v", d)
	}
	if d := nav.Attempts[1].Decision; d.Target != "/login?redirect=%2Fdashboard" {
		t.Fatalf("unexpected guard redirect: %+v", d)
	}
	if nav.Final.Name != route.NameLogin {
		t.Fatalf("expected login, got %+v", nav.Final)
	}

	seen := map[string]bool{}
	for _, a := range nav.Attempts {
		if a.ID == "" || seen[a.ID] {
			t.Fatalf("attempt IDs must be unique and set: %+v", nav.Attempts)
		}
		seen[a.ID] = true
	}
}

func TestNavigateCommitsCurrentAndUsesItAsFrom(t *testing.T) {
	engine := buildTestEngine(t, newFakeGateway(), withStore(authenticatedStore()))
	nav := engine.Navigator()

	if !nav.Current().IsZero() {
		t.Fatalf("expected zero current before navigation")
	}

	if _, err := nav.Navigate(context.Background(), "/nodes"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	res, err := nav.Navigate(context.Background(), "/nodes/abc/network?tab=peers")
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if res.Attempts[0].From.Name != route.NameNodes {
		t.Fatalf("expected from=nodes, got %+v", res.Attempts[0].From)
	}
	cur := nav.Current()
	if cur.Name != route.NameNodeNetwork || cur.Params["id"] != "abc" || cur.Query.Get("tab") != "peers" {
		t.Fatalf("unexpected current: %+v", cur)
	}
}

func TestNavigateUnknownRoute(t *testing.T) {
	engine := buildTestEngine(t, newFakeGateway(), withStore(authenticatedStore()))

	if _, err := engine.Navigate(context.Background(), "/dashboard"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	_, err := engine.Navigate(context.Background(), "/does-not-exist")
	if !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
	if engine.Navigator().Current().Name != route.NameDashboard {
		t.Fatalf("failed navigation must keep current location")
	}
}

func TestNavigateUnknownRouteAnonymousGoesToLogin(t *testing.T) {
	engine := buildTestEngine(t, newFakeGateway())

	nav, err := engine.Navigate(context.Background(), "/does-not-exist")
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if nav.Final.FullPath != "/login?redirect=%2Fdoes-not-exist" {
		t.Fatalf("unexpected final location: %q", nav.Final.FullPath)
	}
}

func TestNavigateRedirectLoop(t *testing.T) {
	tbl := route.MustNew([]route.Record{
		{Name: route.NameLogin, Path: "/login", RequiresAuth: route.Public()},
		{Name: route.NameDashboard, Path: "/dashboard"},
		{Path: "/a", Redirect: "/b"},
		{Path: "/b", Redirect: "/a"},
	})
	engine := buildTestEngine(t, newFakeGateway(), withRoutes(tbl), withConfig(func(cfg *Config) {
		cfg.Routes.MaxRedirects = 4
	}))

	nav, err := engine.Navigate(context.Background(), "/a")
	if !errors.Is(err, ErrRedirectLoop) {
		t.Fatalf("expected ErrRedirectLoop, got %v", err)
	}
	if len(nav.Attempts) != 5 {
		t.Fatalf("expected 5 attempts, got %d", len(nav.Attempts))
	}
	if !engine.Navigator().Current().IsZero() {
		t.Fatalf("loop must not commit a location")
	}
}

func TestNavigateCanceledContextAborts(t *testing.T) {
	engine := buildTestEngine(t, newFakeGateway(), withStore(authenticatedStore()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Navigate(ctx, "/dashboard")
	if !errors.Is(err, ErrNavigationAborted) {
		t.Fatalf("expected ErrNavigationAborted, got %v", err)
	}
}

func TestNavigateInvalidPath(t *testing.T) {
	engine := buildTestEngine(t, newFakeGateway())

	if _, err := engine.Navigate(context.Background(), "https://evil.example/"); !errors.Is(err, route.ErrInvalidPath) {
		t.Fatalf("expected route.ErrInvalidPath, got %v", err)
	}
}
