package goSession

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/route"
)

type fakeGateway struct {
	profileCalls atomic.Int32
	loginCalls   atomic.Int32
	logoutCalls  atomic.Int32

	profile    *Identity
	profileErr error
	// release, when set, holds Profile until closed.
	release     chan struct{}
	started     chan struct{}
	startedOnce sync.Once

	loginIdentity *Identity
	loginErr      error
	onLogin       func(Credentials)

	logoutErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		started: make(chan struct{}),
	}
}

func (g *fakeGateway) blockProfile() {
	g.release = make(chan struct{})
}

func (g *fakeGateway) Profile(ctx context.Context) (*Identity, error) {
	g.profileCalls.Add(1)
	g.startedOnce.Do(func() { close(g.started) })
	if g.release != nil {
		<-g.release
	}
	return g.profile, g.profileErr
}

func (g *fakeGateway) Login(ctx context.Context, creds Credentials) (*Identity, error) {
	g.loginCalls.Add(1)
	if g.onLogin != nil {
		g.onLogin(creds)
	}
	return g.loginIdentity, g.loginErr
}

func (g *fakeGateway) Logout(ctx context.Context) error {
	g.logoutCalls.Add(1)
	return g.logoutErr
}

func waitStarted(t *testing.T, g *fakeGateway) {
	t.Helper()
	select {
	case <-g.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("profile probe did not start")
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func buildTestEngine(t *testing.T, gw Gateway, opts ...func(*Builder)) *Engine {
	t.Helper()

	b := New().
		WithGateway(gw).
		WithLogger(quietLogger())
	for _, opt := range opts {
		opt(b)
	}

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func withConfig(mutate func(*Config)) func(*Builder) {
	return func(b *Builder) {
		cfg := DefaultConfig()
		mutate(&cfg)
		b.WithConfig(cfg)
	}
}

func withStore(s *Store) func(*Builder) {
	return func(b *Builder) { b.WithStore(s) }
}

func withRoutes(tbl *route.Table) func(*Builder) {
	return func(b *Builder) { b.WithRoutes(tbl) }
}

// authenticatedStore returns an initialized store holding alice.
func authenticatedStore() *Store {
	s := NewStore()
	s.SetIdentity(&Identity{Username: "alice"})
	s.MarkInitialized()
	return s
}
