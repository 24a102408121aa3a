package gateway_test

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"testing"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/gateway"
	"github.com/MrEthical07/goSession/internal/devbackend"
	"github.com/MrEthical07/goSession/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBackend(t *testing.T) string {
	t.Helper()

	cfg := devbackend.DefaultConfig()
	cfg.AdminPassword = "correct-password"
	mem, err := devbackend.NewMemory(cfg)
	require.NoError(t, err)
	mem.SetLogger(log.New(io.Discard, "", 0))

	srv := httptest.NewServer(mem.Handler())
	t.Cleanup(func() {
		srv.Close()
		mem.Close()
	})
	return srv.URL + "/api"
}

func newEngine(t *testing.T, baseURL string) *goSession.Engine {
	t.Helper()

	gw, err := gateway.NewHTTP(gateway.Config{BaseURL: baseURL})
	require.NoError(t, err)

	engine, err := goSession.New().
		WithGateway(gw).
		WithLogger(log.New(io.Discard, "", 0)).
		Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)
	return engine
}

func TestConsoleSessionAgainstDevBackend(t *testing.T) {
	base := startBackend(t)
	engine := newEngine(t, base)
	ctx := context.Background()

	nav, err := engine.Navigate(ctx, "/nodes/n1/network")
	require.NoError(t, err)
	assert.Equal(t, route.NameLogin, nav.Final.Name)
	assert.Equal(t, "/login?redirect=%2Fnodes%2Fn1%2Fnetwork", nav.Final.FullPath)
	assert.True(t, engine.State().Initialized)

	err = engine.Login(ctx, "admin", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, goSession.ErrUnauthorized))
	assert.Equal(t, "invalid credentials", engine.State().Error)

	require.NoError(t, engine.Login(ctx, "admin", "correct-password"))
	st := engine.State()
	require.NotNil(t, st.Identity)
	assert.Equal(t, "admin", st.Identity.Username)
	assert.NotNil(t, st.Identity.ExpiresAt)
	assert.Empty(t, st.Error)

	nav, err = engine.Navigate(ctx, nav.Final.FullPath)
	require.NoError(t, err)
	assert.Equal(t, route.NameNodeNetwork, nav.Final.Name)
	assert.Equal(t, "n1", nav.Final.Params["id"])

	engine.Logout(ctx)
	assert.Nil(t, engine.State().Identity)

	nav, err = engine.Navigate(ctx, "/templates")
	require.NoError(t, err)
	assert.Equal(t, route.NameLogin, nav.Final.Name)
}

func TestSessionCookieRestoresIdentityOnBootstrap(t *testing.T) {
	base := startBackend(t)

	gw, err := gateway.NewHTTP(gateway.Config{BaseURL: base})
	require.NoError(t, err)
	_, err = gw.Login(context.Background(), goSession.Credentials{Username: "admin", Password: "correct-password"})
	require.NoError(t, err)

	engine, err := goSession.New().
		WithGateway(gw).
		WithLogger(log.New(io.Discard, "", 0)).
		Build()
	require.NoError(t, err)
	defer engine.Close()

	nav, err := engine.Navigate(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, route.NameDashboard, nav.Final.Name)
	require.NotNil(t, engine.State().Identity)
	assert.Equal(t, "admin", engine.State().Identity.Username)
}

func TestUnreachableBackendLeavesSessionAnonymous(t *testing.T) {
	engine := newEngine(t, "http://127.0.0.1:1/api")

	require.NoError(t, engine.EnsureSession(context.Background()))
	st := engine.State()
	assert.True(t, st.Initialized)
	assert.Nil(t, st.Identity)

	err := engine.Login(context.Background(), "admin", "x")
	assert.True(t, errors.Is(err, goSession.ErrGatewayUnavailable))
	assert.Equal(t, goSession.DefaultConfig().Messages.LoginFailed, engine.State().Error)
}
