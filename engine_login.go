package goSession

import (
	"context"
	"time"
)

// Login submits credentials and, on success, marks the session
// authenticated and initialized.
//
// On failure the identity is cleared, State.Error holds the server message
// or Config.Messages.LoginFailed, and a *LoginError is returned. Loading is
// true for the duration of the call.
func (e *Engine) Login(ctx context.Context, username, password string) error {
	if e == nil || e.store == nil || e.gateway == nil {
		return ErrEngineNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	e.store.beginLogin()
	defer e.store.SetLoading(false)

	start := time.Now()
	identity, err := e.gateway.Login(ctx, Credentials{Username: username, Password: password})
	e.observeLatency(MetricLoginLatency, start)

	if err != nil {
		message := gatewayMessage(err)
		if message == "" {
			message = e.config.Messages.LoginFailed
		}
		e.store.failLogin(message)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLogin, false, username, "", err, nil)
		return &LoginError{Message: message, Err: err}
	}

	fallback := identity == nil
	if fallback {
		// The backend accepted the credentials without returning a profile.
		identity = &Identity{Username: username}
		e.metricInc(MetricLoginFallbackIdentity)
		e.logf("login response carried no identity, using submitted username")
	}

	e.store.completeLogin(identity)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, AuditLogin, true, identity.Username, "", nil, func() map[string]string {
		if !fallback {
			return nil
		}
		return map[string]string{"identity": "fallback"}
	})

	return nil
}

// Logout ends the session. Backend failures are logged and otherwise ignored;
// the session is anonymous and initialized afterwards in every case.
func (e *Engine) Logout(ctx context.Context) {
	if e == nil || e.store == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	username := usernameOf(e.store.Identity())

	var err error
	if e.gateway != nil {
		err = e.gateway.Logout(ctx)
	}
	if err != nil {
		e.metricInc(MetricLogoutTransportFailure)
		e.logf("logout request failed, clearing local session: %v", err)
	}

	e.store.settleAnonymous()
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, AuditLogout, err == nil, username, "", err, nil)
}
