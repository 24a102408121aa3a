package goSession

import (
	"errors"
	"strconv"
)

var (
	// ErrGatewayUnavailable is returned by gateways when the backend cannot be reached.
	ErrGatewayUnavailable = errors.New("identity gateway unavailable")
	// ErrUnauthorized is returned by gateways when the backend rejects the caller.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrGatewayStatus is returned by gateways for unexpected non-2xx responses.
	ErrGatewayStatus = errors.New("unexpected gateway status")
	// ErrMalformedResponse is returned by gateways when a response body cannot be interpreted.
	ErrMalformedResponse = errors.New("malformed gateway response")
	// ErrLoginFailed is wrapped by every [LoginError].
	ErrLoginFailed = errors.New("login failed")
	// ErrNavigationAborted is returned when a navigation stops before a decision.
	ErrNavigationAborted = errors.New("navigation aborted")
	// ErrRedirectLoop is returned when a navigation exceeds the redirect budget.
	ErrRedirectLoop = errors.New("navigation redirect loop")
	// ErrRouteNotFound is returned when an allowed navigation targets no known route.
	ErrRouteNotFound = errors.New("route not found")
	// ErrEngineNotReady is returned by methods called on a nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrInvalidConfig is wrapped by [Config.Validate] failures.
	ErrInvalidConfig = errors.New("invalid session config")
)

// GatewayError carries the backend's structured error field.
//
// Message is the server-provided human-readable text and is used verbatim
// when present. Err is one of the gateway sentinels or a transport error.
type GatewayError struct {
	Status  int
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "gateway"
	if e.Status != 0 {
		msg += " status " + strconv.Itoa(e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GatewayError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// LoginError is returned by [Engine.Login]. Message is the text stored in
// State.Error.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return ErrLoginFailed.Error() + ": " + e.Message
}

// Unwrap exposes both ErrLoginFailed and the gateway cause to errors.Is.
func (e *LoginError) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.Err == nil {
		return []error{ErrLoginFailed}
	}
	return []error{ErrLoginFailed, e.Err}
}

func gatewayMessage(err error) string {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) && gwErr != nil {
		return gwErr.Message
	}
	return ""
}
