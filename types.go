package goSession

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MrEthical07/goSession/route"
)

// Identity is the authenticated-user record returned by the backend.
//
// The engine only tests its presence. Username, ExpiresAt and Attributes are
// carried for display and are never used for access decisions.
type Identity struct {
	Username   string
	ExpiresAt  *time.Time
	Attributes json.RawMessage
}

// Credentials are submitted to [Gateway.Login].
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// State is a point-in-time view of the session.
//
// Error is empty when no login error is pending.
type State struct {
	Identity    *Identity
	Initialized bool
	Loading     bool
	Error       string
}

// Authenticated reports whether an identity is present.
func (s State) Authenticated() bool {
	return s.Identity != nil
}

// Gateway performs the remote identity calls. Implementations own transport
// concerns (base URL, credentials, timeouts). The gateway package provides
// the HTTP implementation.
type Gateway interface {
	Profile(ctx context.Context) (*Identity, error)
	Login(ctx context.Context, creds Credentials) (*Identity, error)
	Logout(ctx context.Context) error
}

// DecisionKind enumerates guard outcomes.
type DecisionKind uint8

const (
	// DecisionAllow lets the navigation commit.
	DecisionAllow DecisionKind = iota
	// DecisionRedirect replaces the target with Decision.Target.
	DecisionRedirect
	// DecisionAbort cancels the navigation; the current location is kept.
	DecisionAbort
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionAllow:
		return "allow"
	case DecisionRedirect:
		return "redirect"
	case DecisionAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Decision is the guard's verdict for one navigation attempt.
type Decision struct {
	Kind   DecisionKind
	Target string
	Reason string
}

// NavigationPhase is the guard state of one attempt.
type NavigationPhase uint8

const (
	// PhaseUnresolved means the guard has not looked at the session yet.
	PhaseUnresolved NavigationPhase = iota
	// PhaseResolving means the guard is waiting for the session bootstrap.
	PhaseResolving
	// PhaseDecided means a Decision is available.
	PhaseDecided
)

func (p NavigationPhase) String() string {
	switch p {
	case PhaseUnresolved:
		return "unresolved"
	case PhaseResolving:
		return "resolving"
	case PhaseDecided:
		return "decided"
	default:
		return "unknown"
	}
}

// Attempt records one guarded hop of a navigation.
type Attempt struct {
	ID       string
	To       route.Location
	From     route.Location
	Phase    NavigationPhase
	Decision Decision
}

// Navigation is the result of [Navigator.Navigate].
type Navigation struct {
	Final    route.Location
	Attempts []Attempt
}

// Redirected reports whether the final location differs from the requested one.
func (n Navigation) Redirected() bool {
	return len(n.Attempts) > 1
}
