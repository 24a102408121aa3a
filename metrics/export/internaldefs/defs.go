package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterSample maps one engine counter to a label value of its family.
type CounterSample struct {
	ID         goSession.MetricID
	LabelValue string
}

// CounterFamily is one exported counter name. When LabelKey is empty the
// family has a single unlabeled sample.
type CounterFamily struct {
	Name     string
	Help     string
	LabelKey string
	Samples  []CounterSample
}

// HistogramDef maps an engine histogram to an exported name.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterFamilies lists every exported counter.
var CounterFamilies = []CounterFamily{
	{
		Name:    "gosession_bootstrap_probes_total",
		Help:    "Profile probes sent to the identity backend.",
		Samples: []CounterSample{{ID: goSession.MetricBootstrapStarted}},
	},
	{
		Name:    "gosession_bootstrap_shared_total",
		Help:    "Session bootstrap waits satisfied by a shared probe.",
		Samples: []CounterSample{{ID: goSession.MetricBootstrapShared}},
	},
	{
		Name:     "gosession_bootstrap_outcome_total",
		Help:     "Settled profile probes by outcome.",
		LabelKey: "outcome",
		Samples: []CounterSample{
			{ID: goSession.MetricBootstrapAuthenticated, LabelValue: "authenticated"},
			{ID: goSession.MetricBootstrapAnonymous, LabelValue: "anonymous"},
			{ID: goSession.MetricBootstrapDiscarded, LabelValue: "discarded"},
		},
	},
	{
		Name:     "gosession_login_total",
		Help:     "Explicit login attempts by result.",
		LabelKey: "result",
		Samples: []CounterSample{
			{ID: goSession.MetricLoginSuccess, LabelValue: "success"},
			{ID: goSession.MetricLoginFailure, LabelValue: "failure"},
		},
	},
	{
		Name:    "gosession_login_fallback_identity_total",
		Help:    "Successful logins whose response carried no identity.",
		Samples: []CounterSample{{ID: goSession.MetricLoginFallbackIdentity}},
	},
	{
		Name:    "gosession_logout_total",
		Help:    "Logouts.",
		Samples: []CounterSample{{ID: goSession.MetricLogout}},
	},
	{
		Name:    "gosession_logout_transport_failure_total",
		Help:    "Logouts whose backend request failed.",
		Samples: []CounterSample{{ID: goSession.MetricLogoutTransportFailure}},
	},
	{
		Name:     "gosession_guard_decisions_total",
		Help:     "Navigation guard decisions.",
		LabelKey: "decision",
		Samples: []CounterSample{
			{ID: goSession.MetricGuardAllow, LabelValue: "allow"},
			{ID: goSession.MetricGuardRedirectLogin, LabelValue: "redirect_login"},
			{ID: goSession.MetricGuardRedirectAuthenticated, LabelValue: "redirect_authenticated"},
			{ID: goSession.MetricGuardAbort, LabelValue: "abort"},
		},
	},
	{
		Name:     "gosession_navigation_total",
		Help:     "Finished navigations by result.",
		LabelKey: "result",
		Samples: []CounterSample{
			{ID: goSession.MetricNavigationCommitted, LabelValue: "committed"},
			{ID: goSession.MetricNavigationRouteNotFound, LabelValue: "route_not_found"},
			{ID: goSession.MetricNavigationRedirectLoop, LabelValue: "redirect_loop"},
		},
	},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricBootstrapLatency, Name: "gosession_bootstrap_latency_seconds", Help: "Profile probe latency."},
	{ID: goSession.MetricLoginLatency, Name: "gosession_login_latency_seconds", Help: "Login request latency."},
}

// AuditDroppedName is the counter of audit events lost to backpressure.
const AuditDroppedName = "gosession_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// HistogramBounds are the upper bounds of the engine's eight latency buckets.
var HistogramBounds = [8]string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// NormalizeBuckets copies raw into a fixed eight-bucket array, zero-filling
// missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	copy(out[:], raw)
	return out
}

// CumulativeBuckets converts per-bucket counts into "less or equal" counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i, v := range raw {
		running += v
		out[i] = running
	}
	return out
}
