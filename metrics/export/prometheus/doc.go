// Package prometheus renders goSession engine metrics in Prometheus text
// exposition format.
//
// [New] wraps a [goSession.Engine] and exposes an [http.Handler]. Related
// counters are grouped into labeled families, for example
// gosession_guard_decisions_total{decision="redirect_login"}. Latency
// histograms are gosession_bootstrap_latency_seconds and
// gosession_login_latency_seconds.
//
// The exporter never registers with a global registry. Callers mount Handler.
package prometheus
