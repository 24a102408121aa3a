package goSession

import (
	"sync/atomic"
	"time"
)

// MetricID defines a public type used by goSession APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricBootstrapStarted counts profile probes that reached the gateway.
	MetricBootstrapStarted MetricID = iota
	// MetricBootstrapShared counts EnsureSession callers whose probe result was shared with other callers.
	MetricBootstrapShared
	// MetricBootstrapAuthenticated counts probes that resolved to an identity.
	MetricBootstrapAuthenticated
	// MetricBootstrapAnonymous counts probes that resolved to no identity, including failures.
	MetricBootstrapAnonymous
	// MetricBootstrapDiscarded counts probe results dropped because login or logout settled first.
	MetricBootstrapDiscarded
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess
	// MetricLoginFailure counts failed logins.
	MetricLoginFailure
	// MetricLoginFallbackIdentity counts successful logins whose response carried no identity.
	MetricLoginFallbackIdentity
	// MetricLogout counts logouts.
	MetricLogout
	// MetricLogoutTransportFailure counts logouts whose backend call failed.
	MetricLogoutTransportFailure
	// MetricGuardAllow counts allowed navigation attempts.
	MetricGuardAllow
	// MetricGuardRedirectLogin counts anonymous attempts sent to the login route.
	MetricGuardRedirectLogin
	// MetricGuardRedirectAuthenticated counts authenticated login-route attempts sent onwards.
	MetricGuardRedirectAuthenticated
	// MetricGuardAbort counts attempts aborted before a decision.
	MetricGuardAbort
	// MetricNavigationCommitted counts navigations that committed a location.
	MetricNavigationCommitted
	// MetricNavigationRouteNotFound counts allowed navigations to unknown paths.
	MetricNavigationRouteNotFound
	// MetricNavigationRedirectLoop counts navigations that exceeded the redirect budget.
	MetricNavigationRedirectLoop
	// MetricBootstrapLatency is the profile probe latency histogram.
	MetricBootstrapLatency
	// MetricLoginLatency is the login call latency histogram.
	MetricLoginLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by goSession APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot defines a public type used by goSession APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a metrics registry. A disabled registry ignores every call.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether latency histograms are recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency sample. Only histogram IDs accept samples.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if !isHistogram(id) {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns a counter's current value.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and, when enabled, every histogram.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, len(histogramIDs)),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if isHistogram(id) {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		for _, id := range histogramIDs {
			buckets := make([]uint64, histBucketCount)
			for i := 0; i < histBucketCount; i++ {
				buckets[i] = atomic.LoadUint64(&m.histograms[id].buckets[i])
			}
			s.Histograms[id] = buckets
		}
	}

	return s
}

var histogramIDs = []MetricID{MetricBootstrapLatency, MetricLoginLatency}

func isHistogram(id MetricID) bool {
	return id == MetricBootstrapLatency || id == MetricLoginLatency
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
