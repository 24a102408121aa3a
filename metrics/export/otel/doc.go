// Package otel binds goSession engine metrics to OpenTelemetry observable
// instruments.
//
// [New] creates one Int64ObservableCounter per counter family, with the
// family label carried as an attribute, and two Int64ObservableGauge
// instruments per latency histogram: cumulative bucket counts keyed by an
// "le" attribute, and a total count. A single callback reads
// [goSession.Engine.MetricsSnapshot] on each collection cycle.
//
// The caller owns the MeterProvider.
package otel
