// Package otel provides OpenTelemetry integration for arion table metrics.
//
// This package implements the arion.MetricsCollector interface using OpenTelemetry,
// enabling enterprise-grade observability with automatic percentile calculation (p50, p95, p99)
// and multi-backend support (Prometheus, Jaeger, DataDog, Grafana).
//
// # Features
//
//   - Automatic percentile calculation via OTEL Histograms (p50, p95, p99, p99.9)
//   - Insert/remove/read outcome counters
//   - Reclamation monitoring
//   - Thread-safe, lock-free implementation
//   - Compatible with any OTEL backend (Prometheus, Jaeger, DataDog, etc.)
//   - Optional: separate module, no impact on core arion performance
//
// # Usage
//
//	import (
//	    "github.com/agilira/arion"
//	    arionotel "github.com/agilira/arion/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	// Setup OTEL with Prometheus exporter
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	// Create collector
//	metricsCollector, _ := arionotel.NewOTelMetricsCollector(provider)
//
//	// Configure the arion table
//	table := arion.New[MyValue](arion.Config{
//	    Capacity:         10000,
//	    MetricsCollector: metricsCollector,
//	})
//
// # Metrics Exposed
//
//   - arion_insert_latency_ns: Histogram of Insert() operation latencies in nanoseconds
//   - arion_remove_latency_ns: Histogram of Remove() operation latencies in nanoseconds
//   - arion_read_latency_ns: Histogram of Read() operation latencies in nanoseconds
//   - arion_reads_total: Counter of Read() calls, split by hit/miss
//   - arion_removes_total: Counter of Remove() calls, split by performed/no-op
//   - arion_capacity_exhausted_total: Counter of Insert() calls rejected for lack of capacity
//   - arion_reclaimed_total: Counter of envelopes freed by Reclaim()
//
// All metrics are automatically aggregated by the OTEL SDK and can be exported to
// any OTEL-compatible backend. Histograms automatically calculate percentiles (p50, p95, p99).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/arion"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements arion.MetricsCollector using OpenTelemetry.
//
// This collector records table operations to OpenTelemetry metrics, enabling
// enterprise-grade observability with automatic percentile calculation and
// multi-backend support.
//
// Thread-safety: Safe for concurrent use by multiple goroutines.
// The underlying OTEL instruments are thread-safe and lock-free.
//
// Performance: Minimal overhead (<100ns per operation), allocation-free after initialization.
type OTelMetricsCollector struct {
	insertLatency     metric.Int64Histogram
	removeLatency     metric.Int64Histogram
	readLatency       metric.Int64Histogram
	reads             metric.Int64Counter
	removes           metric.Int64Counter
	capacityExhausted metric.Int64Counter
	reclaimed         metric.Int64Counter
	reclaimRuns       metric.Int64Counter
}

// Options for configuring OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/arion"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name.
// This is useful for distinguishing metrics from multiple table instances
// or integrating with existing OTEL instrumentation.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
//
// Parameters:
//   - provider: OpenTelemetry MeterProvider. Must not be nil.
//   - opts: Optional configuration options (meter name, etc.)
//
// Returns:
//   - *OTelMetricsCollector: The collector instance
//   - error: ErrNilMeterProvider if provider is nil, or OTEL instrument creation errors
//
// The collector creates the following OTEL instruments:
//   - Int64Histogram for latencies (Insert, Remove, Read)
//   - Int64Counter for reads, removes, capacity-exhausted events, and reclaimed entries
//
// All instruments are thread-safe and lock-free.
//
// Example:
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, err := NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{
		MeterName: "github.com/agilira/arion",
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	collector.insertLatency, err = meter.Int64Histogram(
		"arion_insert_latency_ns",
		metric.WithDescription("Latency of Insert operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.removeLatency, err = meter.Int64Histogram(
		"arion_remove_latency_ns",
		metric.WithDescription("Latency of Remove operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.readLatency, err = meter.Int64Histogram(
		"arion_read_latency_ns",
		metric.WithDescription("Latency of Read operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.reads, err = meter.Int64Counter(
		"arion_reads_total",
		metric.WithDescription("Total number of Read calls, labeled by hit"),
	)
	if err != nil {
		return nil, err
	}

	collector.removes, err = meter.Int64Counter(
		"arion_removes_total",
		metric.WithDescription("Total number of Remove calls, labeled by performed"),
	)
	if err != nil {
		return nil, err
	}

	collector.capacityExhausted, err = meter.Int64Counter(
		"arion_capacity_exhausted_total",
		metric.WithDescription("Total number of Insert calls rejected for lack of capacity"),
	)
	if err != nil {
		return nil, err
	}

	collector.reclaimed, err = meter.Int64Counter(
		"arion_reclaimed_total",
		metric.WithDescription("Total number of envelopes freed by Reclaim"),
	)
	if err != nil {
		return nil, err
	}

	collector.reclaimRuns, err = meter.Int64Counter(
		"arion_reclaim_runs_total",
		metric.WithDescription("Total number of Reclaim invocations"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordInsert records an Insert operation's latency.
//
// Thread-safety: Safe for concurrent use.
// Performance: ~50-100ns overhead, allocation-free.
func (c *OTelMetricsCollector) RecordInsert(latencyNs int64) {
	c.insertLatency.Record(context.Background(), latencyNs)
}

// RecordCapacityExhausted records an Insert call rejected for lack of capacity.
//
// Thread-safety: Safe for concurrent use.
func (c *OTelMetricsCollector) RecordCapacityExhausted() {
	c.capacityExhausted.Add(context.Background(), 1)
}

// RecordRemove records a Remove operation.
//
// performed is true when a live entry was actually released; false when the
// handle was already stale and Remove was a no-op.
//
// Thread-safety: Safe for concurrent use.
func (c *OTelMetricsCollector) RecordRemove(performed bool, latencyNs int64) {
	ctx := context.Background()
	c.removeLatency.Record(ctx, latencyNs)
	c.removes.Add(ctx, 1, metric.WithAttributes(attribute.Bool("performed", performed)))
}

// RecordRead records a Read operation.
//
// hit is true when the handle resolved to a live entry.
//
// Thread-safety: Safe for concurrent use.
func (c *OTelMetricsCollector) RecordRead(hit bool, latencyNs int64) {
	ctx := context.Background()
	c.readLatency.Record(ctx, latencyNs)
	c.reads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}

// RecordReclaim records a Reclaim invocation and the number of envelopes it freed.
//
// Thread-safety: Safe for concurrent use.
func (c *OTelMetricsCollector) RecordReclaim(freed int) {
	ctx := context.Background()
	c.reclaimRuns.Add(ctx, 1)
	if freed > 0 {
		c.reclaimed.Add(ctx, int64(freed))
	}
}

// Compile-time interface check
var _ arion.MetricsCollector = (*OTelMetricsCollector)(nil)
