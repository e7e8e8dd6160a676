// Package otel provides OpenTelemetry integration for arion table metrics.
//
// # Overview
//
// This package implements the arion.MetricsCollector interface using OpenTelemetry,
// enabling enterprise-grade observability with automatic percentile calculation and
// multi-backend support (Prometheus, Jaeger, DataDog, Grafana).
//
// The package is a separate module to keep the arion core lightweight.
// Applications that don't need metrics collection don't pay for the OTEL dependencies.
//
// # Features
//
//   - Automatic Percentiles: OTEL Histograms calculate p50, p95, p99, p99.9 latencies
//   - Multi-Backend Support: Works with Prometheus, Jaeger, DataDog, any OTEL-compatible backend
//   - Outcome Tracking: Read hit/miss and Remove performed/no-op counters
//   - Reclamation Monitoring: Track how much memory Reclaim() is recovering
//   - Thread-Safe: Lock-free, safe for concurrent use
//   - Low Overhead: ~50-100ns per operation (~5% overhead)
//   - Industry Standard: Uses OpenTelemetry (CNCF standard)
//
// # Installation
//
//	go get github.com/agilira/arion/otel
//
// # Quick Start
//
// Basic setup with Prometheus exporter:
//
//	import (
//	    "github.com/agilira/arion"
//	    arionotel "github.com/agilira/arion/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	// Setup Prometheus exporter
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create OTEL MeterProvider
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	// Create metrics collector
//	metricsCollector, err := arionotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Configure the table with metrics
//	table := arion.New[User](arion.Config{
//	    Capacity:         10_000,
//	    MetricsCollector: metricsCollector,
//	})
//
//	// Use the table normally - metrics are automatically collected
//	handle, _ := table.Insert(func(h arion.Handle) User { return User{} })
//	table.Read(handle)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":2112", nil))
//
// # Metrics Exposed
//
// Histograms (with automatic percentiles):
//   - arion_insert_latency_ns: Insert() operation latency in nanoseconds
//   - arion_remove_latency_ns: Remove() operation latency in nanoseconds
//   - arion_read_latency_ns: Read() operation latency in nanoseconds
//
// Counters:
//   - arion_reads_total: Total Read() calls, labeled by hit
//   - arion_removes_total: Total Remove() calls, labeled by performed
//   - arion_capacity_exhausted_total: Total Insert() calls rejected for lack of capacity
//   - arion_reclaimed_total: Total envelopes freed by Reclaim()
//   - arion_reclaim_runs_total: Total Reclaim() invocations
//
// All metrics are thread-safe and use lock-free OTEL instruments.
//
// # Configuration
//
// Custom meter name (useful for multiple table instances):
//
//	collector, err := arionotel.NewOTelMetricsCollector(
//	    provider,
//	    arionotel.WithMeterName("myapp_session_table"),
//	)
//
// Custom histogram buckets for better percentile accuracy:
//
//	provider := metric.NewMeterProvider(
//	    metric.WithReader(exporter),
//	    metric.WithView(metric.NewView(
//	        metric.Instrument{Name: "arion_read_latency_ns"},
//	        metric.Stream{
//	            Aggregation: metric.AggregationExplicitBucketHistogram{
//	                // Buckets in nanoseconds: 100ns, 500ns, 1μs, 5μs, 10μs, 50μs, 100μs
//	                Boundaries: []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
//	            },
//	        },
//	    )),
//	)
//
// # Prometheus Queries
//
// Calculate P95 read latency (last 5 minutes):
//
//	histogram_quantile(0.95, rate(arion_read_latency_ns_bucket[5m]))
//
// Calculate P99 read latency:
//
//	histogram_quantile(0.99, rate(arion_read_latency_ns_bucket[5m]))
//
// Calculate read hit ratio:
//
//	rate(arion_reads_total{hit="true"}[5m]) / rate(arion_reads_total[5m])
//
// Calculate operations per second:
//
//	rate(arion_reads_total[1m]) + rate(arion_removes_total[1m])
//
// Calculate reclaimed entries per minute:
//
//	rate(arion_reclaimed_total[1m]) * 60
//
// # Architecture
//
// Separation of concerns:
//
//	┌─────────────────────────────────────┐
//	│      arion Table (Core Module)      │
//	│  • No OTEL dependencies             │
//	│  • MetricsCollector interface       │
//	│  • NoOpMetricsCollector (default)   │
//	└──────────────┬──────────────────────┘
//	               │
//	               │ implements
//	               ▼
//	┌─────────────────────────────────────┐
//	│    arion/otel (This Package)        │
//	│  • OTelMetricsCollector             │
//	│  • OTEL SDK dependencies            │
//	│  • Histograms + Counters            │
//	└──────────────┬──────────────────────┘
//	               │
//	               │ exports to
//	               ▼
//	┌─────────────────────────────────────┐
//	│      OTEL MeterProvider             │
//	│  • Aggregates metrics               │
//	│  • Calculates percentiles           │
//	│  • Exports to backends              │
//	└──────────────┬──────────────────────┘
//	               │
//	     ┌─────────┴──────┬────────┐
//	     ▼                ▼        ▼
//	Prometheus        Jaeger   DataDog
//
// This architecture keeps the core lightweight while enabling enterprise observability
// as an optional add-on.
//
// # Thread Safety
//
// All methods are thread-safe and use lock-free OTEL instruments:
//
//	collector, _ := arionotel.NewOTelMetricsCollector(provider)
//
//	// Safe to call from multiple goroutines
//	go func() { collector.RecordRead(true, 1000) }()
//	go func() { collector.RecordInsert(2000) }()
//	go func() { collector.RecordRemove(true, 500) }()
//	go func() { collector.RecordReclaim(12) }()
//
// # Best Practices
//
// 1. Reuse MeterProvider across table instances:
//
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	collector1, _ := arionotel.NewOTelMetricsCollector(provider)
//	collector2, _ := arionotel.NewOTelMetricsCollector(provider,
//	    arionotel.WithMeterName("table2"))
//
// 2. Always shutdown MeterProvider on exit:
//
//	defer func() {
//	    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	    defer cancel()
//	    if err := provider.Shutdown(ctx); err != nil {
//	        log.Printf("Failed to shutdown meter provider: %v", err)
//	    }
//	}()
//
// 3. Configure histogram buckets based on your latency profile:
//
//	// For sub-microsecond tables (very fast)
//	Boundaries: []float64{50, 100, 200, 500, 1000, 2000, 5000}
//
//	// For microsecond-range tables (typical)
//	Boundaries: []float64{100, 500, 1000, 5000, 10000, 50000, 100000}
//
// 4. Monitor key metrics:
//   - Read hit ratio: depends on workload shape, watch for sudden drops
//   - P95 read latency: Target <1μs
//   - P99 read latency: Target <5μs
//   - Capacity-exhausted rate: should be near zero in steady state
//
// 5. Set up alerts:
//   - Sustained capacity-exhausted events (table undersized)
//   - High P99 latency (>10μs)
//   - Reclaim runs falling behind retirement volume
//
// # Troubleshooting
//
// Metrics not appearing:
//   - Verify MeterProvider is not nil
//   - Check exporter is registered with provider
//   - Ensure metrics endpoint is accessible
//   - Verify Prometheus is scraping the endpoint
//
// High latency reported:
//   - OTEL measures end-to-end time including any reclamation pinning
//   - Check p99 for tail latencies
//
// Memory usage:
//   - OTEL histograms use memory for buckets (~10-50 bytes per metric)
//   - Cardinality matters: avoid high-cardinality labels
//   - Configure retention in Prometheus to limit storage
//
// # Compatibility
//
//   - Go: 1.25+
//   - OpenTelemetry: v1.31.0+
//   - Prometheus: v2.30.0+
//   - Grafana: v8.0.0+
//
// # Testing
//
// Run tests:
//
//	cd otel
//	go test -v           # Run all tests
//	go test -race        # Run with race detector
//
// # License
//
// Same as arion core (see LICENSE in main repository).
package otel
