// interfaces.go: public interfaces for arion
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arion

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}
func (NoOpLogger) Info(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Warn(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time with caching for performance.
// Table calls Now at the start and end of every Insert, Remove, Read and
// With to measure the latency it reports to the MetricsCollector.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	Now() int64
}

// MetricsCollector is used for collecting operation metrics (latencies,
// outcome counts). The table never requires a MetricsCollector: passing
// nil, or leaving Config.MetricsCollector unset, installs NoOpMetricsCollector
// so the hot path pays nothing for observability it doesn't want.
//
// Unlike an LRU cache, a table has no hit/miss concept against an eviction
// policy: absence is either "capacity exhausted" (Insert) or "stale/unknown
// handle" (Read, Remove, With). The hooks below reflect that.
type MetricsCollector interface {
	// RecordInsert is called after a successful Insert with its latency in nanoseconds.
	RecordInsert(latencyNs int64)

	// RecordCapacityExhausted is called when Insert fails because the table is full.
	RecordCapacityExhausted()

	// RecordRemove is called after Remove returns, reporting whether it
	// performed the removal and its latency in nanoseconds.
	RecordRemove(performed bool, latencyNs int64)

	// RecordRead is called after Read/With returns, reporting whether the
	// handle resolved to a live entry and the latency in nanoseconds.
	RecordRead(hit bool, latencyNs int64)

	// RecordReclaim is called after a reclamation sweep, reporting how many
	// retired payloads were freed.
	RecordReclaim(freed int)
}

// NoOpMetricsCollector is the default, zero-overhead MetricsCollector.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordInsert(latencyNs int64)              {}
func (NoOpMetricsCollector) RecordCapacityExhausted()                  {}
func (NoOpMetricsCollector) RecordRemove(performed bool, latencyNs int64) {}
func (NoOpMetricsCollector) RecordRead(hit bool, latencyNs int64)      {}
func (NoOpMetricsCollector) RecordReclaim(freed int)                   {}
