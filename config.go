// config.go: configuration for arion tables.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arion

import (
	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for a Table.
type Config struct {
	// Capacity is the fixed number of entries the table can hold. Rounded
	// up to the next power of two if it isn't one already. Must be > 0.
	// Default: DefaultCapacity.
	Capacity int

	// CacheLineSlots is the number of machine words assumed to fit in one
	// cache line, used to bit-interleave concrete slots so that
	// consecutive allocations spread across cache lines. Rounded up to
	// the next power of two. Default: DefaultCacheLineSlots.
	CacheLineSlots int

	// ReclaimInterval is the number of insert/remove operations between
	// opportunistic reclamation sweeps. Must be > 0. Default:
	// DefaultReclaimInterval.
	ReclaimInterval int

	// Logger is used for diagnostics. If nil, NoOpLogger is used.
	// Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for metrics timestamps. If nil,
	// a default implementation backed by go-timecache is used.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting operation metrics
	// (latencies, capacity exhaustion, reclamation counts). If nil,
	// NoOpMetricsCollector is used (zero overhead).
	MetricsCollector MetricsCollector

	// OnReclaim, if set, is invoked for every payload a reclamation sweep
	// frees, after the table can no longer observe it. Must be fast and
	// non-blocking.
	OnReclaim func(handle Handle)
}

// Validate checks configuration parameters and applies sensible defaults.
// Returns nil: like the rest of this package's config normalization, this
// never rejects a Config outright, it only rounds and substitutes defaults.
//
// This method is automatically called by New, so you typically don't need
// to call it manually.
//
// Default values applied:
//   - Capacity: DefaultCapacity if <= 0, rounded up to a power of two
//   - CacheLineSlots: DefaultCacheLineSlots if <= 0, rounded up to a power
//     of two, and capped at Capacity
//   - ReclaimInterval: DefaultReclaimInterval if <= 0
//   - Logger: NoOpLogger{} if nil
//   - TimeProvider: systemTimeProvider{} if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	c.Capacity = int(nextPowerOf2(uint64(c.Capacity)))

	if c.CacheLineSlots <= 0 {
		c.CacheLineSlots = DefaultCacheLineSlots
	}
	c.CacheLineSlots = int(nextPowerOf2(uint64(c.CacheLineSlots)))
	if c.CacheLineSlots > c.Capacity {
		c.CacheLineSlots = c.Capacity
	}

	if c.ReclaimInterval <= 0 {
		c.ReclaimInterval = DefaultReclaimInterval
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capacity:        DefaultCapacity,
		CacheLineSlots:  DefaultCacheLineSlots,
		ReclaimInterval: DefaultReclaimInterval,
		Logger:          NoOpLogger{},
		TimeProvider:    &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider using go-timecache. This
// provides fast time access compared to time.Now() with zero allocations,
// which matters because a table reads the clock twice per operation to time
// it for the MetricsCollector.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
