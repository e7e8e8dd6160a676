// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arion

import "testing"

func TestConfigValidateDefaults(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() returned an error: %v", err)
	}
	if c.Capacity != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", c.Capacity, DefaultCapacity)
	}
	if c.CacheLineSlots != DefaultCacheLineSlots {
		t.Errorf("CacheLineSlots = %d, want %d", c.CacheLineSlots, DefaultCacheLineSlots)
	}
	if c.ReclaimInterval != DefaultReclaimInterval {
		t.Errorf("ReclaimInterval = %d, want %d", c.ReclaimInterval, DefaultReclaimInterval)
	}
	if c.Logger == nil {
		t.Error("Logger should default to NoOpLogger")
	}
	if c.TimeProvider == nil {
		t.Error("TimeProvider should default to systemTimeProvider")
	}
	if c.MetricsCollector == nil {
		t.Error("MetricsCollector should default to NoOpMetricsCollector")
	}
}

func TestConfigValidateRoundsCapacityToPowerOfTwo(t *testing.T) {
	c := Config{Capacity: 100}
	_ = c.Validate()
	if c.Capacity != 128 {
		t.Errorf("Capacity = %d, want 128", c.Capacity)
	}
}

func TestConfigValidateCapsCacheLineSlotsAtCapacity(t *testing.T) {
	c := Config{Capacity: 4, CacheLineSlots: 64}
	_ = c.Validate()
	if c.CacheLineSlots != 4 {
		t.Errorf("CacheLineSlots = %d, want 4", c.CacheLineSlots)
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.Capacity != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", c.Capacity, DefaultCapacity)
	}
	if c.Logger == nil || c.TimeProvider == nil || c.MetricsCollector == nil {
		t.Error("DefaultConfig should populate every ambient field")
	}
}
