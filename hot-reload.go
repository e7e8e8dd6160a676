// hot-reload.go: dynamic configuration with Argus integration.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arion

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// hotReloadable is the subset of Table[T] hot-reload can act on without
// being generic over T itself.
type hotReloadable interface {
	SetReclaimInterval(int) error
}

// HotConfig watches a configuration file and applies ambient configuration
// changes to a running table as they're detected. Only fields that don't
// change the table's memory layout can be hot-reloaded: ReclaimInterval
// today. A reload attempt that targets Capacity or CacheLineSlots is
// rejected with ErrCodeHotConfigRejected and otherwise ignored, since both
// are baked into the slot array and counters at construction time and
// cannot change without rebuilding the table from scratch.
type HotConfig struct {
	table   hotReloadable
	watcher *argus.Watcher
	mu      sync.RWMutex
	applied hotReloadableFields

	// OnReload is called after configuration is successfully reloaded.
	// Optional, must be fast and non-blocking.
	OnReload func(old, new hotReloadableFields)

	// OnRejected is called when the reloaded file names a structural
	// field. Optional.
	OnRejected func(err error)

	logger Logger
}

// hotReloadableFields is the ambient subset of Config a running table can
// accept a reload for.
type hotReloadableFields struct {
	ReclaimInterval int
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	OnReload   func(old, new hotReloadableFields)
	OnRejected func(err error)

	// Logger for hot reload operations. If nil, NoOpLogger is used.
	Logger Logger
}

// NewHotConfig creates a hot-reloadable configuration wrapper around table
// and starts watching opts.ConfigPath immediately.
//
// Example configuration file (YAML):
//
//	table:
//	  reclaim_interval: 128
//
// Only table.reclaim_interval is recognized. A file that also names
// table.capacity or table.cache_line_slots does not crash the watcher: those
// keys are reported via OnRejected and otherwise skipped, since a table's
// slot count and cache-line interleaving are fixed for its lifetime.
func NewHotConfig(table hotReloadable, opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hc := &HotConfig{
		table:      table,
		OnReload:   opts.OnReload,
		OnRejected: opts.OnRejected,
		logger:     opts.Logger,
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, NewErrHotConfigWatch(err)
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// Applied returns the last successfully applied ambient configuration.
func (hc *HotConfig) Applied() hotReloadableFields {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.applied
}

func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	section, ok := configData["table"].(map[string]interface{})
	if !ok {
		section = configData
	}

	if _, has := section["capacity"]; has {
		hc.reject("capacity")
	}
	if _, has := section["cache_line_slots"]; has {
		hc.reject("cache_line_slots")
	}

	interval, ok := parsePositiveInt(section["reclaim_interval"])
	if !ok {
		return
	}

	hc.mu.Lock()
	old := hc.applied
	newFields := hotReloadableFields{ReclaimInterval: interval}
	hc.mu.Unlock()

	if err := hc.table.SetReclaimInterval(interval); err != nil {
		hc.logger.Warn("hot-reload: rejected reclaim_interval", "error", err)
		if hc.OnRejected != nil {
			hc.OnRejected(err)
		}
		return
	}

	hc.mu.Lock()
	hc.applied = newFields
	hc.mu.Unlock()

	if hc.OnReload != nil {
		hc.OnReload(old, newFields)
	}
}

func (hc *HotConfig) reject(field string) {
	err := NewErrHotConfigRejected(field)
	hc.logger.Warn("hot-reload: ignoring structural field", "field", field)
	if hc.OnRejected != nil {
		hc.OnRejected(err)
	}
}

// parsePositiveInt extracts a positive integer from interface{} value.
// Supports both int and float64 types (YAML/JSON may vary).
func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}
