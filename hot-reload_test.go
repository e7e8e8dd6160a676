// hot-reload_test.go: tests for dynamic configuration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arion

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewHotConfig(t *testing.T) {
	table := New[widget](DefaultConfig())
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	initialConfig := `table:
  reclaim_interval: 256
`
	if err := os.WriteFile(configPath, []byte(initialConfig), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	hc, err := NewHotConfig(table, HotConfigOptions{
		ConfigPath:   configPath,
		PollInterval: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewHotConfig failed: %v", err)
	}
	defer func() { _ = hc.Stop() }()

	if hc == nil {
		t.Fatal("expected non-nil HotConfig")
	}
	if hc.watcher == nil {
		t.Error("expected non-nil watcher")
	}
}

func TestNewHotConfigEmptyPath(t *testing.T) {
	table := New[widget](DefaultConfig())

	_, err := NewHotConfig(table, HotConfigOptions{ConfigPath: ""})
	if err == nil {
		t.Error("expected error for empty config path")
	}
}

func TestHotConfigStartStop(t *testing.T) {
	table := New[widget](DefaultConfig())
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	config := `table:
  reclaim_interval: 128
`
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	hc, err := NewHotConfig(table, HotConfigOptions{
		ConfigPath:   configPath,
		PollInterval: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewHotConfig failed: %v", err)
	}

	if err := hc.Start(); err != nil {
		t.Errorf("Start failed: %v", err)
	}
	// Starting an already-running watcher should be a no-op, not an error.
	if err := hc.Start(); err != nil {
		t.Errorf("second Start failed: %v", err)
	}
	if err := hc.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestHotConfigAppliesReclaimInterval(t *testing.T) {
	table := New[widget](Config{Capacity: 16, ReclaimInterval: 64})
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	if err := os.WriteFile(configPath, []byte("table:\n  reclaim_interval: 8\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	applied := make(chan hotReloadableFields, 1)
	hc, err := NewHotConfig(table, HotConfigOptions{
		ConfigPath:   configPath,
		PollInterval: 50 * time.Millisecond,
		OnReload: func(old, new hotReloadableFields) {
			applied <- new
		},
	})
	if err != nil {
		t.Fatalf("NewHotConfig failed: %v", err)
	}
	defer func() { _ = hc.Stop() }()

	if err := hc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	select {
	case fields := <-applied:
		if fields.ReclaimInterval != 8 {
			t.Errorf("applied ReclaimInterval = %d, want 8", fields.ReclaimInterval)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for hot-reload to apply")
	}
}

func TestHotConfigRejectsStructuralField(t *testing.T) {
	table := New[widget](DefaultConfig())
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	if err := os.WriteFile(configPath, []byte("table:\n  capacity: 4096\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	rejected := make(chan error, 1)
	hc, err := NewHotConfig(table, HotConfigOptions{
		ConfigPath:   configPath,
		PollInterval: 50 * time.Millisecond,
		OnRejected: func(err error) {
			rejected <- err
		},
	})
	if err != nil {
		t.Fatalf("NewHotConfig failed: %v", err)
	}
	defer func() { _ = hc.Stop() }()

	if err := hc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	select {
	case err := <-rejected:
		if GetErrorCode(err) != ErrCodeHotConfigRejected {
			t.Errorf("expected %v, got %v", ErrCodeHotConfigRejected, GetErrorCode(err))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for rejection")
	}
}
