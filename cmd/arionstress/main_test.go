// main_test.go: tests for the arionstress harness helpers
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/agilira/arion"
)

func TestRandomHandle_Empty(t *testing.T) {
	var handles sync.Map
	rng := rand.New(rand.NewSource(1))

	if _, ok := randomHandle(&handles, rng); ok {
		t.Fatal("expected ok=false on an empty set")
	}
}

func TestRandomHandle_ReturnsTracked(t *testing.T) {
	var handles sync.Map
	handles.Store(arion.Handle(42), struct{}{})
	handles.Store(arion.Handle(7), struct{}{})
	rng := rand.New(rand.NewSource(1))

	h, ok := randomHandle(&handles, rng)
	if !ok {
		t.Fatal("expected ok=true with entries present")
	}
	if h != 42 && h != 7 {
		t.Fatalf("unexpected handle %v", h)
	}
}

func TestSanityCheck_Passes(t *testing.T) {
	stats := arion.Stats{Len: 3, Capacity: 10, PendingReclaim: 0, ActiveReaders: 0}
	if !sanityCheck(stats, 3) {
		t.Fatal("expected sanity check to pass")
	}
}

func TestSanityCheck_LenExceedsCapacity(t *testing.T) {
	stats := arion.Stats{Len: 11, Capacity: 10, PendingReclaim: 0, ActiveReaders: 0}
	if sanityCheck(stats, 11) {
		t.Fatal("expected sanity check to fail when Len exceeds Capacity")
	}
}

func TestSanityCheck_PendingReclaimNotSettled(t *testing.T) {
	stats := arion.Stats{Len: 3, Capacity: 10, PendingReclaim: 2, ActiveReaders: 0}
	if sanityCheck(stats, 3) {
		t.Fatal("expected sanity check to fail when PendingReclaim has not settled")
	}
}

func TestSanityCheck_ActiveReadersNotSettled(t *testing.T) {
	stats := arion.Stats{Len: 3, Capacity: 10, PendingReclaim: 0, ActiveReaders: 1}
	if sanityCheck(stats, 3) {
		t.Fatal("expected sanity check to fail when ActiveReaders has not settled")
	}
}

func TestSanityCheck_UntrackedEntries(t *testing.T) {
	stats := arion.Stats{Len: 5, Capacity: 10, PendingReclaim: 0, ActiveReaders: 0}
	if sanityCheck(stats, 3) {
		t.Fatal("expected sanity check to fail when the table has more entries than the harness tracked")
	}
}

func TestStressRun_SmallScale(t *testing.T) {
	table, err := arion.NewStrict[payload](arion.Config{
		Capacity:        1024,
		ReclaimInterval: 32,
	})
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}
	defer table.Close()

	var handles sync.Map
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		h, ok := table.Insert(func(h arion.Handle) payload {
			return payload{id: h.Uint64(), data: []byte("x")}
		})
		if !ok {
			t.Fatalf("insert %d failed against a 1024-capacity table", i)
		}
		handles.Store(h, struct{}{})
	}

	for i := 0; i < 200; i++ {
		h, ok := randomHandle(&handles, rng)
		if !ok {
			t.Fatal("expected a live handle to be available")
		}
		if _, found := table.Read(h); !found {
			t.Fatalf("expected handle %v to be readable", h)
		}
	}

	table.Reclaim()
	stats := table.Stats()
	if stats.Len != 500 {
		t.Fatalf("expected Len 500, got %d", stats.Len)
	}
	if !sanityCheck(stats, 500) {
		t.Fatal("expected sanity check to pass after a clean small-scale run")
	}
}
