// Package arion: extended documentation.
//
// # Index spaces
//
// Every entry is addressed through three related index spaces:
//
//   - abstract: a monotonically increasing counter value, never reused.
//     Two different Inserts into the same concrete slot always produce
//     different abstract indices.
//   - concrete: the physical offset into the slot array, derived from the
//     abstract index by a bit-interleaving permutation (see index.go) that
//     spreads consecutive allocations across distinct cache lines instead
//     of packing them into one.
//   - detached: the externally visible Handle, packing a concrete index and
//     a generation (abstract index / capacity) into one machine word. A
//     Handle from a removed-and-reused slot never aliases the entry that
//     now occupies it, because the generations differ.
//
// # Memory reclamation
//
// Remove unlinks an entry's payload from the slot array immediately, but
// does not free it immediately: a concurrent Read or With may already have
// loaded the old pointer and be in the middle of dereferencing it. Instead,
// Remove hands the payload to an epoch-based reclamation domain
// (github.com/agilira/arion/reclaim), which only drops it once no reader
// could still be observing it. Insert and Remove opportunistically trigger
// a reclamation sweep every Config.ReclaimInterval operations; callers with
// bursty mutation traffic followed by long idle stretches can call
// Table.Reclaim directly to bound worst-case retained memory.
//
// # Thread safety
//
// All Table[T] methods are safe for concurrent use. Read and With never
// write to shared memory (not even a reference count), so read throughput
// scales with the number of processors. Insert and Remove synchronize
// through atomic counters and atomic swaps/CAS loops on individual slots.
// Every Insert and Remove updates the shared entry counter (and every Insert
// the abstract-index counter), so writers do contend on that cache line;
// their slot-array writes are spread across cache lines by the
// bit-interleaving.
//
// # Error handling
//
// The primary Insert/Remove/Read/With API returns a bool to report success,
// matching Go's "comma ok" idiom. TryInsert/TryRemove/TryRead return a
// structured *errors.Error (github.com/agilira/go-errors) instead, carrying
// a stable error code (ErrCodeCapacityExhausted, ErrCodeStaleHandle, ...), a
// context map, and a retryable flag where relevant. Use IsCapacityExhausted,
// IsStaleHandle, IsRetryable, GetErrorCode and GetErrorContext to inspect
// them without a type assertion.
//
// # Observability
//
// Table never requires a Logger or MetricsCollector: by default both are
// no-ops so the hot path pays nothing for instrumentation it doesn't want.
// Provide a MetricsCollector to record per-operation latencies and outcome
// counts, or see github.com/agilira/arion/otel for a ready-made OpenTelemetry
// implementation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package arion
