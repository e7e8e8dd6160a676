// Package arion provides a fixed-capacity, lock-free concurrent slot table
// optimized for read-heavy workloads where lookups vastly outnumber
// mutations.
//
// A lookup never writes to shared memory — not even a reference count —
// so read throughput scales linearly with the number of processors.
// Mutations (Insert, Remove) use atomic counters and an epoch-deferred
// reclamation scheme so that readers never observe a half-constructed or
// freed payload.
//
// Example usage:
//
//	table := arion.New[User](arion.Config{Capacity: 1024})
//
//	handle, ok := table.Insert(func(h arion.Handle) User {
//		return User{ID: h.Uint64()}
//	})
//
//	user, found := table.Read(handle)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package arion

const (
	// Version of the arion table library.
	Version = "v0.1.0-dev"

	// DefaultCapacity is used when Config.Capacity is not positive; a positive
	// Capacity that is not a power of two is rounded up instead.
	DefaultCapacity = 4096

	// DefaultCacheLineSlots is the number of machine words assumed to fit in
	// one cache line. 8 words * 8 bytes = 64 bytes, the common cache-line size.
	DefaultCacheLineSlots = 8

	// DefaultReclaimInterval, expressed as an insert/remove operation count
	// rather than wall-clock time, controls how often Insert and Remove
	// opportunistically attempt to drain retired payloads. See reclaim.Domain.TryReclaim.
	DefaultReclaimInterval = 64
)
