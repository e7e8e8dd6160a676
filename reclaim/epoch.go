// Package reclaim implements epoch-based memory reclamation: the contract
// arion's read and write protocols use to dereference and free slot
// payloads without ever taking a lock.
//
// The scheme: a monotonically increasing global epoch. Readers "enter"
// the domain before touching a payload and "leave" when done, recording
// the epoch they entered at. Writers "retire" payloads they have unlinked
// from the table instead of freeing them immediately; a retired payload is
// only dropped once every reader that might have observed it has left.
//
// Enter/Leave must cost the read path nothing beyond a constant number of
// writes to memory the calling goroutine alone owns for the guard's
// lifetime: no shared map insert/delete, no cross-goroutine CAS. Each
// Domain keeps a sync.Pool of reusable reader slots: Enter borrows one
// (typically its own P's private slot, the same mechanism sync.Pool uses
// to avoid cross-P contention) and pins it with two plain stores; Leave
// stores it inactive and returns it to the pool. A slot's identity is
// registered exactly once, the first time the pool has to allocate it,
// so the registration write is amortized across a slot's entire reuse
// lifetime rather than paid on every Enter.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package reclaim

import (
	"sync"
	"sync/atomic"
)

// Domain is an epoch reclamation domain for payloads of type T. One Domain
// is owned by exactly one table instance.
type Domain[T any] struct {
	// globalEpoch is advanced by writers after retiring a payload.
	globalEpoch atomic.Uint64

	// slots lends out readerSlot instances to Enter and takes them back on
	// Leave. Pooling means steady-state Enter/Leave touch no memory shared
	// with any other goroutine's concurrent Enter/Leave.
	slots sync.Pool

	// registry holds every readerSlot ever created, so TryReclaim and
	// ActiveGuardCount can find the minimum epoch across slots currently on
	// loan even though the pool itself gives up track of them once
	// borrowed. Only touched when the pool allocates a new slot (on first
	// use, and again after the pool has dropped idle slots during a garbage
	// collection, so the registry can grow past peak concurrency) or when
	// scanning off the read path.
	registry struct {
		mu    sync.Mutex
		slots []*readerSlot
	}

	retiredMu sync.Mutex
	retired   map[uint64][]*T

	// OnReclaim, if non-nil, is invoked for every payload that is dropped by
	// TryReclaim, e.g. to run caller-defined cleanup before the reference is
	// released to the garbage collector.
	OnReclaim func(*T)
}

type readerSlot struct {
	epoch  atomic.Uint64
	active atomic.Bool
}

// New creates a reclamation domain starting at epoch 1 (0 is reserved to
// mean "no reader has ever entered").
func New[T any]() *Domain[T] {
	d := &Domain[T]{retired: make(map[uint64][]*T)}
	d.globalEpoch.Store(1)
	d.slots.New = func() interface{} {
		s := &readerSlot{}
		d.registry.mu.Lock()
		d.registry.slots = append(d.registry.slots, s)
		d.registry.mu.Unlock()
		return s
	}
	return d
}

// Guard is a scoped pin preventing reclamation of any payload retired at or
// after the epoch the guard observed on Enter. It must be released with
// Leave on every exit path, including panics (use defer).
type Guard[T any] struct {
	dom  *Domain[T]
	slot *readerSlot
}

// Enter pins the calling goroutine to the current epoch. The returned Guard
// must be released with Leave. Enter borrows a reader slot from the pool
// and performs two plain stores into it; it never blocks and never writes
// to memory another concurrent Enter/Leave could also be writing.
func (d *Domain[T]) Enter() *Guard[T] {
	slot := d.slots.Get().(*readerSlot)
	slot.epoch.Store(d.globalEpoch.Load())
	slot.active.Store(true)

	return &Guard[T]{dom: d, slot: slot}
}

// Leave unpins the reader and returns its slot to the pool. Safe to call on
// a nil Guard.
func (g *Guard[T]) Leave() {
	if g == nil || g.slot == nil {
		return
	}
	g.slot.active.Store(false)
	g.dom.slots.Put(g.slot)
	g.slot = nil
}

// Epoch returns the epoch this guard entered at.
func (g *Guard[T]) Epoch() uint64 {
	if g == nil || g.slot == nil {
		return 0
	}
	return g.slot.epoch.Load()
}

// LoadShared loads an atomic pointer under this guard. The returned pointer
// is safe to dereference for the lifetime of the guard: any payload visible
// through ptr at the time of the call cannot be freed until the guard is
// released, because Retire always happens-before the guard's epoch could be
// reported as safe to reclaim.
func (g *Guard[T]) LoadShared(ptr *atomic.Pointer[T]) *T {
	return ptr.Load()
}

// Retire schedules payload for destruction once every guard pinned at or
// before the current epoch has left. It does not block and performs a
// bounded amount of bookkeeping (lock the retired map, append, advance the
// epoch).
func (d *Domain[T]) Retire(payload *T) {
	if payload == nil {
		return
	}
	epoch := d.globalEpoch.Load()

	d.retiredMu.Lock()
	d.retired[epoch] = append(d.retired[epoch], payload)
	d.retiredMu.Unlock()

	d.globalEpoch.Add(1)
}

// TryReclaim frees every retired payload whose retirement epoch is strictly
// below the minimum epoch any active guard observed, invoking OnReclaim (if
// set) for each. Returns the number of payloads freed. Safe to call from
// multiple goroutines concurrently and from a background ticker; never
// called from the read path.
func (d *Domain[T]) TryReclaim() int {
	minEpoch := d.minActiveEpoch()

	d.retiredMu.Lock()
	defer d.retiredMu.Unlock()

	freed := 0
	for epoch, payloads := range d.retired {
		if epoch >= minEpoch {
			continue
		}
		if d.OnReclaim != nil {
			for _, p := range payloads {
				d.OnReclaim(p)
			}
		}
		freed += len(payloads)
		delete(d.retired, epoch)
	}
	return freed
}

// PendingCount returns the number of payloads awaiting reclamation.
func (d *Domain[T]) PendingCount() int {
	d.retiredMu.Lock()
	defer d.retiredMu.Unlock()

	count := 0
	for _, payloads := range d.retired {
		count += len(payloads)
	}
	return count
}

// ActiveGuardCount returns the number of currently pinned guards. Not part
// of the read path: called from the table's Stats(), it may scan every slot
// ever allocated under a lock.
func (d *Domain[T]) ActiveGuardCount() int {
	d.registry.mu.Lock()
	defer d.registry.mu.Unlock()

	count := 0
	for _, slot := range d.registry.slots {
		if slot.active.Load() {
			count++
		}
	}
	return count
}

func (d *Domain[T]) minActiveEpoch() uint64 {
	minEpoch := d.globalEpoch.Load()

	d.registry.mu.Lock()
	defer d.registry.mu.Unlock()

	for _, slot := range d.registry.slots {
		if slot.active.Load() {
			if e := slot.epoch.Load(); e < minEpoch {
				minEpoch = e
			}
		}
	}
	return minEpoch
}
