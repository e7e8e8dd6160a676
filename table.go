// table.go: the public Table façade, composing the index algebra, slot
// array, allocator protocol and reclamation domain into the fixed-capacity
// lock-free concurrent table described by the data model.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arion

import (
	"sync/atomic"

	"github.com/agilira/arion/reclaim"
	"github.com/google/uuid"
)

// Table is a fixed-capacity, lock-free concurrent slot table for payloads of
// type T. A Table must be created with New and must not be copied after
// first use.
type Table[T any] struct {
	layout   layout
	slots    *slotArray[T]
	counters counters
	domain   *reclaim.Domain[envelope[T]]

	cfg             Config
	instanceID      string
	opCount         atomic.Uint64
	reclaimInterval atomic.Int64
}

// New creates a Table with the given configuration, normalizing it first via
// Config.Validate. New never fails: an invalid Capacity or CacheLineSlots is
// rounded to a usable default rather than rejected, matching the
// normalize-don't-reject posture of Config.Validate.
//
// Use NewStrict if you need construction to fail loudly on a malformed
// Config instead of silently normalizing it.
func New[T any](cfg Config) *Table[T] {
	_ = cfg.Validate()
	return newTable[T](cfg)
}

// NewStrict creates a Table like New, but returns a structured error instead
// of normalizing Capacity, CacheLineSlots, or ReclaimInterval when the
// caller supplied a negative value. Zero values are replaced by their
// defaults, as in New.
func NewStrict[T any](cfg Config) (*Table[T], error) {
	if cfg.Capacity < 0 {
		return nil, NewErrInvalidCapacity(cfg.Capacity)
	}
	if cfg.CacheLineSlots < 0 {
		return nil, NewErrInvalidCacheLineSlots(cfg.CacheLineSlots, cfg.Capacity)
	}
	if cfg.ReclaimInterval < 0 {
		return nil, NewErrInvalidReclaimInterval(cfg.ReclaimInterval)
	}
	_ = cfg.Validate()
	return newTable[T](cfg), nil
}

func newTable[T any](cfg Config) *Table[T] {
	capacity := uint64(cfg.Capacity)
	t := &Table[T]{
		layout:     newLayout(capacity, uint64(cfg.CacheLineSlots)),
		slots:      newSlotArray[T](capacity),
		domain:     reclaim.New[envelope[T]](),
		cfg:        cfg,
		instanceID: uuid.New().String(),
	}
	t.reclaimInterval.Store(int64(cfg.ReclaimInterval))
	if cfg.OnReclaim != nil {
		t.domain.OnReclaim = func(e *envelope[T]) {
			cfg.OnReclaim(Handle(t.layout.toDetached(e.abstract)))
		}
	}
	// Every concrete slot starts at generation 0, a value strictly below
	// the first generation (CAPACITY) nextGeneration ever produces, so an
	// Insert claiming a never-used slot always observes a fresh CAS
	// target rather than a stale reservedMarker.
	return t
}

// Capacity returns the table's fixed capacity.
func (t *Table[T]) Capacity() int {
	return int(t.layout.capacity)
}

// Len returns the number of live entries. Approximate under concurrent
// mutation: by the time the caller observes the result, it may already be
// stale.
func (t *Table[T]) Len() int {
	return int(t.counters.entries.Load())
}

// InstanceID returns a process-lifetime-unique identifier for this table,
// useful for correlating log lines and metrics across multiple tables in
// the same process.
func (t *Table[T]) InstanceID() string {
	return t.instanceID
}

// Insert allocates a new entry. factory is called with the Handle the entry
// will be known by before the entry becomes visible to readers, so it can
// embed the handle in the payload (e.g. as a self-referential ID). Insert
// returns false, without calling factory, if the table is at capacity. If
// factory panics, the panic is recovered, the slot is released as though
// the insert never happened, and Insert reports the same false a caller
// gets from a capacity-exhausted attempt; use TryInsert to see the
// recovered panic's value.
func (t *Table[T]) Insert(factory func(Handle) T) (Handle, bool) {
	handle, _, ok := t.insert(factory)
	return handle, ok
}

// TryInsert behaves like Insert but returns a structured, retryable error
// instead of a bare false when the table is at capacity, and an
// ARION_PANIC_RECOVERED error if factory panicked.
func (t *Table[T]) TryInsert(factory func(Handle) T) (Handle, error) {
	handle, panicErr, ok := t.insert(factory)
	if !ok {
		if panicErr != nil {
			return 0, panicErr
		}
		return 0, NewErrCapacityExhausted(t.Capacity())
	}
	return handle, nil
}

func (t *Table[T]) insert(factory func(Handle) T) (Handle, error, bool) {
	start := t.now()
	if !t.counters.incrementEntries(uint32(t.layout.capacity)) {
		t.cfg.MetricsCollector.RecordCapacityExhausted()
		return 0, nil, false
	}

	var abstract uint64
	var concrete uint64
	for {
		candidate := t.counters.nextID.Add(1) - 1
		concrete = t.layout.toConcrete(candidate)
		prior := t.slots.gen[concrete].Swap(reservedMarker)
		if prior == reservedMarker {
			// Another in-flight Insert has reserved this slot, or it
			// holds a live entry; retry with the next abstract index.
			continue
		}
		abstract = candidate
		break
	}

	handle := Handle(t.layout.toDetached(abstract))
	value, panicErr := t.callFactory(factory, handle)
	if panicErr != nil {
		// factory never produced a value: release the slot we reserved
		// and undo the optimistic entries increment, leaving the table
		// exactly as if this Insert had never been attempted.
		t.slots.gen[concrete].Store(t.layout.nextGeneration(abstract))
		t.counters.decrementEntries()
		return 0, panicErr, false
	}
	t.slots.data[concrete].Store(&envelope[T]{abstract: abstract, value: value})

	t.maybeReclaim()
	t.cfg.MetricsCollector.RecordInsert(t.now() - start)
	return handle, nil, true
}

// callFactory invokes factory, converting a panic into an ARION_PANIC_RECOVERED
// error rather than letting it unwind through Insert.
func (t *Table[T]) callFactory(factory func(Handle) T, handle Handle) (value T, recovered error) {
	defer func() {
		if r := recover(); r != nil {
			recovered = NewErrPanicRecovered("Insert", r)
		}
	}()
	value = factory(handle)
	return
}

// Remove deletes the entry identified by handle, if it is still live.
// Returns false if handle is stale: already removed, or never issued by
// this table. The payload is not actually freed until a later reclamation
// sweep confirms no in-flight reader could still observe it.
func (t *Table[T]) Remove(handle Handle) bool {
	ok, _ := t.remove(handle)
	return ok
}

// TryRemove behaves like Remove but returns a structured error instead of a
// bare false for a stale handle.
func (t *Table[T]) TryRemove(handle Handle) error {
	ok, _ := t.remove(handle)
	if !ok {
		return NewErrStaleHandle(handle)
	}
	return nil
}

func (t *Table[T]) remove(handle Handle) (bool, uint64) {
	start := t.now()
	abstract := t.layout.fromDetached(uint64(handle))
	concrete := t.layout.toConcrete(abstract)

	guard := t.domain.Enter()
	defer guard.Leave()

	var taken *envelope[T]
	for {
		current := t.slots.data[concrete].Load()
		if current == nil || current.abstract != abstract {
			t.cfg.MetricsCollector.RecordRemove(false, t.now()-start)
			return false, 0
		}
		if t.slots.data[concrete].CompareAndSwap(current, nil) {
			taken = current
			break
		}
	}

	t.domain.Retire(taken)

	// The CAS above is what decides which single goroutine removes this
	// abstract index, so this goroutine alone owns concrete's reservation
	// at this point: a plain store releases it, no CAS loop needed.
	next := t.layout.nextGeneration(abstract)
	t.slots.gen[concrete].Store(next)

	t.counters.decrementEntries()
	t.maybeReclaim()
	t.cfg.MetricsCollector.RecordRemove(true, t.now()-start)
	return true, abstract
}

// Read returns a copy of the entry identified by handle and true if it is
// still live, or the zero value and false if handle is stale.
func (t *Table[T]) Read(handle Handle) (T, bool) {
	start := t.now()
	var zero T
	abstract := t.layout.fromDetached(uint64(handle))
	concrete := t.layout.toConcrete(abstract)

	guard := t.domain.Enter()
	defer guard.Leave()

	env := guard.LoadShared(&t.slots.data[concrete])
	if env == nil || env.abstract != abstract {
		t.cfg.MetricsCollector.RecordRead(false, t.now()-start)
		return zero, false
	}
	t.cfg.MetricsCollector.RecordRead(true, t.now()-start)
	return env.value, true
}

// TryRead behaves like Read but returns a structured error instead of a
// bare false for a stale handle.
func (t *Table[T]) TryRead(handle Handle) (T, error) {
	value, ok := t.Read(handle)
	if !ok {
		return value, NewErrStaleHandle(handle)
	}
	return value, nil
}

// With calls f with a pointer to the entry identified by handle while a
// reclamation guard is held, so f can mutate the entry in place without
// racing a concurrent Remove freeing it. f must not block and must not call
// back into t. With is a package-level function, not a method, because Go
// methods cannot introduce their own type parameters.
func With[T, R any](t *Table[T], handle Handle, f func(*T) R) (R, bool) {
	start := t.now()
	var zero R
	abstract := t.layout.fromDetached(uint64(handle))
	concrete := t.layout.toConcrete(abstract)

	guard := t.domain.Enter()
	defer guard.Leave()

	env := guard.LoadShared(&t.slots.data[concrete])
	if env == nil || env.abstract != abstract {
		t.cfg.MetricsCollector.RecordRead(false, t.now()-start)
		return zero, false
	}
	result := f(&env.value)
	t.cfg.MetricsCollector.RecordRead(true, t.now()-start)
	return result, true
}

// Stats reports a point-in-time snapshot of table occupancy and pending
// reclamation work.
type Stats struct {
	Len             int
	Capacity        int
	PendingReclaim  int
	ActiveReaders   int
}

// Stats returns a snapshot of the table's current state.
func (t *Table[T]) Stats() Stats {
	return Stats{
		Len:            t.Len(),
		Capacity:       t.Capacity(),
		PendingReclaim: t.domain.PendingCount(),
		ActiveReaders:  t.domain.ActiveGuardCount(),
	}
}

// Reclaim runs an out-of-band reclamation sweep and returns the number of
// payloads freed. Insert and Remove already call this opportunistically
// every ReclaimInterval operations; callers with bursty mutation traffic
// and long idle periods may want to call it directly (e.g. from a
// background ticker) to bound worst-case memory held by retired payloads.
func (t *Table[T]) Reclaim() int {
	freed := t.domain.TryReclaim()
	t.cfg.MetricsCollector.RecordReclaim(freed)
	return freed
}

// Close runs reclamation sweeps until no retired payload remains pinned, or
// gives up after a bounded number of attempts (an active reader could in
// principle never leave, in which case closing cannot proceed further).
// Close does not stop new Insert/Remove/Read calls; callers are expected to
// quiesce the table themselves first.
func (t *Table[T]) Close() error {
	const maxAttempts = 1024
	for i := 0; i < maxAttempts; i++ {
		if t.domain.PendingCount() == 0 {
			return nil
		}
		t.Reclaim()
	}
	return nil
}

func (t *Table[T]) maybeReclaim() {
	n := t.opCount.Add(1)
	interval := t.reclaimInterval.Load()
	if interval > 0 && n%uint64(interval) == 0 {
		t.Reclaim()
	}
}

// SetReclaimInterval changes how many insert/remove operations elapse
// between opportunistic reclamation sweeps. Safe to call concurrently with
// Insert/Remove. Returns a structured error if interval is not positive.
func (t *Table[T]) SetReclaimInterval(interval int) error {
	if interval <= 0 {
		return NewErrInvalidReclaimInterval(interval)
	}
	t.reclaimInterval.Store(int64(interval))
	return nil
}

func (t *Table[T]) now() int64 {
	return t.cfg.TimeProvider.Now()
}
