// index.go: the index algebra. Pure functions converting between the three
// index spaces a table operates in: abstract (monotonic, never reused),
// concrete (a physical slot offset, bit-interleaved for cache-line spread),
// and detached (the externally visible handle, packing a concrete slot and
// a generation into one machine word).
//
// None of the functions here touch shared memory. They are deterministic,
// allocation-free, and safe to call without synchronization.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arion

import "math/bits"

// layout captures the bit widths derived from a table's Capacity and
// CacheLineSlots once they have been normalized to powers of two.
type layout struct {
	capacity       uint64
	cacheLineSlots uint64
	indexBits      uint64 // L = log2(capacity)
	blockShift     uint64 // C = log2(cacheLineSlots)
	capacityMask   uint64 // capacity - 1
}

func newLayout(capacity, cacheLineSlots uint64) layout {
	return layout{
		capacity:       capacity,
		cacheLineSlots: cacheLineSlots,
		indexBits:      uint64(bits.TrailingZeros64(capacity)),
		blockShift:     uint64(bits.TrailingZeros64(cacheLineSlots)),
		capacityMask:   capacity - 1,
	}
}

// toConcrete maps an abstract index to its concrete slot K = A mod CAPACITY,
// rotated left by blockShift bits within the L-bit window. The rotation is
// the bit-interleaving from the data model: CACHE_LINE_SLOTS consecutive
// abstract indices differ in the low bits of their residue, which the
// rotation moves up into the bits of K that select a cache line, so
// consecutive allocations land on distinct cache lines instead of packing
// into the same one.
func (l layout) toConcrete(abstract uint64) uint64 {
	residue := abstract & l.capacityMask
	if l.blockShift == 0 {
		return residue
	}
	return ((residue << l.blockShift) | (residue >> (l.indexBits - l.blockShift))) & l.capacityMask
}

// fromConcreteResidue inverts toConcrete: given a concrete slot K, recovers
// the abstract residue (A mod CAPACITY) that produced it. A right rotation by
// blockShift undoes the left rotation toConcrete applies.
func (l layout) fromConcreteResidue(concrete uint64) uint64 {
	if l.blockShift == 0 {
		return concrete & l.capacityMask
	}
	return ((concrete >> l.blockShift) | (concrete << (l.indexBits - l.blockShift))) & l.capacityMask
}

// toDetached packs an abstract index into a handle word: the low indexBits
// bits carry the concrete slot (toConcrete(A)), the remaining high bits carry
// the generation A/CAPACITY. Two abstract indices with different generations
// over the same slot therefore produce different handles, so a stale handle
// can never be mistaken for a fresh one occupying the same slot.
func (l layout) toDetached(abstract uint64) uint64 {
	generation := abstract >> l.indexBits
	return (generation << l.indexBits) | l.toConcrete(abstract)
}

// fromDetached inverts toDetached, recovering the abstract index that a
// handle was minted from.
func (l layout) fromDetached(detached uint64) uint64 {
	concrete := detached & l.capacityMask
	generation := detached >> l.indexBits
	return (generation << l.indexBits) | l.fromConcreteResidue(concrete)
}

// nextGeneration returns the next abstract index that reuses the same
// concrete slot as abstract, strictly greater than every abstract index that
// has ever mapped to that slot before it.
func (l layout) nextGeneration(abstract uint64) uint64 {
	return abstract + l.capacity
}

// Handle is an opaque, externally visible reference to a table entry. It
// packs a concrete slot and a generation counter into one machine word so
// that a handle to a removed-and-reused slot never aliases a live entry.
//
// The first Insert into a new table is issued the zero Handle (abstract
// index 0), so the zero value is a valid handle, not a "no handle" sentinel.
type Handle uint64

// Uint64 returns the handle's underlying bit pattern. Useful for embedding a
// handle inside a payload (e.g. as a stable identifier) without importing
// this package's internals.
func (h Handle) Uint64() uint64 {
	return uint64(h)
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h == 0
}

// nextPowerOf2 rounds n up to the next power of two. Returns 1 for n <= 1.
func nextPowerOf2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << uint64(bits.Len64(n-1))
}
