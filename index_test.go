// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package arion

import "testing"

func TestLayoutToConcreteBijection(t *testing.T) {
	l := newLayout(256, 8)
	seen := make(map[uint64]bool, 256)
	for a := uint64(0); a < 256; a++ {
		k := l.toConcrete(a)
		if k >= 256 {
			t.Fatalf("toConcrete(%d) = %d, out of range", a, k)
		}
		if seen[k] {
			t.Fatalf("toConcrete(%d) = %d collides with a previous abstract index", a, k)
		}
		seen[k] = true
	}
	if len(seen) != 256 {
		t.Fatalf("expected 256 distinct concrete slots, got %d", len(seen))
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l := newLayout(1024, 16)
	for a := uint64(0); a < 4096; a += 7 {
		d := l.toDetached(a)
		got := l.fromDetached(d)
		if got != a {
			t.Fatalf("round trip broke: fromDetached(toDetached(%d)) = %d", a, got)
		}
	}
}

func TestLayoutCacheLineSpread(t *testing.T) {
	l := newLayout(256, 8)
	for base := uint64(0); base < 256; base += 8 {
		highBits := make(map[uint64]bool, 8)
		for i := uint64(0); i < 8; i++ {
			k := l.toConcrete(base + i)
			group := k &^ (l.cacheLineSlots - 1)
			highBits[group] = true
		}
		if len(highBits) < 2 {
			t.Fatalf("abstract indices %d..%d all landed in the same cache-line group", base, base+7)
		}
	}
}

func TestLayoutNextGeneration(t *testing.T) {
	l := newLayout(64, 4)
	a := uint64(5)
	for i := 0; i < 3; i++ {
		next := l.nextGeneration(a)
		if next != a+64 {
			t.Fatalf("nextGeneration(%d) = %d, want %d", a, next, a+64)
		}
		if l.toConcrete(next) != l.toConcrete(a) {
			t.Fatalf("nextGeneration(%d) should map to the same concrete slot", a)
		}
		a = next
	}
}

func TestNextPowerOf2(t *testing.T) {
	cases := map[uint64]uint64{
		0:    1,
		1:    1,
		2:    2,
		3:    4,
		4:    4,
		5:    8,
		1023: 1024,
		1024: 1024,
	}
	for in, want := range cases {
		if got := nextPowerOf2(in); got != want {
			t.Errorf("nextPowerOf2(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestHandleZeroValue(t *testing.T) {
	var h Handle
	if !h.IsZero() {
		t.Fatal("zero Handle should report IsZero")
	}
	if h.Uint64() != 0 {
		t.Fatal("zero Handle should have Uint64() == 0")
	}
}
