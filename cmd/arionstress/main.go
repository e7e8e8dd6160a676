// main.go: stress/soak harness for arion.Table
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/arion"
)

// payload is the stress harness's table entry: fixed-size to keep memory
// accounting predictable across runs of different capacity.
type payload struct {
	id   uint64
	data []byte
}

func main() {
	capacity := flag.Int("capacity", 100_000, "table capacity")
	workers := flag.Int("workers", 8, "number of concurrent worker goroutines")
	duration := flag.Duration("duration", 5*time.Second, "how long to run the workload")
	readRatio := flag.Float64("read-ratio", 0.7, "fraction of operations that are reads")
	insertRatio := flag.Float64("insert-ratio", 0.2, "fraction of operations that are inserts (remainder is removes)")
	valueSize := flag.Int("value-size", 64, "size in bytes of each stored payload")
	reclaimInterval := flag.Int("reclaim-interval", 256, "operations between opportunistic reclamation sweeps")
	seed := flag.Int64("seed", 1, "base seed for per-worker RNGs")
	flag.Parse()

	if *readRatio < 0 || *insertRatio < 0 || *readRatio+*insertRatio > 1 {
		log.Fatalf("invalid ratios: read=%.2f insert=%.2f must satisfy read+insert <= 1", *readRatio, *insertRatio)
	}

	table, err := arion.NewStrict[payload](arion.Config{
		Capacity:        *capacity,
		ReclaimInterval: *reclaimInterval,
	})
	if err != nil {
		log.Fatalf("arionstress: invalid config: %v", err)
	}
	defer table.Close()

	fmt.Printf("arionstress: capacity=%d workers=%d duration=%s read=%.2f insert=%.2f value-size=%d\n",
		*capacity, *workers, *duration, *readRatio, *insertRatio, *valueSize)

	var (
		handles   sync.Map // arion.Handle -> struct{}, live handle set shared across workers
		live      int64
		inserts   int64
		reads     int64
		hits      int64
		removes   int64
		performed int64
		exhausted int64
	)

	stop := make(chan struct{})
	var wg sync.WaitGroup

	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(*seed + int64(workerID)))
			buf := make([]byte, *valueSize)

			for {
				select {
				case <-stop:
					return
				default:
				}

				op := rng.Float64()
				switch {
				case op < *readRatio:
					if h, ok := randomHandle(&handles, rng); ok {
						atomic.AddInt64(&reads, 1)
						if _, found := table.Read(h); found {
							atomic.AddInt64(&hits, 1)
						}
					}

				case op < *readRatio+*insertRatio:
					rng.Read(buf)
					value := make([]byte, len(buf))
					copy(value, buf)
					h, ok := table.Insert(func(h arion.Handle) payload {
						return payload{id: h.Uint64(), data: value}
					})
					if ok {
						handles.Store(h, struct{}{})
						atomic.AddInt64(&inserts, 1)
						atomic.AddInt64(&live, 1)
					} else {
						atomic.AddInt64(&exhausted, 1)
					}

				default:
					if h, ok := randomHandle(&handles, rng); ok {
						atomic.AddInt64(&removes, 1)
						if table.Remove(h) {
							handles.Delete(h)
							atomic.AddInt64(&performed, 1)
							atomic.AddInt64(&live, -1)
						}
					}
				}
			}
		}(w)
	}

	time.Sleep(*duration)
	close(stop)
	wg.Wait()

	freed := table.Reclaim()
	stats := table.Stats()

	fmt.Println()
	fmt.Printf("inserts=%d reads=%d read-hits=%d removes=%d removes-performed=%d capacity-exhausted=%d\n",
		atomic.LoadInt64(&inserts), atomic.LoadInt64(&reads), atomic.LoadInt64(&hits),
		atomic.LoadInt64(&removes), atomic.LoadInt64(&performed), atomic.LoadInt64(&exhausted))
	fmt.Printf("final reclaim freed=%d\n", freed)
	fmt.Printf("stats: len=%d capacity=%d pending-reclaim=%d active-readers=%d\n",
		stats.Len, stats.Capacity, stats.PendingReclaim, stats.ActiveReaders)

	if ok := sanityCheck(stats, atomic.LoadInt64(&live)); !ok {
		os.Exit(1)
	}
}

// randomHandle picks an arbitrary live handle from the shared set, or
// reports ok=false if none are currently tracked.
func randomHandle(handles *sync.Map, rng *rand.Rand) (arion.Handle, bool) {
	var candidates []arion.Handle
	handles.Range(func(k, _ interface{}) bool {
		candidates = append(candidates, k.(arion.Handle))
		return len(candidates) < 256 // bound the scan; this is a sampling heuristic, not exhaustive
	})
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// sanityCheck applies the table's own invariants (P1-P9 style: Len never
// exceeds Capacity, PendingReclaim settles to zero once workers stop and a
// final Reclaim has run) and reports whether they held.
func sanityCheck(stats arion.Stats, trackedLive int64) bool {
	ok := true
	if stats.Len > stats.Capacity {
		log.Printf("sanity: Len %d exceeds Capacity %d", stats.Len, stats.Capacity)
		ok = false
	}
	if stats.PendingReclaim != 0 {
		log.Printf("sanity: PendingReclaim %d did not settle to zero after final Reclaim", stats.PendingReclaim)
		ok = false
	}
	if stats.ActiveReaders != 0 {
		log.Printf("sanity: ActiveReaders %d, expected 0 once all workers have exited", stats.ActiveReaders)
		ok = false
	}
	if int64(stats.Len) > trackedLive {
		log.Printf("sanity: table reports more live entries (%d) than the harness tracked (%d)", stats.Len, trackedLive)
		ok = false
	}
	if ok {
		fmt.Println("sanity: ok")
	}
	return ok
}
