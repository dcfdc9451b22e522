// Package heaparray implements labelled heap-allocated arrays for Go.
//
// # Overview
//
// A labelled array is a single contiguous heap block holding one fixed-size
// label value followed by a fixed number of element slots. The label and the
// elements live in the same allocation, so the whole structure is constructed,
// shared, and destroyed as one unit. This is useful for:
//
//   - Header-plus-payload layouts (length-prefixed buffers, counted objects)
//   - Reference-counted storage without a separate control block
//   - Reducing pointer chasing by co-locating metadata with data
//   - Building higher-level shared containers on one allocation primitive
//
// # Basic Usage
//
//	arr := heaparray.NewFat[int](10, func(i int) int { return i * i })
//	defer arr.Drop()
//
//	arr.Set(3, 42)
//	v := arr.Get(3)
//
//	// Swap a value out, taking ownership of the old one.
//	old := arr.Insert(0, 7)
//	_ = old
//
//	// Borrow the elements as a native slice (subviews are just re-slices).
//	for i, v := range arr.Slice() {
//		_, _ = i, v
//	}
//
// # Labels
//
// Every block stores a label. The generator passed at construction receives a
// pointer to the label alongside each index, so per-slot statistics can be
// accumulated while the array is filled:
//
//	type stats struct{ even, odd int }
//
//	arr := heaparray.NewFatLabelled(stats{}, 100, func(l *stats, i int) int {
//		if i%2 == 0 {
//			l.even++
//		} else {
//			l.odd++
//		}
//		return i
//	})
//	defer arr.Drop()
//
// # Representations
//
// Two handle shapes reference the same block layout. FatArray carries the
// length with the handle (two words, length reads are free). ThinArray is a
// single word; the length lives in a hidden header inside the block, trading
// one indirection for a smaller handle. The representation is picked at
// compile time by the type you use.
//
// # Sharing
//
// RcArray and ArcArray are reference-counted thin arrays. Share duplicates the
// handle in O(1) by bumping the counter; Clone is the only operation that
// copies element storage. RcArray uses a plain counter and must stay on one
// goroutine; ArcArray uses an atomic counter and may be shared freely. When
// the last handle is dropped the block is destroyed exactly once.
//
//	a := heaparray.NewArc[string](3, func(i int) string { return "x" })
//	b := a.Share()        // same block, count is now 2
//	c := a.Clone()        // new block, fresh count of 1
//	heaparray.RefEq(a, b) // true
//	heaparray.RefEq(a, c) // false
//
// LazySlot installs a shared array exactly once across racing goroutines, and
// Coordinator lets many readers proceed while a single writer replaces the
// backing array.
//
// # Destruction
//
// Go has no destructors, so releasing a block is explicit: call Drop on the
// last handle. If the element (or label) pointer type implements
//
//	interface{ Drop() }
//
// the method runs once per slot, label first and then elements in index
// order, before the allocation is released. Using a handle after Drop panics.
//
// # Memory Model
//
// Blocks live outside the regular Go object graph: the collector does not
// trace pointers stored inside a block's element slots. Keep a separate
// reference to any GC-managed object you store, or store self-contained
// values. The backing memory itself stays alive until the block is dropped.
//
// # Allocators
//
// All allocation goes through the Allocator interface. The default allocator
// serves blocks from the Go heap. SetAllocator swaps in a custom or
// instrumented allocator; StatsAllocator wraps any allocator with counters:
//
//	stats := heaparray.NewStatsAllocator(nil)
//	old := heaparray.SetAllocator(stats)
//	defer heaparray.SetAllocator(old)
//	// ... allocate and drop ...
//	s := stats.Stats()
//	fmt.Printf("live blocks: %d, bytes in use: %d\n", s.Live, s.InUse)
//
// Allocation failure (oversize or overflowing layouts) is recoverable through
// the TryNew variants; out-of-bounds indexing, use after Drop, and counter
// resurrection are contract violations and panic.
package heaparray
