package heaparray

import (
	"errors"
	"testing"
	"unsafe"
)

func TestHeapAllocatorRoundTrip(t *testing.T) {
	h := newHeapAllocator()

	ptr, err := h.Alloc(128, 8)
	if err != nil {
		t.Fatalf("Alloc(128, 8) error: %v", err)
	}
	if uintptr(ptr)%8 != 0 {
		t.Errorf("Alloc(128, 8) pointer %p not 8-byte aligned", ptr)
	}
	if h.live() != 1 {
		t.Errorf("live = %d, want 1", h.live())
	}

	h.Dealloc(ptr, 128, 8)
	if h.live() != 0 {
		t.Errorf("live after Dealloc = %d, want 0", h.live())
	}
}

func TestHeapAllocatorAlignment(t *testing.T) {
	h := newHeapAllocator()
	for _, align := range []uintptr{1, 2, 4, 8, 16, 64} {
		ptr, err := h.Alloc(32, align)
		if err != nil {
			t.Fatalf("Alloc(32, %d) error: %v", align, err)
		}
		if uintptr(ptr)%align != 0 {
			t.Errorf("Alloc(32, %d) pointer %p misaligned", align, ptr)
		}
		h.Dealloc(ptr, 32, align)
	}
}

func TestHeapAllocatorZeroSize(t *testing.T) {
	h := newHeapAllocator()
	ptr, err := h.Alloc(0, 1)
	if err != nil {
		t.Fatalf("Alloc(0, 1) error: %v", err)
	}
	if ptr == nil {
		t.Fatal("Alloc(0, 1) returned nil")
	}
	h.Dealloc(ptr, 0, 1)
}

func TestHeapAllocatorDoubleFree(t *testing.T) {
	h := newHeapAllocator()
	ptr, err := h.Alloc(16, 8)
	if err != nil {
		t.Fatal(err)
	}
	h.Dealloc(ptr, 16, 8)
	mustPanic(t, "double free", func() { h.Dealloc(ptr, 16, 8) })
	mustPanic(t, "foreign pointer", func() {
		var x int
		h.Dealloc(unsafe.Pointer(&x), 8, 8)
	})
}

func TestSetAllocator(t *testing.T) {
	stats := NewStatsAllocator(nil)
	prev := SetAllocator(stats)
	defer SetAllocator(prev)

	arr := NewFat[int](4, func(i int) int { return i })
	s := stats.Stats()
	if s.Allocs != 1 {
		t.Errorf("Allocs = %d, want 1", s.Allocs)
	}
	arr.Drop()
	s = stats.Stats()
	if s.Live != 0 {
		t.Errorf("Live = %d, want 0", s.Live)
	}

	// nil restores a working default
	SetAllocator(nil)
	a2 := NewFat[int](1, func(int) int { return 0 })
	a2.Drop()
	SetAllocator(prev)
}

func TestStatsAllocatorCounts(t *testing.T) {
	stats := NewStatsAllocator(nil)

	p1, err := stats.Alloc(100, 8)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := stats.Alloc(50, 8)
	if err != nil {
		t.Fatal(err)
	}

	s := stats.Stats()
	if s.Allocs != 2 || s.BytesAlloc != 150 {
		t.Errorf("after allocs: Allocs = %d BytesAlloc = %d, want 2 and 150", s.Allocs, s.BytesAlloc)
	}
	if s.Live != 2 || s.InUse != 150 {
		t.Errorf("Live = %d InUse = %d, want 2 and 150", s.Live, s.InUse)
	}

	stats.Dealloc(p1, 100, 8)
	stats.Dealloc(p2, 50, 8)
	s = stats.Stats()
	if s.Live != 0 || s.InUse != 0 {
		t.Errorf("after deallocs: Live = %d InUse = %d, want 0 and 0", s.Live, s.InUse)
	}
}

func TestTryNewOverflow(t *testing.T) {
	_, err := TryNewFat[int64](maxBlockBytes, func(int) int64 { return 0 })
	if !errors.Is(err, ErrAllocOverflow) {
		t.Errorf("TryNewFat(maxBlockBytes) error = %v, want ErrAllocOverflow", err)
	}

	_, err = TryNewThin[int64](maxBlockBytes, func(int) int64 { return 0 })
	if !errors.Is(err, ErrAllocOverflow) {
		t.Errorf("TryNewThin(maxBlockBytes) error = %v, want ErrAllocOverflow", err)
	}

	_, err = TryNewArc[int64](maxBlockBytes, func(int) int64 { return 0 })
	if !errors.Is(err, ErrAllocOverflow) {
		t.Errorf("TryNewArc(maxBlockBytes) error = %v, want ErrAllocOverflow", err)
	}
}

func TestTryNewOversizeAllocation(t *testing.T) {
	// Passes the layout math but exceeds what the runtime will allocate in a
	// single object. Must come back as an error, never a panic.
	before := NewFat[int](2, func(i int) int { return i })
	defer before.Drop()

	_, err := TryNewFat[byte](1<<50, func(int) byte { return 0 })
	if !errors.Is(err, ErrAllocOverflow) {
		t.Errorf("TryNewFat(1<<50) error = %v, want ErrAllocOverflow", err)
	}

	_, err = TryNewThin[byte](1<<50, func(int) byte { return 0 })
	if !errors.Is(err, ErrAllocOverflow) {
		t.Errorf("TryNewThin(1<<50) error = %v, want ErrAllocOverflow", err)
	}

	// Existing handles are untouched by the failed construction.
	if before.Get(1) != 1 {
		t.Errorf("existing array disturbed by failed allocation")
	}
}

func TestHeapAllocatorOversize(t *testing.T) {
	h := newHeapAllocator()
	_, err := h.Alloc(1<<50, 8)
	if !errors.Is(err, ErrAllocOverflow) {
		t.Errorf("Alloc(1<<50, 8) error = %v, want ErrAllocOverflow", err)
	}
	if h.live() != 0 {
		t.Errorf("live after failed Alloc = %d, want 0", h.live())
	}
}
