package heaparray

import (
	"sync/atomic"
	"unsafe"
)

// StatsAllocator wraps another Allocator and counts every allocation and
// deallocation that flows through it. Useful for leak checks and for
// monitoring block churn in long-running processes.
type StatsAllocator struct {
	inner        Allocator
	allocs       atomic.Int64
	deallocs     atomic.Int64
	bytesAlloc   atomic.Int64
	bytesDealloc atomic.Int64
}

// NewStatsAllocator wraps inner with counters. If inner is nil, a fresh
// default heap allocator is used.
func NewStatsAllocator(inner Allocator) *StatsAllocator {
	if inner == nil {
		inner = newHeapAllocator()
	}
	return &StatsAllocator{inner: inner}
}

// Alloc counts the request and delegates to the wrapped allocator. Failed
// allocations are not counted.
func (s *StatsAllocator) Alloc(size, align uintptr) (unsafe.Pointer, error) {
	ptr, err := s.inner.Alloc(size, align)
	if err != nil {
		return nil, err
	}
	s.allocs.Add(1)
	s.bytesAlloc.Add(int64(size))
	return ptr, nil
}

// Dealloc counts the release and delegates to the wrapped allocator.
func (s *StatsAllocator) Dealloc(ptr unsafe.Pointer, size, align uintptr) {
	s.inner.Dealloc(ptr, size, align)
	s.deallocs.Add(1)
	s.bytesDealloc.Add(int64(size))
}

// AllocStats is a snapshot of allocator activity.
type AllocStats struct {
	Allocs       int64 // blocks allocated
	Deallocs     int64 // blocks released
	BytesAlloc   int64 // bytes handed out
	BytesDealloc int64 // bytes returned
	Live         int64 // blocks currently outstanding
	InUse        int64 // bytes currently outstanding
}

// Stats returns a snapshot of the counters. Counters are read individually,
// so a snapshot taken while allocations are in flight may be slightly torn;
// quiesce first when exact numbers matter.
func (s *StatsAllocator) Stats() AllocStats {
	st := AllocStats{
		Allocs:       s.allocs.Load(),
		Deallocs:     s.deallocs.Load(),
		BytesAlloc:   s.bytesAlloc.Load(),
		BytesDealloc: s.bytesDealloc.Load(),
	}
	st.Live = st.Allocs - st.Deallocs
	st.InUse = st.BytesAlloc - st.BytesDealloc
	return st
}
