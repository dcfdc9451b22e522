package heaparray

import (
	"sync/atomic"
	"unsafe"
)

// LazySlot holds at most one ArcArray and fills exactly once, no matter how
// many goroutines race to install. The only transition is null to non-null,
// so once a reader has seen a value it may keep using it without further
// synchronization. There is no general store: overwriting would silently
// skip the destruction of whatever handle was previously installed.
//
// The zero value is an empty slot ready for use.
type LazySlot[E any] struct {
	p atomic.Pointer[byte]
}

// TryInstall attempts the null-to-non-null transition with a. It reports
// whether this call won; exactly one concurrent caller does. On success the
// slot takes ownership of the handle. On failure the caller still owns a and
// should drop it (or keep using it).
func (s *LazySlot[E]) TryInstall(a ArcArray[E]) bool {
	a.checkNull("TryInstall")
	return s.p.CompareAndSwap(nil, (*byte)(a.arr.blk.ptr))
}

// Get returns a borrowed view of the installed array. The view aliases the
// slot's handle without touching the counter, so it is valid as long as the
// slot itself is; call Share on it for a handle with independent lifetime.
func (s *LazySlot[E]) Get() (ArcArray[E], bool) {
	p := s.p.Load()
	if p == nil {
		return ArcArray[E]{}, false
	}
	return arcFromRaw[E](unsafe.Pointer(p)), true
}

// Acquire returns a counted share of the installed array, safe to hold past
// the slot's lifetime. Reports false if nothing is installed yet.
func (s *LazySlot[E]) Acquire() (ArcArray[E], bool) {
	a, ok := s.Get()
	if !ok {
		return a, false
	}
	return a.Share(), true
}

// Release is end-of-life teardown: it takes the installed handle out of the
// slot and drops it. Not part of the install protocol; never call it while
// readers may still Get from the slot.
func (s *LazySlot[E]) Release() {
	p := s.p.Swap(nil)
	if p == nil {
		return
	}
	a := arcFromRaw[E](unsafe.Pointer(p))
	a.Drop()
}

// arcFromRaw rebuilds an ArcArray handle from its block pointer. The pointer
// must have come from an ArcArray of the same element type.
func arcFromRaw[E any](p unsafe.Pointer) ArcArray[E] {
	var a ArcArray[E]
	a.arr.blk.ptr = p
	return a
}
