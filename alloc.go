package heaparray

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"braces.dev/errtrace"
)

// ErrAllocOverflow is returned by the fallible constructors when the
// requested layout overflows or exceeds the maximum block size.
var ErrAllocOverflow = errors.New("heaparray: block layout overflows maximum allocation size")

// Allocator hands out and reclaims raw memory by explicit layout. Alloc
// returns uninitialized memory of at least size bytes aligned to align, or an
// error on exhaustion; it never panics for a recoverable failure. Dealloc is
// the exact inverse of Alloc and must be called with the same size and align.
//
// Implementations must be safe for concurrent use.
type Allocator interface {
	Alloc(size, align uintptr) (unsafe.Pointer, error)
	Dealloc(ptr unsafe.Pointer, size, align uintptr)
}

// allocMu guards swaps of the package allocator. Alloc/Dealloc calls load it
// without the lock; SetAllocator is for setup and instrumentation, not for
// mid-flight swaps while blocks are live on the old allocator.
var (
	allocMu   sync.Mutex
	allocator Allocator = newHeapAllocator()
)

// SetAllocator replaces the package allocator and returns the previous one.
// Pass nil to restore the default heap allocator. Blocks must be deallocated
// by the allocator that produced them.
func SetAllocator(a Allocator) Allocator {
	allocMu.Lock()
	defer allocMu.Unlock()
	prev := allocator
	if a == nil {
		a = newHeapAllocator()
	}
	allocator = a
	return prev
}

func currentAllocator() Allocator {
	allocMu.Lock()
	defer allocMu.Unlock()
	return allocator
}

// heapAllocator serves blocks from the Go heap. Each allocation is backed by
// a byte slab kept reachable in a registry until it is deallocated, so block
// memory is never reclaimed while a handle can still reach it.
type heapAllocator struct {
	mu    sync.Mutex
	slabs map[unsafe.Pointer][]byte
}

func newHeapAllocator() *heapAllocator {
	return &heapAllocator{slabs: make(map[unsafe.Pointer][]byte)}
}

func (h *heapAllocator) Alloc(size, align uintptr) (unsafe.Pointer, error) {
	if size > maxBlockBytes {
		return nil, errtrace.Wrap(fmt.Errorf("%w: %d bytes", ErrAllocOverflow, size))
	}
	if size == 0 {
		size = 1 // keep block addresses unique
	}
	// Over-allocate so the base can be rounded up to the requested alignment.
	buf, err := makeSlab(size + align)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	base := unsafe.Pointer(unsafe.SliceData(buf))
	off := alignUp(uintptr(base), align) - uintptr(base)
	ptr := unsafe.Add(base, off)

	h.mu.Lock()
	h.slabs[ptr] = buf
	h.mu.Unlock()
	return ptr, nil
}

func (h *heapAllocator) Dealloc(ptr unsafe.Pointer, size, align uintptr) {
	h.mu.Lock()
	_, ok := h.slabs[ptr]
	delete(h.slabs, ptr)
	h.mu.Unlock()
	if !ok {
		panic("heaparray: dealloc of unknown or already freed block")
	}
}

// makeSlab allocates the backing slab. Requests that pass the layout checks
// can still exceed what the runtime will hand out in one object; the runtime
// reports that with a panic, which is converted here into a recoverable error
// so the fallible constructors keep their no-panic contract.
func makeSlab(n uintptr) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %d bytes: %v", ErrAllocOverflow, n, r)
		}
	}()
	return make([]byte, n), nil
}

// live reports how many blocks the allocator currently holds.
func (h *heapAllocator) live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.slabs)
}
