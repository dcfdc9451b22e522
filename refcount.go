package heaparray

import "sync/atomic"

// counter is the capability shared by both reference-count implementations.
// Implementations start at 1 via init and expose raw increment/decrement so
// both automatic (handle-scoped) and manual reference management can be
// built on the same primitive.
type counter interface {
	init()
	Increment() int
	Decrement() int
	Count() int
}

// counterPtr ties a counter value type to its pointer method set, letting
// one generic shared-array core be instantiated with either implementation.
type counterPtr[C any] interface {
	*C
	counter
}

// RefCount is a plain, non-atomic reference count. It is only safe while
// every holder lives on a single goroutine; use AtomicRefCount otherwise.
//
// Invariant: the count must never be raised from zero. Zero means the backing
// storage has begun destruction; resurrecting the count would alias freed
// memory. Increment enforces this with a panic, and the shared-array handles
// make it unreachable by nulling themselves when their count hits zero.
type RefCount struct {
	n int
}

func (c *RefCount) init() { c.n = 1 }

// Increment raises the count by one and returns the new value.
func (c *RefCount) Increment() int {
	if c.n <= 0 {
		panic("heaparray: increment of a dead reference count")
	}
	c.n++
	return c.n
}

// Decrement lowers the count by one and returns the new value. Reaching zero
// is terminal: the caller must destroy the backing storage and never touch
// the count again.
func (c *RefCount) Decrement() int {
	c.n--
	return c.n
}

// Count returns the current count.
func (c *RefCount) Count() int { return c.n }

// AtomicRefCount is a reference count safe to manipulate from any goroutine.
// Go's atomic operations are sequentially consistent, so a decrement that
// reaches zero observes every prior write made by other holders; the thread
// that frees the block sees it fully constructed.
//
// The zero-resurrection invariant from RefCount applies here too.
type AtomicRefCount struct {
	n int64
}

func (c *AtomicRefCount) init() { atomic.StoreInt64(&c.n, 1) }

// Increment raises the count by one and returns the new value.
func (c *AtomicRefCount) Increment() int {
	v := atomic.AddInt64(&c.n, 1)
	if v <= 1 {
		panic("heaparray: increment of a dead reference count")
	}
	return int(v)
}

// Decrement lowers the count by one and returns the new value. Exactly one
// caller observes zero, even when drops race; that caller frees the block.
func (c *AtomicRefCount) Decrement() int {
	return int(atomic.AddInt64(&c.n, -1))
}

// Count returns the current count.
func (c *AtomicRefCount) Count() int { return int(atomic.LoadInt64(&c.n)) }
