package heaparray

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Coordinator states. Transitions are guarded: a writer moves the state
// idle -> writerAdmitted -> swapping and back down; readers only proceed
// while they can take the block lock, which the swapping writer holds.
const (
	coordIdle int32 = iota
	coordWriterAdmitted
	coordSwapping
)

// Coordinator publishes one ArcArray to many concurrent readers while
// letting a single writer replace it. Readers never observe a torn or freed
// handle: a reader's share is taken under the block lock, and the old
// array's block stays alive until every outstanding share is dropped.
//
// Writers are serialized by an admission lock and move through an explicit
// state machine rather than hand-ordered lock releases. Every lock release
// is scoped, so a writer that panics mid-replacement cannot strand readers
// on a held lock; instead the coordinator is poisoned and every subsequent
// operation panics, loudly.
//
// The state token is a writer-side invariant check: a second writer slipping
// past admission trips it immediately. Readers synchronize on the block lock
// alone and never consult the token.
type Coordinator[E any] struct {
	writerMu sync.Mutex   // admission: at most one writer past this point
	state    atomic.Int32 // writer-side invariant check, not read by readers
	poisoned atomic.Bool

	blockMu sync.RWMutex // guards cur against the swap itself
	cur     ArcArray[E]
}

// NewCoordinator starts coordinating initial. The coordinator takes
// ownership of the handle; drop it through Close.
func NewCoordinator[E any](initial ArcArray[E]) *Coordinator[E] {
	initial.checkNull("NewCoordinator")
	return &Coordinator[E]{cur: initial}
}

func (c *Coordinator[E]) checkPoisoned() {
	if c.poisoned.Load() {
		panic("heaparray: coordinator poisoned by a failed replacement")
	}
}

// Read returns a counted share of the current array. It may block briefly
// while a writer is mid-swap, never across a whole writer turn that hasn't
// reached the swap yet.
func (c *Coordinator[E]) Read() ArcArray[E] {
	c.checkPoisoned()
	c.blockMu.RLock()
	defer c.blockMu.RUnlock()
	return c.cur.Share()
}

// Replace installs next as the current array and returns the previous one.
// The caller owns the returned handle and should drop it; readers holding
// shares of it keep the old block alive until they drop too. Writers are
// fully serialized.
func (c *Coordinator[E]) Replace(next ArcArray[E]) ArcArray[E] {
	next.checkNull("Replace")
	c.checkPoisoned()

	c.writerMu.Lock()
	defer c.writerMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			c.poisoned.Store(true)
			panic(r)
		}
	}()

	if !c.state.CompareAndSwap(coordIdle, coordWriterAdmitted) {
		panic(fmt.Sprintf("heaparray: coordinator state %d on writer admission", c.state.Load()))
	}

	var old ArcArray[E]
	func() {
		c.blockMu.Lock()
		defer c.blockMu.Unlock()
		c.state.Store(coordSwapping)
		old = c.cur
		c.cur = next
		c.state.Store(coordWriterAdmitted)
	}()

	c.state.Store(coordIdle)
	return old
}

// Close drops the current handle and spends the coordinator. Concurrent use
// after Close panics like any other spent handle.
func (c *Coordinator[E]) Close() {
	c.checkPoisoned()
	c.writerMu.Lock()
	defer c.writerMu.Unlock()
	c.blockMu.Lock()
	defer c.blockMu.Unlock()
	c.cur.Drop()
}
