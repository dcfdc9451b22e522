package heaparray

import "fmt"

// rcPayload rides in the block header of every shared array: the reference
// count first, then the caller-visible label.
type rcPayload[L, C any] struct {
	count C
	label L
}

// rcArray is the single shared-array implementation, instantiated with
// either counter type. Thin representation: the handle stays one word so it
// can live in atomic slots. Every Share produces another handle aliasing the
// same block; the block is destroyed when the last handle drops.
type rcArray[E, L, C any, PC counterPtr[C]] struct {
	arr ThinArray[E, rcPayload[L, C]]
}

func newRcCore[E, L, C any, PC counterPtr[C]](label L, n int, gen func(*L, int) E) (rcArray[E, L, C, PC], error) {
	arr, err := TryNewThinLabelled(rcPayload[L, C]{label: label}, n,
		func(p *rcPayload[L, C], i int) E { return gen(&p.label, i) })
	if err != nil {
		return rcArray[E, L, C, PC]{}, err
	}
	// The counter starts life at 1 for the handle being returned. It is
	// initialized after construction so the generator can never observe or
	// publish a partially built block.
	PC(&arr.Label().count).init()
	return rcArray[E, L, C, PC]{arr: arr}, nil
}

func (a rcArray[E, L, C, PC]) checkNull(op string) {
	if a.arr.blk.isNull() {
		panic(fmt.Sprintf("heaparray: null dereference of reference-counted array in %s", op))
	}
}

func (a rcArray[E, L, C, PC]) counter() PC {
	return PC(&a.arr.blk.labelPtr().label.count)
}

// Len returns the number of element slots.
func (a rcArray[E, L, C, PC]) Len() int {
	a.checkNull("Len")
	return a.arr.Len()
}

// Get returns the element at index i.
func (a rcArray[E, L, C, PC]) Get(i int) E {
	a.checkNull("Get")
	return a.arr.Get(i)
}

// Slice borrows the elements as a native Go slice aliasing the block. The
// slice must not outlive the last handle. Writes through the slice are not
// policed: writing while the count is above one breaches the same contract
// Set panics on, so treat a shared handle's slice as read-only.
func (a rcArray[E, L, C, PC]) Slice() []E {
	a.checkNull("Slice")
	return a.arr.Slice()
}

// Label returns a pointer to the caller-visible label.
func (a rcArray[E, L, C, PC]) Label() *L {
	a.checkNull("Label")
	return &a.arr.blk.labelPtr().label.label
}

// Count returns the current reference count.
func (a rcArray[E, L, C, PC]) Count() int {
	a.checkNull("Count")
	return a.counter().Count()
}

// Set overwrites the element at index i. Requires a unique handle: element
// mutation through a shared handle is not part of this type's contract, so
// Set panics when the count is above one. Use a Coordinator to mutate data
// that is genuinely shared.
func (a rcArray[E, L, C, PC]) Set(i int, v E) {
	a.requireUnique("Set")
	a.arr.Set(i, v)
}

// Insert swaps replacement into slot i and returns the previous value.
// Requires a unique handle, like Set.
func (a rcArray[E, L, C, PC]) Insert(i int, replacement E) E {
	a.requireUnique("Insert")
	return a.arr.Insert(i, replacement)
}

func (a rcArray[E, L, C, PC]) requireUnique(op string) {
	a.checkNull(op)
	if c := a.counter().Count(); c != 1 {
		panic(fmt.Sprintf("heaparray: %s through a shared handle (count %d)", op, c))
	}
}

// Share duplicates the handle: the counter is raised and a new handle
// aliasing the same block is returned. O(1); element data is never touched.
func (a rcArray[E, L, C, PC]) Share() rcArray[E, L, C, PC] {
	a.checkNull("Share")
	a.counter().Increment()
	return a
}

// Clone is the deep copy: a fresh block of the same shape, every element and
// the label copied, and a new counter starting at 1. This is the only
// operation on a shared array that duplicates element storage.
func (a rcArray[E, L, C, PC]) Clone() rcArray[E, L, C, PC] {
	a.checkNull("Clone")
	n := a.arr.Len()
	out, err := newRcCore[E, L, C, PC](*a.Label(), n, func(_ *L, i int) E {
		return *a.arr.blk.elemPtr(i)
	})
	if err != nil {
		panic(err)
	}
	return out
}

// Drop lowers the count. The handle is spent either way; whichever drop
// reaches zero finalizes the label and elements in index order and releases
// the block, exactly once. No-op on an already-spent handle.
func (a *rcArray[E, L, C, PC]) Drop() {
	if a.arr.blk.isNull() {
		return
	}
	blk := a.arr.blk
	a.arr = ThinArray[E, rcPayload[L, C]]{}
	if PC(&blk.labelPtr().label.count).Decrement() != 0 {
		return
	}
	n := blk.labelPtr().n
	if dropsNeeded[L]() {
		finalize(&blk.labelPtr().label.label)
	}
	blk.dropElems(n, 0)
	blk.dropLazy(n)
}

// RefEq reports whether two shared handles alias the same block. This is
// identity, not value equality: two blocks with equal contents are RefEq
// only if they are literally the same allocation. Compare values with Equal.
func RefEq[E, L, C any, PC counterPtr[C]](a, b rcArray[E, L, C, PC]) bool {
	return a.arr.blk.ptr == b.arr.blk.ptr
}
