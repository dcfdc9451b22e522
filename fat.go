package heaparray

import (
	"fmt"
	"iter"
)

// FatArray is a bounds-checked array handle carrying its length alongside
// the block pointer: two words, length reads are free. This is the default
// representation; see ThinArray for the one-word variant.
//
// Handles are move-like: after Drop (or Drain) the handle is spent and any
// further use panics. Copies of a handle alias the same block, so drop
// through exactly one of them.
type FatArray[E, L any] struct {
	blk memBlock[E, L]
	n   int
}

// HeapArray is a FatArray with no caller-visible label.
type HeapArray[E any] = FatArray[E, struct{}]

// New constructs a HeapArray of n elements, invoking gen once per index in
// order. Allocation failure is fatal; see TryNew.
func New[E any](n int, gen func(i int) E) HeapArray[E] {
	return NewFat[E](n, gen)
}

// TryNew is the fallible variant of New: layout overflow or allocator
// exhaustion is reported as an error and nothing is allocated.
func TryNew[E any](n int, gen func(i int) E) (HeapArray[E], error) {
	return TryNewFat[E](n, gen)
}

// NewFat constructs a fat array of n elements with an empty label.
func NewFat[E any](n int, gen func(i int) E) HeapArray[E] {
	return NewFatLabelled(struct{}{}, n, func(_ *struct{}, i int) E { return gen(i) })
}

// TryNewFat is the fallible variant of NewFat.
func TryNewFat[E any](n int, gen func(i int) E) (HeapArray[E], error) {
	return TryNewFatLabelled(struct{}{}, n, func(_ *struct{}, i int) E { return gen(i) })
}

// NewFatLabelled constructs a fat array of n elements whose block also
// stores label. gen receives the label pointer with every index and may
// accumulate state into it while the array is filled.
func NewFatLabelled[E, L any](label L, n int, gen func(l *L, i int) E) FatArray[E, L] {
	return FatArray[E, L]{blk: newBlock(label, n, gen), n: n}
}

// TryNewFatLabelled is the fallible variant of NewFatLabelled.
func TryNewFatLabelled[E, L any](label L, n int, gen func(l *L, i int) E) (FatArray[E, L], error) {
	blk, err := tryNewBlock(label, n, gen)
	if err != nil {
		return FatArray[E, L]{}, err
	}
	return FatArray[E, L]{blk: blk, n: n}, nil
}

func (a FatArray[E, L]) check(i int) {
	if a.blk.isNull() {
		panic("heaparray: use of array after Drop")
	}
	if i < 0 || i >= a.n {
		panic(fmt.Sprintf("heaparray: index %d out of range [0:%d]", i, a.n))
	}
}

// Len returns the number of element slots.
func (a FatArray[E, L]) Len() int { return a.n }

// Get returns the element at index i.
func (a FatArray[E, L]) Get(i int) E {
	a.check(i)
	return *a.blk.elemPtr(i)
}

// Set overwrites the element at index i.
func (a FatArray[E, L]) Set(i int, v E) {
	a.check(i)
	*a.blk.elemPtr(i) = v
}

// Insert swaps replacement into slot i and returns the previous value,
// transferring its ownership to the caller. The slot is never observable in
// a half-owned state: a replacement is required up front.
func (a FatArray[E, L]) Insert(i int, replacement E) E {
	a.check(i)
	p := a.blk.elemPtr(i)
	old := *p
	*p = replacement
	return old
}

// Label returns a pointer to the block's label.
func (a FatArray[E, L]) Label() *L {
	if a.blk.isNull() {
		panic("heaparray: use of array after Drop")
	}
	return a.blk.labelPtr()
}

// Slice borrows the elements as a native Go slice aliasing the block.
// Subviews are ordinary re-slices; the runtime validates them against these
// bounds. The slice must not outlive the array.
func (a FatArray[E, L]) Slice() []E {
	if a.blk.isNull() {
		panic("heaparray: use of array after Drop")
	}
	return a.blk.slice(a.n)
}

// Clone deep-copies the label and every element into a fresh block.
func (a FatArray[E, L]) Clone() FatArray[E, L] {
	if a.blk.isNull() {
		panic("heaparray: use of array after Drop")
	}
	return FatArray[E, L]{blk: a.blk.cloneBlock(a.n), n: a.n}
}

// Drop finalizes the label and all unconsumed elements in index order, then
// releases the allocation. The handle is spent afterwards. Drop on an
// already-spent handle is a no-op, so deferred drops compose with Drain.
func (a *FatArray[E, L]) Drop() {
	if a.blk.isNull() {
		return
	}
	blk, n := a.blk, a.n
	a.blk = memBlock[E, L]{}
	a.n = 0
	if dropsNeeded[L]() {
		finalize(blk.labelPtr())
	}
	blk.dropElems(n, 0)
	blk.dropLazy(n)
}

// Drain consumes the array, yielding ownership of each element in index
// order exactly once. The handle is spent immediately; the returned sequence
// owns the block and releases it when iteration stops, finalizing the label
// and any elements that were not consumed. The sequence must be ranged over
// (even breaking on the first element is enough) or the block leaks.
func (a *FatArray[E, L]) Drain() iter.Seq[E] {
	if a.blk.isNull() {
		panic("heaparray: use of array after Drop")
	}
	blk, n := a.blk, a.n
	a.blk = memBlock[E, L]{}
	a.n = 0
	return func(yield func(E) bool) {
		if blk.isNull() {
			panic("heaparray: drain sequence is one-shot")
		}
		i := 0
		defer func() {
			if dropsNeeded[L]() {
				finalize(blk.labelPtr())
			}
			blk.dropElems(n, i)
			blk.dropLazy(n)
			blk = memBlock[E, L]{}
		}()
		for i < n {
			v := *blk.elemPtr(i)
			i++
			if !yield(v) {
				return
			}
		}
	}
}
