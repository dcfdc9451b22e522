package heaparray

import (
	"fmt"
	"iter"
)

// thinHeader prefixes every thin block: the length rides inside the
// allocation so the handle can stay one word.
type thinHeader[L any] struct {
	n     int
	label L
}

// ThinArray is a bounds-checked array handle the size of a single pointer.
// The length lives in a hidden header at the front of the block, so Len
// costs one indirection. Prefer FatArray unless handle size matters (for
// example when handles are stored in bulk or swapped atomically).
//
// Handles follow the same move-like discipline as FatArray.
type ThinArray[E, L any] struct {
	blk memBlock[E, thinHeader[L]]
}

// NewThin constructs a thin array of n elements with an empty label.
func NewThin[E any](n int, gen func(i int) E) ThinArray[E, struct{}] {
	return NewThinLabelled(struct{}{}, n, func(_ *struct{}, i int) E { return gen(i) })
}

// TryNewThin is the fallible variant of NewThin.
func TryNewThin[E any](n int, gen func(i int) E) (ThinArray[E, struct{}], error) {
	return TryNewThinLabelled(struct{}{}, n, func(_ *struct{}, i int) E { return gen(i) })
}

// NewThinLabelled constructs a thin array of n elements whose block also
// stores label; gen may mutate the label as slots are produced.
func NewThinLabelled[E, L any](label L, n int, gen func(l *L, i int) E) ThinArray[E, L] {
	blk := newBlock(thinHeader[L]{n: n, label: label}, n,
		func(h *thinHeader[L], i int) E { return gen(&h.label, i) })
	return ThinArray[E, L]{blk: blk}
}

// TryNewThinLabelled is the fallible variant of NewThinLabelled.
func TryNewThinLabelled[E, L any](label L, n int, gen func(l *L, i int) E) (ThinArray[E, L], error) {
	blk, err := tryNewBlock(thinHeader[L]{n: n, label: label}, n,
		func(h *thinHeader[L], i int) E { return gen(&h.label, i) })
	if err != nil {
		return ThinArray[E, L]{}, err
	}
	return ThinArray[E, L]{blk: blk}, nil
}

func (a ThinArray[E, L]) header() *thinHeader[L] {
	if a.blk.isNull() {
		panic("heaparray: use of array after Drop")
	}
	return a.blk.labelPtr()
}

func (a ThinArray[E, L]) check(i int) int {
	n := a.header().n
	if i < 0 || i >= n {
		panic(fmt.Sprintf("heaparray: index %d out of range [0:%d]", i, n))
	}
	return n
}

// Len returns the number of element slots, read from the block header.
func (a ThinArray[E, L]) Len() int { return a.header().n }

// Get returns the element at index i.
func (a ThinArray[E, L]) Get(i int) E {
	a.check(i)
	return *a.blk.elemPtr(i)
}

// Set overwrites the element at index i.
func (a ThinArray[E, L]) Set(i int, v E) {
	a.check(i)
	*a.blk.elemPtr(i) = v
}

// Insert swaps replacement into slot i and returns the previous value.
func (a ThinArray[E, L]) Insert(i int, replacement E) E {
	a.check(i)
	p := a.blk.elemPtr(i)
	old := *p
	*p = replacement
	return old
}

// Label returns a pointer to the caller-visible label.
func (a ThinArray[E, L]) Label() *L {
	return &a.header().label
}

// Slice borrows the elements as a native Go slice aliasing the block.
func (a ThinArray[E, L]) Slice() []E {
	return a.blk.slice(a.header().n)
}

// Clone deep-copies the label and every element into a fresh block.
func (a ThinArray[E, L]) Clone() ThinArray[E, L] {
	n := a.header().n
	return ThinArray[E, L]{blk: a.blk.cloneBlock(n)}
}

// Drop finalizes the label and elements in index order and releases the
// block. No-op on a spent handle.
func (a *ThinArray[E, L]) Drop() {
	if a.blk.isNull() {
		return
	}
	blk := a.blk
	a.blk = memBlock[E, thinHeader[L]]{}
	n := blk.labelPtr().n
	if dropsNeeded[L]() {
		finalize(&blk.labelPtr().label)
	}
	blk.dropElems(n, 0)
	blk.dropLazy(n)
}

// Drain consumes the array, yielding ownership of each element in index
// order exactly once; see FatArray.Drain for the sequence contract.
func (a *ThinArray[E, L]) Drain() iter.Seq[E] {
	if a.blk.isNull() {
		panic("heaparray: use of array after Drop")
	}
	blk := a.blk
	a.blk = memBlock[E, thinHeader[L]]{}
	n := blk.labelPtr().n
	return func(yield func(E) bool) {
		if blk.isNull() {
			panic("heaparray: drain sequence is one-shot")
		}
		i := 0
		defer func() {
			if dropsNeeded[L]() {
				finalize(&blk.labelPtr().label)
			}
			blk.dropElems(n, i)
			blk.dropLazy(n)
			blk = memBlock[E, thinHeader[L]]{}
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
