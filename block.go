package heaparray

import (
	"fmt"
	"unsafe"

	"braces.dev/errtrace"
)

// Dropper is implemented by label or element types that need finalization.
// When a block is destroyed, Drop runs once for the label and once per
// element slot, label first, elements in index order.
type Dropper interface {
	Drop()
}

// dropsNeeded reports whether *T carries a Drop method. Checked once per
// destruction so element loops skip the assertion for plain data.
func dropsNeeded[T any]() bool {
	_, ok := any((*T)(nil)).(Dropper)
	return ok
}

func finalize[T any](p *T) {
	if d, ok := any(p).(Dropper); ok {
		d.Drop()
	}
}

// memBlock is a one-word handle to a single heap allocation holding a label
// L followed by some number of E slots. It is the only type in the package
// that talks to the Allocator, and it performs no bounds checking: every
// caller guarantees its indices. The block does not know its own length;
// the handle layer supplies it to every operation that needs one.
type memBlock[E, L any] struct {
	ptr unsafe.Pointer
}

func (m memBlock[E, L]) isNull() bool { return m.ptr == nil }

// labelPtr returns the label, which sits at the base of the allocation.
func (m memBlock[E, L]) labelPtr() *L {
	return (*L)(m.ptr)
}

// elemPtr returns slot i. Caller guarantees i < n for the n the block was
// allocated with; there is no check here.
func (m memBlock[E, L]) elemPtr(i int) *E {
	off := elemOffset[E, L]() + uintptr(i)*elemStride[E]()
	return (*E)(unsafe.Add(m.ptr, off))
}

// newBlock allocates and fully constructs a block: the label is written
// first, then gen produces each element in index order. gen may mutate the
// label as it goes. Allocation failure is fatal; use tryNewBlock for the
// recoverable path.
func newBlock[E, L any](label L, n int, gen func(*L, int) E) memBlock[E, L] {
	m, err := tryNewBlock(label, n, gen)
	if err != nil {
		panic(err)
	}
	return m
}

// tryNewBlock is the fallible variant of newBlock. On failure it reports the
// error without allocating or writing anything.
func tryNewBlock[E, L any](label L, n int, gen func(*L, int) E) (memBlock[E, L], error) {
	layout, ok := layoutOf[E, L](n)
	if !ok {
		return memBlock[E, L]{}, errtrace.Wrap(fmt.Errorf("%w: %d elements", ErrAllocOverflow, n))
	}
	ptr, err := currentAllocator().Alloc(layout.size, layout.align)
	if err != nil {
		return memBlock[E, L]{}, errtrace.Wrap(err)
	}
	m := memBlock[E, L]{ptr: ptr}
	*m.labelPtr() = label
	for i := 0; i < n; i++ {
		*m.elemPtr(i) = gen(m.labelPtr(), i)
	}
	return m, nil
}

// dropElems finalizes the elements in [from, n) in index order. Slots below
// from were already consumed (by Drain) and must not be finalized again.
// Label finalization happens in the handle layer, which knows where the
// caller-visible label sits inside L; it runs before this does.
func (m memBlock[E, L]) dropElems(n, from int) {
	if dropsNeeded[E]() {
		for i := from; i < n; i++ {
			finalize(m.elemPtr(i))
		}
	}
}

// dropLazy releases the allocation without finalizing the label or any
// element.
func (m memBlock[E, L]) dropLazy(n int) {
	layout, ok := layoutOf[E, L](n)
	if !ok {
		panic(fmt.Sprintf("heaparray: invalid layout for block of %d elements", n))
	}
	currentAllocator().Dealloc(m.ptr, layout.size, layout.align)
}

// cloneBlock deep-copies n elements and the label into a fresh allocation.
// Copies are by assignment; elements that own external resources should be
// rebuilt through a generator instead.
func (m memBlock[E, L]) cloneBlock(n int) memBlock[E, L] {
	return newBlock(*m.labelPtr(), n, func(_ *L, i int) E {
		return *m.elemPtr(i)
	})
}

// slice returns the n element slots as a native Go slice aliasing the block.
func (m memBlock[E, L]) slice(n int) []E {
	if n == 0 {
		return nil
	}
	return unsafe.Slice(m.elemPtr(0), n)
}
