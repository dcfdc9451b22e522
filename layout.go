package heaparray

import (
	"math"
	"unsafe"
)

// maxBlockBytes is the largest block this package will allocate. Mirrors the
// address-space cap enforced by the runtime for single objects.
const maxBlockBytes = math.MaxInt

// sizeAlign returns the size and alignment of T in bytes.
func sizeAlign[T any]() (size, align uintptr) {
	var zero T
	return unsafe.Sizeof(zero), unsafe.Alignof(zero)
}

// alignUp rounds n up to the next multiple of align. align must be a power
// of two.
func alignUp(n, align uintptr) uintptr {
	mask := align - 1
	return (n + mask) &^ mask
}

// blockLayout describes one allocation holding a label L followed by n
// element slots of E. Computed once per block and never changes.
type blockLayout struct {
	size    uintptr // total bytes, including label padding
	align   uintptr // max(align L, align E)
	elemOff uintptr // offset of element 0 from the block base
	stride  uintptr // distance between consecutive elements
}

// layoutOf computes the combined layout for a label L and n elements of E.
// Reports false if the layout would overflow or exceed maxBlockBytes.
func layoutOf[E, L any](n int) (blockLayout, bool) {
	lsize, lalign := sizeAlign[L]()
	esize, ealign := sizeAlign[E]()

	l := blockLayout{
		align:   max(lalign, ealign),
		elemOff: alignUp(lsize, ealign),
		stride:  esize, // Sizeof already includes trailing padding
	}
	if n < 0 {
		return blockLayout{}, false
	}
	if esize > 0 && uintptr(n) > (maxBlockBytes-l.elemOff)/esize {
		return blockLayout{}, false
	}
	l.size = l.elemOff + l.stride*uintptr(n)
	return l, true
}

// elemOffset returns the offset of element 0 from the block base: the label
// size rounded up to the element alignment.
func elemOffset[E, L any]() uintptr {
	lsize, _ := sizeAlign[L]()
	_, ealign := sizeAlign[E]()
	return alignUp(lsize, ealign)
}

// elemStride returns the distance between consecutive elements. Sizeof
// already includes trailing padding, so the stride is the size itself.
func elemStride[E any]() uintptr {
	size, _ := sizeAlign[E]()
	return size
}

// maxLen returns the largest element count a block of E with label L can
// hold without exceeding maxBlockBytes.
func maxLen[E, L any]() int {
	lsize, _ := sizeAlign[L]()
	esize, ealign := sizeAlign[E]()
	if esize == 0 {
		return maxBlockBytes
	}
	elemOff := alignUp(lsize, ealign)
	return int((maxBlockBytes - elemOff) / esize)
}
