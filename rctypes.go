package heaparray

// RcArray is a reference-counted thin array for single-goroutine use. Share
// is cheap but the plain counter makes every handle goroutine-bound: never
// move an RcArray or any of its shares to another goroutine. Use ArcArray
// when handles cross goroutines.
type RcArray[E any] = rcArray[E, struct{}, RefCount, *RefCount]

// RcLabelledArray is RcArray with a caller-visible label in the same block.
type RcLabelledArray[E, L any] = rcArray[E, L, RefCount, *RefCount]

// ArcArray is a reference-counted thin array safe to share across
// goroutines. Cloning and dropping handles is lock-free; racing drops are
// serialized by the counter so the block is freed exactly once.
type ArcArray[E any] = rcArray[E, struct{}, AtomicRefCount, *AtomicRefCount]

// ArcLabelledArray is ArcArray with a caller-visible label in the same block.
type ArcLabelledArray[E, L any] = rcArray[E, L, AtomicRefCount, *AtomicRefCount]

// NewRc constructs a single-goroutine shared array of n elements.
func NewRc[E any](n int, gen func(i int) E) RcArray[E] {
	return NewRcLabelled(struct{}{}, n, func(_ *struct{}, i int) E { return gen(i) })
}

// NewRcLabelled constructs a single-goroutine shared array whose block also
// stores label.
func NewRcLabelled[E, L any](label L, n int, gen func(l *L, i int) E) RcLabelledArray[E, L] {
	a, err := newRcCore[E, L, RefCount](label, n, gen)
	if err != nil {
		panic(err)
	}
	return a
}

// TryNewRc is the fallible variant of NewRc.
func TryNewRc[E any](n int, gen func(i int) E) (RcArray[E], error) {
	return newRcCore[E, struct{}, RefCount](struct{}{}, n,
		func(_ *struct{}, i int) E { return gen(i) })
}

// NewArc constructs a cross-goroutine shared array of n elements.
func NewArc[E any](n int, gen func(i int) E) ArcArray[E] {
	return NewArcLabelled(struct{}{}, n, func(_ *struct{}, i int) E { return gen(i) })
}

// NewArcLabelled constructs a cross-goroutine shared array whose block also
// stores label.
func NewArcLabelled[E, L any](label L, n int, gen func(l *L, i int) E) ArcLabelledArray[E, L] {
	a, err := newRcCore[E, L, AtomicRefCount](label, n, gen)
	if err != nil {
		panic(err)
	}
	return a
}

// TryNewArc is the fallible variant of NewArc.
func TryNewArc[E any](n int, gen func(i int) E) (ArcArray[E], error) {
	return newRcCore[E, struct{}, AtomicRefCount](struct{}{}, n,
		func(_ *struct{}, i int) E { return gen(i) })
}
