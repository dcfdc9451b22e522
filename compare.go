package heaparray

import "slices"

// Equal reports whether two arrays hold the same elements in the same order.
// Arrays of different lengths are unequal before any element is inspected.
// Works across every array flavor in this package, and across
// representations: a thin and a fat array with equal contents are equal.
func Equal[E comparable](a, b interface{ Slice() []E }) bool {
	return slices.Equal(a.Slice(), b.Slice())
}

// EqualFunc is Equal with a caller-supplied element comparison.
func EqualFunc[E any](a, b interface{ Slice() []E }, eq func(E, E) bool) bool {
	return slices.EqualFunc(a.Slice(), b.Slice(), eq)
}
