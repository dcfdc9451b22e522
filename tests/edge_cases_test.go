package heaparray_test

import (
	"errors"
	"testing"

	"github.com/heaparray/heaparray"
)

// TestEdgeCases exercises the public API the way an external caller sees it.
func TestEdgeCases(t *testing.T) {
	t.Run("EmptyArrays", func(t *testing.T) {
		fat := heaparray.NewFat[int](0, func(int) int { return 0 })
		thin := heaparray.NewThin[int](0, func(int) int { return 0 })

		if fat.Len() != 0 || thin.Len() != 0 {
			t.Errorf("empty arrays report lengths %d/%d, want 0/0", fat.Len(), thin.Len())
		}
		if !heaparray.Equal[int](fat, thin) {
			t.Error("two empty arrays are not equal")
		}

		fat.Drop()
		thin.Drop()
	})

	t.Run("EmptyDrain", func(t *testing.T) {
		arr := heaparray.New[string](0, func(int) string { return "" })
		count := 0
		for range arr.Drain() {
			count++
		}
		if count != 0 {
			t.Errorf("drained %d elements from an empty array", count)
		}
	})

	t.Run("SingleElement", func(t *testing.T) {
		arr := heaparray.New[int](1, func(int) int { return 7 })
		defer arr.Drop()

		if got := arr.Insert(0, 8); got != 7 {
			t.Errorf("Insert(0, 8) = %d, want 7", got)
		}
		if got := arr.Get(0); got != 8 {
			t.Errorf("Get(0) = %d, want 8", got)
		}
	})

	t.Run("LargeElements", func(t *testing.T) {
		type big struct {
			pad  [128]byte
			tail int64
		}
		arr := heaparray.NewThin[big](50, func(i int) big {
			return big{tail: int64(i)}
		})
		defer arr.Drop()

		for i := 0; i < 50; i++ {
			if arr.Get(i).tail != int64(i) {
				t.Fatalf("element %d tail = %d, want %d", i, arr.Get(i).tail, i)
			}
		}
	})

	t.Run("OverflowIsRecoverable", func(t *testing.T) {
		before := heaparray.New[int](2, func(i int) int { return i })
		defer before.Drop()

		_, err := heaparray.TryNew[int64](int(^uint(0)>>1), func(int) int64 { return 0 })
		if !errors.Is(err, heaparray.ErrAllocOverflow) {
			t.Errorf("error = %v, want ErrAllocOverflow", err)
		}

		// Existing handles are untouched by the failed construction.
		if before.Get(1) != 1 {
			t.Errorf("existing array disturbed by failed allocation")
		}
	})

	t.Run("LongShareChains", func(t *testing.T) {
		a := heaparray.NewArc[int](4, func(i int) int { return i })
		handles := []heaparray.ArcArray[int]{a}
		for i := 0; i < 100; i++ {
			handles = append(handles, handles[len(handles)-1].Share())
		}
		if got := a.Count(); got != 101 {
			t.Fatalf("count after 100 shares = %d, want 101", got)
		}
		for i := range handles {
			handles[i].Drop()
		}
	})

	t.Run("SharedLabelVisibility", func(t *testing.T) {
		type meta struct{ hits int }
		a := heaparray.NewArcLabelled(meta{}, 1, func(_ *meta, _ int) int { return 0 })
		b := a.Share()

		a.Label().hits = 3
		if b.Label().hits != 3 {
			t.Errorf("share sees label hits = %d, want 3", b.Label().hits)
		}

		a.Drop()
		b.Drop()
	})
}
