package heaparray

import "testing"

// trackAllocs installs a counting allocator for the duration of the test and
// returns it, so tests can assert on leaks and double frees.
func trackAllocs(t *testing.T) *StatsAllocator {
	t.Helper()
	stats := NewStatsAllocator(nil)
	prev := SetAllocator(stats)
	t.Cleanup(func() { SetAllocator(prev) })
	return stats
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

// dropRec records its id into a shared log when finalized.
type dropRec struct {
	id  int
	log *[]int
}

func (d *dropRec) Drop() {
	*d.log = append(*d.log, d.id)
}

// labelRec is a droppable label; logs labelID on finalization.
type labelRec struct {
	log *[]int
}

const labelID = -1

func (l *labelRec) Drop() {
	*l.log = append(*l.log, labelID)
}

func checkLeakFree(t *testing.T, stats *StatsAllocator) {
	t.Helper()
	s := stats.Stats()
	if s.Live != 0 {
		t.Errorf("leaked %d blocks (%d bytes in use)", s.Live, s.InUse)
	}
	if s.Deallocs > s.Allocs {
		t.Errorf("more deallocs (%d) than allocs (%d)", s.Deallocs, s.Allocs)
	}
}
