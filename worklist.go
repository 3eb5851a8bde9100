package pta

import "github.com/gungnir479/pta/internal/queue"

// workList holds pending propagation deltas in FIFO order. Entries for the
// same pointer are not merged; later propagation computes the true diff, so
// redundant entries degrade into cheap no-ops.
type workList struct {
	entries queue.Queue[workEntry]
}

type workEntry struct {
	ptr Pointer
	pts *PointsToSet
}

// addEntry enqueues a delta for ptr. Empty deltas are dropped: vacuous work
// is never enqueued.
func (w *workList) addEntry(ptr Pointer, pts *PointsToSet) {
	if pts.Empty() {
		return
	}
	w.entries.Push(workEntry{ptr, pts})
}

func (w *workList) pollEntry() workEntry { return w.entries.Pop() }

func (w *workList) isEmpty() bool { return w.entries.Empty() }
