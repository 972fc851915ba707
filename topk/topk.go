// Package topk provides bounded top-k merging and re-ranking helpers
// for two-phase search: a cheap first phase produces candidates, the
// merge and reorder functions keep the best k under the metric's
// ordering.
package topk

import (
	"container/heap"
	"sort"

	"github.com/hupe1980/kerngo"
)

// Compile time check to ensure boundedHeap satisfies the heap interface.
var _ heap.Interface = (*boundedHeap)(nil)

// boundedHeap keeps the worst of the retained candidates at the root
// so a better incoming candidate replaces it in O(log k). With asc set
// the result order is ascending and the root is the largest retained
// distance.
type boundedHeap struct {
	asc    bool
	dis    []float32
	labels []int64 // nil when labels are not carried
}

func (h *boundedHeap) Len() int { return len(h.dis) }

func (h *boundedHeap) Less(i, j int) bool {
	if h.asc {
		return h.dis[i] > h.dis[j]
	}
	return h.dis[i] < h.dis[j]
}

func (h *boundedHeap) Swap(i, j int) {
	h.dis[i], h.dis[j] = h.dis[j], h.dis[i]
	if h.labels != nil {
		h.labels[i], h.labels[j] = h.labels[j], h.labels[i]
	}
}

// Push and Pop are required by heap.Interface but the merge never
// grows or shrinks the heap; it only replaces the root.
func (h *boundedHeap) Push(any) { panic("topk: bounded heap does not grow") }
func (h *boundedHeap) Pop() any { panic("topk: bounded heap does not shrink") }

// better reports whether a candidate distance beats the current root.
func (h *boundedHeap) better(d float32) bool {
	if h.asc {
		return d < h.dis[0]
	}
	return d > h.dis[0]
}

func (h *boundedHeap) merge(baseDis []float32, baseLabels []int64) {
	if len(h.dis) == 0 {
		return
	}
	heap.Init(h)
	for i, d := range baseDis {
		if !h.better(d) {
			continue
		}
		h.dis[0] = d
		if h.labels != nil {
			h.labels[0] = baseLabels[i]
		}
		heap.Fix(h, 0)
	}
	h.sortInPlace()
}

func (h *boundedHeap) sortInPlace() {
	sort.Sort(&sortAdapter{h})
}

// sortAdapter inverts the heap ordering so sort.Sort leaves the result
// in the final output order.
type sortAdapter struct{ *boundedHeap }

func (s *sortAdapter) Less(i, j int) bool {
	return s.boundedHeap.Less(j, i)
}

// MergeAsc merges base into dis, retaining the len(dis) smallest
// values of both, sorted ascending.
func MergeAsc(dis, base []float32) {
	(&boundedHeap{asc: true, dis: dis}).merge(base, nil)
}

// MergeDesc merges base into dis, retaining the len(dis) largest
// values of both, sorted descending.
func MergeDesc(dis, base []float32) {
	(&boundedHeap{dis: dis}).merge(base, nil)
}

// MergeLabelsAsc merges (baseDis, baseLabels) into (dis, labels),
// retaining the len(dis) smallest distances with their labels, sorted
// ascending.
func MergeLabelsAsc(dis []float32, labels []int64, baseDis []float32, baseLabels []int64) error {
	if err := checkLabeled("MergeLabelsAsc", dis, labels, baseDis, baseLabels); err != nil {
		return err
	}
	(&boundedHeap{asc: true, dis: dis, labels: labels}).merge(baseDis, baseLabels)
	return nil
}

// MergeLabelsDesc merges (baseDis, baseLabels) into (dis, labels),
// retaining the len(dis) largest distances with their labels, sorted
// descending.
func MergeLabelsDesc(dis []float32, labels []int64, baseDis []float32, baseLabels []int64) error {
	if err := checkLabeled("MergeLabelsDesc", dis, labels, baseDis, baseLabels); err != nil {
		return err
	}
	(&boundedHeap{dis: dis, labels: labels}).merge(baseDis, baseLabels)
	return nil
}

func checkLabeled(op string, dis []float32, labels []int64, baseDis []float32, baseLabels []int64) error {
	if dis == nil {
		return &kerngo.PointerError{Op: op, Arg: "dis", Nil: true}
	}
	if labels == nil {
		return &kerngo.PointerError{Op: op, Arg: "labels", Nil: true}
	}
	if len(labels) < len(dis) {
		return &kerngo.PointerError{Op: op, Arg: "labels", Need: len(dis), Got: len(labels)}
	}
	if len(baseLabels) < len(baseDis) {
		return &kerngo.PointerError{Op: op, Arg: "baseLabels", Need: len(baseDis), Got: len(baseLabels)}
	}
	return nil
}

// AdaptAsc sorts (dis, labels) ascending and returns the index of the
// first element greater than target, i.e. the cut point below which
// candidates beat the target distance. Insertion sort keeps the common
// nearly-sorted case cheap. labels may be nil.
func AdaptAsc(dis []float32, labels []int64, target float32) int {
	insertionSort(dis, labels, func(a, b float32) bool { return a < b })
	return sort.Search(len(dis), func(i int) bool { return dis[i] > target })
}

// AdaptDesc sorts (dis, labels) descending and returns the index of
// the first element smaller than target. labels may be nil.
func AdaptDesc(dis []float32, labels []int64, target float32) int {
	insertionSort(dis, labels, func(a, b float32) bool { return a > b })
	return sort.Search(len(dis), func(i int) bool { return dis[i] < target })
}

func insertionSort(dis []float32, labels []int64, before func(a, b float32) bool) {
	for i := 1; i < len(dis); i++ {
		d := dis[i]
		var l int64
		if labels != nil {
			l = labels[i]
		}
		j := i - 1
		for j >= 0 && before(d, dis[j]) {
			dis[j+1] = dis[j]
			if labels != nil {
				labels[j+1] = labels[j]
			}
			j--
		}
		dis[j+1] = d
		if labels != nil {
			labels[j+1] = l
		}
	}
}
