package algorithms

import (
	"fmt"
	"slices"

	"github.com/aretw0/stepwise/pkg/trace"
)

// PartitionTrace runs one Lomuto partition over the whole array.
// There is one step per scanned element, one for placing the pivot, and the
// initial and terminal steps.
func PartitionTrace(values []int) (*trace.Trace[ArrayState], error) {
	b := trace.NewBuilder(string(QuicksortPartition), ArrayState.Clone)
	st := ArrayState{Values: slices.Clone(values), Low: 0, High: len(values) - 1}

	if len(values) < 2 {
		b.Record(st, trace.PhaseDone, "Fewer than two values: already partitioned.", heapRange(len(values), trace.RoleSorted)...)
		return b.Build()
	}
	b.Record(st, trace.PhaseInit, fmt.Sprintf("Pivot is the last element, %d; i starts at -1.", values[len(values)-1]),
		trace.Index(len(values)-1, trace.RolePivot))

	p := lomuto(b, &st, 0, len(values)-1)
	b.Record(st, trace.PhaseDone, fmt.Sprintf("Pivot %d sits at index %d: smaller values left, larger right.", st.Values[p], p),
		partitionHighlights(p, 0, len(values)-1)...)
	return b.Build()
}

// QuicksortTrace sorts with recursive Lomuto quicksort.
func QuicksortTrace(values []int) (*trace.Trace[ArrayState], error) {
	b := trace.NewBuilder(string(Quicksort), ArrayState.Clone)
	st := ArrayState{Values: slices.Clone(values), Low: 0, High: len(values) - 1}
	b.Record(st, trace.PhaseInit, fmt.Sprintf("Sort %d values with quicksort.", len(values)))

	var sort func(lo, hi int)
	sort = func(lo, hi int) {
		if lo >= hi {
			return
		}
		st.Low, st.High = lo, hi
		p := lomuto(b, &st, lo, hi)
		sort(lo, p-1)
		sort(p+1, hi)
	}
	sort(0, len(values)-1)

	st.Low, st.High = 0, len(values)-1
	b.Record(st, trace.PhaseDone, "Every pivot is in its final place: the array is sorted.",
		heapRange(len(values), trace.RoleSorted)...)
	return b.Build()
}

// lomuto partitions st.Values[lo..hi] around st.Values[hi] and returns the
// final pivot index.
func lomuto(b *trace.Builder[ArrayState], st *ArrayState, lo, hi int) int {
	v := st.Values
	pivot := v[hi]
	i := lo - 1
	for j := lo; j < hi; j++ {
		if v[j] <= pivot {
			i++
			v[i], v[j] = v[j], v[i]
			b.Record(*st, PhaseSwap, fmt.Sprintf("%d <= pivot %d: advance i to %d and swap positions %d and %d.", v[i], pivot, i, i, j),
				trace.Index(hi, trace.RolePivot), trace.Index(i, trace.RoleSwap), trace.Index(j, trace.RoleSwap))
			continue
		}
		hs := []trace.Highlight{trace.Index(hi, trace.RolePivot), trace.Index(j, trace.RoleCompare)}
		if i >= lo {
			hs = append(hs, trace.Index(i, trace.RoleBoundary))
		}
		b.Record(*st, PhaseScan, fmt.Sprintf("%d > pivot %d: leave it on the right.", v[j], pivot), hs...)
	}
	p := i + 1
	v[p], v[hi] = v[hi], v[p]
	b.Record(*st, PhasePlace, fmt.Sprintf("Swap the pivot %d into index %d.", pivot, p),
		trace.Index(p, trace.RolePivot), trace.Index(hi, trace.RoleSwap))
	return p
}

func partitionHighlights(p, lo, hi int) []trace.Highlight {
	hs := []trace.Highlight{trace.Index(p, trace.RolePivot)}
	for i := lo; i < p; i++ {
		hs = append(hs, trace.Index(i, trace.RoleLeft))
	}
	for i := p + 1; i <= hi; i++ {
		hs = append(hs, trace.Index(i, trace.RoleRight))
	}
	return hs
}

// MergeSortTrace sorts with top-down merge sort, recording one step per merge.
func MergeSortTrace(values []int) (*trace.Trace[ArrayState], error) {
	b := trace.NewBuilder(string(MergeSort), ArrayState.Clone)
	st := ArrayState{Values: slices.Clone(values), Low: 0, High: len(values) - 1}
	b.Record(st, trace.PhaseInit, fmt.Sprintf("Sort %d values with merge sort.", len(values)))

	var sort func(lo, hi int)
	sort = func(lo, hi int) {
		if lo >= hi {
			return
		}
		mid := (lo + hi) / 2
		sort(lo, mid)
		sort(mid+1, hi)

		merged := make([]int, 0, hi-lo+1)
		i, j := lo, mid+1
		for i <= mid && j <= hi {
			if st.Values[i] <= st.Values[j] {
				merged = append(merged, st.Values[i])
				i++
			} else {
				merged = append(merged, st.Values[j])
				j++
			}
		}
		merged = append(merged, st.Values[i:mid+1]...)
		merged = append(merged, st.Values[j:hi+1]...)
		copy(st.Values[lo:hi+1], merged)

		st.Low, st.High = lo, hi
		st.Output = merged
		hs := make([]trace.Highlight, 0, hi-lo+1)
		for k := lo; k <= hi; k++ {
			hs = append(hs, trace.Index(k, trace.RoleMerged))
		}
		b.Record(st, PhaseMerge, fmt.Sprintf("Merge [%d..%d] and [%d..%d] into %v.", lo, mid, mid+1, hi, merged), hs...)
	}
	sort(0, len(values)-1)

	st.Low, st.High = 0, len(values)-1
	st.Output = nil
	b.Record(st, trace.PhaseDone, "All runs merged: the array is sorted.", heapRange(len(values), trace.RoleSorted)...)
	return b.Build()
}
