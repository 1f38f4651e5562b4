package algorithms

import (
	"fmt"
	"slices"

	"github.com/aretw0/stepwise/pkg/trace"
)

// HeapBuildTrace heapifies values bottom-up into a min-heap.
// A step is recorded for every sift-down comparison at a node with children.
func HeapBuildTrace(values []int) (*trace.Trace[ArrayState], error) {
	b := trace.NewBuilder(string(HeapBuild), ArrayState.Clone)
	st := ArrayState{Values: slices.Clone(values), Low: -1, High: -1}
	n := len(st.Values)

	if n < 2 {
		b.Record(st, trace.PhaseInit, fmt.Sprintf("%d value(s): nothing to heapify.", n))
	} else {
		b.Record(st, trace.PhaseInit, fmt.Sprintf("Heapify %d values, sifting down from index %d to the root.", n, n/2-1),
			trace.Index(n/2-1, trace.RoleCurrent))
	}
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(b, &st, i, n)
	}
	b.Record(st, trace.PhaseDone, "Every parent is <= its children: the array is a min-heap.", heapRange(n, trace.RoleSorted)...)
	return b.Build()
}

// HeapInsertTrace appends value to a min-heap and sifts it up.
func HeapInsertTrace(heap []int, value int) (*trace.Trace[ArrayState], error) {
	b := trace.NewBuilder(string(HeapInsert), ArrayState.Clone)
	st := ArrayState{Values: slices.Clone(heap), Low: -1, High: -1}
	b.Record(st, trace.PhaseInit, fmt.Sprintf("Min-heap of %d values; insert %d.", len(heap), value))

	st.Values = append(st.Values, value)
	i := len(st.Values) - 1
	b.Record(st, PhaseAppend, fmt.Sprintf("Place %d in the first free leaf, index %d.", value, i),
		trace.Index(i, trace.RoleInserted))

	for i > 0 {
		p := (i - 1) / 2
		if st.Values[p] <= st.Values[i] {
			b.Record(st, PhaseSettle, fmt.Sprintf("Parent %d <= %d: the heap property holds.", st.Values[p], st.Values[i]),
				trace.Index(i, trace.RoleCurrent), trace.Index(p, trace.RoleCompare))
			break
		}
		st.Values[p], st.Values[i] = st.Values[i], st.Values[p]
		b.Record(st, PhaseSwap, fmt.Sprintf("%d < parent %d: swap them.", st.Values[p], st.Values[i]),
			trace.Index(p, trace.RoleSwap), trace.Index(i, trace.RoleSwap))
		i = p
	}

	b.Record(st, trace.PhaseDone, fmt.Sprintf("%d is in place at index %d.", value, i),
		trace.Index(i, trace.RoleInserted))
	return b.Build()
}

// HeapExtractTrace removes the minimum of a min-heap.
// Extracting from an empty heap yields a single terminal step.
func HeapExtractTrace(heap []int) (*trace.Trace[ArrayState], error) {
	b := trace.NewBuilder(string(HeapExtract), ArrayState.Clone)
	st := ArrayState{Values: slices.Clone(heap), Low: -1, High: -1}

	if len(st.Values) == 0 {
		b.Record(st, trace.PhaseDone, "The heap is empty: nothing to extract.")
		return b.Build()
	}
	b.Record(st, trace.PhaseInit, fmt.Sprintf("Extract the minimum %d from the root.", st.Values[0]),
		trace.Index(0, trace.RoleCurrent))

	last := len(st.Values) - 1
	minimum := st.Values[0]
	st.Output = append(st.Output, minimum)
	st.Values[0] = st.Values[last]
	st.Values = st.Values[:last]
	if last > 0 {
		b.Record(st, PhaseRemove, fmt.Sprintf("Remove %d and move the last leaf %d to the root.", minimum, st.Values[0]),
			trace.Index(0, trace.RoleCurrent))
	} else {
		b.Record(st, PhaseRemove, fmt.Sprintf("Remove %d; the heap is now empty.", minimum))
	}

	siftDown(b, &st, 0, len(st.Values))
	b.Record(st, trace.PhaseDone, fmt.Sprintf("Extracted %d; %d value(s) remain in heap order.", minimum, len(st.Values)),
		heapRange(len(st.Values), trace.RoleSorted)...)
	return b.Build()
}

func siftDown(b *trace.Builder[ArrayState], st *ArrayState, i, n int) {
	v := st.Values
	for {
		l, r := 2*i+1, 2*i+2
		if l >= n {
			return
		}
		c := l
		if r < n && v[r] < v[l] {
			c = r
		}
		if v[i] <= v[c] {
			b.Record(*st, PhaseSettle, fmt.Sprintf("%d <= smaller child %d: stop sifting.", v[i], v[c]),
				trace.Index(i, trace.RoleCurrent), trace.Index(c, trace.RoleCompare))
			return
		}
		v[i], v[c] = v[c], v[i]
		b.Record(*st, PhaseSwap, fmt.Sprintf("%d > smaller child %d: swap them.", v[c], v[i]),
			trace.Index(i, trace.RoleSwap), trace.Index(c, trace.RoleSwap))
		i = c
	}
}

func heapRange(n int, role trace.Role) []trace.Highlight {
	hs := make([]trace.Highlight, n)
	for i := range hs {
		hs[i] = trace.Index(i, role)
	}
	return hs
}
