package render

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/domain"
)

// Layout is the visual shape a step is drawn in.
type Layout string

const (
	LayoutArray  Layout = "array"
	LayoutTree   Layout = "tree"
	LayoutGraph  Layout = "graph"
	LayoutForest Layout = "forest"
	LayoutTable  Layout = "table"
)

// LayoutOf maps every algorithm kind to its layout.
func LayoutOf(kind algorithms.Kind) (Layout, error) {
	switch kind {
	case algorithms.HeapBuild, algorithms.HeapInsert, algorithms.HeapExtract,
		algorithms.QuicksortPartition, algorithms.Quicksort, algorithms.MergeSort:
		return LayoutArray, nil
	case algorithms.BSTInsert, algorithms.BSTSearch, algorithms.BSTTraverse:
		return LayoutTree, nil
	case algorithms.Dijkstra, algorithms.BFS, algorithms.DFS:
		return LayoutGraph, nil
	case algorithms.Huffman:
		return LayoutForest, nil
	case algorithms.LinearProbing:
		return LayoutTable, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, kind)
}

// isHeap reports whether an array layout should also draw heap levels.
func isHeap(kind algorithms.Kind) bool {
	switch kind {
	case algorithms.HeapBuild, algorithms.HeapInsert, algorithms.HeapExtract:
		return true
	}
	return false
}
