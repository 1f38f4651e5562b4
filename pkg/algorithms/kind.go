package algorithms

import (
	"fmt"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Kind identifies a trace generator.
type Kind string

const (
	HeapBuild          Kind = "heap-build"
	HeapInsert         Kind = "heap-insert"
	HeapExtract        Kind = "heap-extract"
	QuicksortPartition Kind = "quicksort-partition"
	Quicksort          Kind = "quicksort"
	MergeSort          Kind = "merge-sort"
	BSTInsert          Kind = "bst-insert"
	BSTSearch          Kind = "bst-search"
	BSTTraverse        Kind = "bst-traverse"
	Dijkstra           Kind = "dijkstra"
	BFS                Kind = "bfs"
	DFS                Kind = "dfs"
	Huffman            Kind = "huffman"
	LinearProbing      Kind = "linear-probing"
)

// Descriptor describes a registered generator for listings and APIs.
type Descriptor struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`
	// Topic is the topic kind the algorithm belongs to (topic.Kind).
	Topic string `json:"topic" yaml:"topic"`
}

var descriptors = []Descriptor{
	{HeapBuild, "Build min-heap", "Bottom-up heapify with sift-down from the last internal node.", "heaps"},
	{HeapInsert, "Heap insert", "Append to a min-heap and sift the new value up.", "heaps"},
	{HeapExtract, "Heap extract-min", "Remove the root, move the last leaf up and sift it down.", "heaps"},
	{QuicksortPartition, "Lomuto partition", "One partition pass around the last element.", "sorting"},
	{Quicksort, "Quicksort", "Recursive Lomuto quicksort.", "sorting"},
	{MergeSort, "Merge sort", "Top-down merge sort, one step per merge.", "sorting"},
	{BSTInsert, "BST insert", "Walk down comparing keys and attach a new leaf.", "bst"},
	{BSTSearch, "BST search", "Walk down comparing keys until found or a nil child.", "bst"},
	{BSTTraverse, "BST traversal", "In-, pre-, post- or level-order traversal.", "bst"},
	{Dijkstra, "Dijkstra", "Single-source shortest paths with non-negative weights.", "graphs"},
	{BFS, "Breadth-first search", "Visit nodes level by level using a queue.", "graphs"},
	{DFS, "Depth-first search", "Visit nodes as deep as possible before backtracking.", "graphs"},
	{Huffman, "Huffman coding", "Greedily merge the two least frequent trees.", "greedy"},
	{LinearProbing, "Linear probing", "Open addressing with h(k) = k mod m and step 1.", "hashing"},
}

// Kinds returns every registered kind in listing order.
func Kinds() []Kind {
	out := make([]Kind, len(descriptors))
	for i, d := range descriptors {
		out[i] = d.Kind
	}
	return out
}

// Descriptors returns the registry in listing order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Describe returns the descriptor of kind.
func Describe(kind Kind) (Descriptor, error) {
	for _, d := range descriptors {
		if d.Kind == kind {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, kind)
}

// ParseKind resolves a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, err := Describe(k); err != nil {
		return "", err
	}
	return k, nil
}
