package topic

import "github.com/aretw0/stepwise/pkg/algorithms"

// Builtin returns the bundled topic records in catalog order.
func Builtin() []Record {
	return []Record{
		{
			ID:            "heaps",
			Title:         "Binary heaps",
			Kind:          KindHeaps,
			Difficulty:    Intermediate,
			ExamFrequency: 5,
			KeyPoints: []string{
				"A min-heap is a complete binary tree where every parent is <= its children.",
				"Stored in an array: children of i are 2i+1 and 2i+2, parent is (i-1)/2.",
				"Bottom-up build sifts down from the last internal node and runs in O(n).",
				"Insert appends a leaf and sifts up; extract-min moves the last leaf to the root and sifts down.",
			},
			Algorithms: []algorithms.Kind{algorithms.HeapBuild, algorithms.HeapInsert, algorithms.HeapExtract},
			ComplexityTable: []ComplexityRow{
				{Operation: "build", Worst: "O(n)", Space: "O(1)"},
				{Operation: "insert", Average: "O(1)", Worst: "O(log n)"},
				{Operation: "extract-min", Worst: "O(log n)"},
				{Operation: "peek", Worst: "O(1)"},
			},
			CodeExample: &CodeExample{
				Language: "go",
				Code: `func siftDown(a []int, i, n int) {
	for {
		l, r, m := 2*i+1, 2*i+2, i
		if l < n && a[l] < a[m] {
			m = l
		}
		if r < n && a[r] < a[m] {
			m = r
		}
		if m == i {
			return
		}
		a[i], a[m] = a[m], a[i]
		i = m
	}
}`,
			},
			CommonPitfalls: []string{
				"Building by n inserts is O(n log n), not O(n).",
				"When both children are equal, pick the left one to keep traces deterministic.",
			},
		},
		{
			ID:            "sorting",
			Title:         "Comparison sorting",
			Kind:          KindSorting,
			Difficulty:    Intermediate,
			ExamFrequency: 5,
			KeyPoints: []string{
				"Lomuto partition uses the last element as pivot and grows the <= region from the left.",
				"Quicksort is O(n log n) on average but O(n^2) on sorted input with a last-element pivot.",
				"Merge sort is stable and always O(n log n), at the cost of O(n) extra space.",
			},
			Algorithms: []algorithms.Kind{algorithms.QuicksortPartition, algorithms.Quicksort, algorithms.MergeSort},
			ComplexityTable: []ComplexityRow{
				{Operation: "quicksort", Best: "O(n log n)", Average: "O(n log n)", Worst: "O(n^2)", Space: "O(log n)"},
				{Operation: "merge sort", Best: "O(n log n)", Average: "O(n log n)", Worst: "O(n log n)", Space: "O(n)"},
			},
			CommonPitfalls: []string{
				"Off-by-one on i: Lomuto starts it at low-1.",
				"Quicksort is not stable.",
			},
		},
		{
			ID:            "bst",
			Title:         "Binary search trees",
			Kind:          KindBST,
			Difficulty:    Basic,
			ExamFrequency: 4,
			KeyPoints: []string{
				"Every key in the left subtree is smaller and every key in the right subtree is larger.",
				"In-order traversal of a BST yields its keys in ascending order.",
				"Search and insert follow one root-to-leaf path, so they cost O(h).",
			},
			Algorithms: []algorithms.Kind{algorithms.BSTInsert, algorithms.BSTSearch, algorithms.BSTTraverse},
			ComplexityTable: []ComplexityRow{
				{Operation: "search", Average: "O(log n)", Worst: "O(n)"},
				{Operation: "insert", Average: "O(log n)", Worst: "O(n)"},
				{Operation: "traversal", Worst: "O(n)"},
			},
			CommonPitfalls: []string{
				"Inserting sorted keys degenerates the tree into a list.",
				"Pre-order is root-left-right, post-order is left-right-root.",
			},
		},
		{
			ID:            "graphs",
			Title:         "Graph search and shortest paths",
			Kind:          KindGraphs,
			Difficulty:    Advanced,
			ExamFrequency: 5,
			KeyPoints: []string{
				"BFS uses a queue and finds fewest-edge paths in unweighted graphs.",
				"DFS uses a stack (or recursion) and explores one branch to the end before backtracking.",
				"Dijkstra repeatedly settles the unvisited node with the smallest tentative distance.",
				"Dijkstra requires non-negative edge weights.",
			},
			Algorithms: []algorithms.Kind{algorithms.BFS, algorithms.DFS, algorithms.Dijkstra},
			ComplexityTable: []ComplexityRow{
				{Operation: "BFS / DFS", Worst: "O(V + E)", Space: "O(V)"},
				{Operation: "Dijkstra (binary heap)", Worst: "O((V + E) log V)", Space: "O(V)"},
			},
			CommonPitfalls: []string{
				"Relax only on strict improvement, or equal-length paths overwrite prev.",
				"Mark nodes visited when they are dequeued in Dijkstra, not when first seen.",
			},
		},
		{
			ID:            "huffman",
			Title:         "Huffman coding",
			Kind:          KindGreedy,
			Difficulty:    Intermediate,
			ExamFrequency: 3,
			KeyPoints: []string{
				"Greedy: always merge the two trees with the smallest frequencies.",
				"The first tree taken becomes the left child (bit 0).",
				"Frequent symbols get short codes; no code is a prefix of another.",
			},
			Algorithms: []algorithms.Kind{algorithms.Huffman},
			ComplexityTable: []ComplexityRow{
				{Operation: "build", Worst: "O(n log n)", Space: "O(n)"},
			},
			CommonPitfalls: []string{
				"Ties must be broken consistently or codes differ between runs.",
			},
		},
		{
			ID:            "hashing",
			Title:         "Hash tables with linear probing",
			Kind:          KindHashing,
			Difficulty:    Basic,
			ExamFrequency: 4,
			KeyPoints: []string{
				"h(k) = k mod m picks the home slot.",
				"On collision, linear probing tries the next slot, wrapping around.",
				"Deleting needs tombstones so later probes do not stop early.",
			},
			Algorithms: []algorithms.Kind{algorithms.LinearProbing},
			ComplexityTable: []ComplexityRow{
				{Operation: "insert / search", Average: "O(1)", Worst: "O(n)"},
			},
			CommonPitfalls: []string{
				"Primary clustering grows long runs as the load factor rises.",
				"A prime table size spreads keys better with mod hashing.",
			},
		},
		{
			ID:            "stacks-queues",
			Title:         "Stacks and queues",
			Kind:          KindLinear,
			Difficulty:    Basic,
			ExamFrequency: 3,
			KeyPoints: []string{
				"A stack is LIFO: push and pop happen at the top.",
				"A queue is FIFO: enqueue at the rear, dequeue at the front.",
				"A circular array queue wraps front and rear with mod capacity.",
			},
			ComplexityTable: []ComplexityRow{
				{Operation: "push / pop", Worst: "O(1)"},
				{Operation: "enqueue / dequeue", Worst: "O(1)"},
			},
			CommonPitfalls: []string{
				"Check for underflow before pop or dequeue.",
				"A full circular queue and an empty one look alike unless you keep a count.",
			},
		},
	}
}
