// Package algorithms holds the trace generators for the textbook algorithms
// the tracer can unroll.
//
// Every generator is a pure function of its input: it runs the algorithm to
// completion on a private working copy and records a Step whenever something
// worth seeing happens. Tie-breaking is fixed so that equal inputs always give
// equal traces:
//
//   - heap sift-down swaps with the smaller child, the left one on ties;
//   - quicksort partitions with Lomuto, the pivot being the last element of
//     the active range;
//   - Huffman dequeues equal frequencies in insertion order and makes the
//     first node dequeued the left (bit 0) child;
//   - Dijkstra settles the unvisited node with the strictly smallest
//     distance, ties going to the node declared first, and relaxes only on
//     strict improvement.
//
// Kind is the closed set of generators. Generate dispatches on it and erases
// the state type so callers can handle every algorithm uniformly.
package algorithms
