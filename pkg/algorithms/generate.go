package algorithms

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/trace"
)

// Generate validates in and runs the generator of kind.
// The switch is exhaustive over Kind.
func Generate(kind Kind, in Input) (*trace.Trace[any], error) {
	if err := Validate(kind, in); err != nil {
		return nil, err
	}

	switch kind {
	case HeapBuild:
		return erase(HeapBuildTrace(in.Values))
	case HeapInsert:
		return erase(HeapInsertTrace(in.Values, in.Value))
	case HeapExtract:
		return erase(HeapExtractTrace(in.Values))
	case QuicksortPartition:
		return erase(PartitionTrace(in.Values))
	case Quicksort:
		return erase(QuicksortTrace(in.Values))
	case MergeSort:
		return erase(MergeSortTrace(in.Values))
	case BSTInsert:
		return erase(BSTInsertTrace(in.Values, in.Value))
	case BSTSearch:
		return erase(BSTSearchTrace(in.Values, in.Value))
	case BSTTraverse:
		return erase(BSTTraverseTrace(in.Values, in.Order))
	case Dijkstra:
		return erase(DijkstraTrace(*in.Graph, in.Source))
	case BFS:
		return erase(BFSTrace(*in.Graph, in.Source))
	case DFS:
		return erase(DFSTrace(*in.Graph, in.Source))
	case Huffman:
		return erase(HuffmanTrace(in.Symbols))
	case LinearProbing:
		return erase(LinearProbingTrace(in.Values, in.Capacity))
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, kind)
}

// GenerateFixture runs kind on its built-in input.
func GenerateFixture(kind Kind) (*trace.Trace[any], error) {
	return Generate(kind, Fixture(kind))
}

func erase[S any](t *trace.Trace[S], err error) (*trace.Trace[any], error) {
	if err != nil {
		return nil, err
	}
	return trace.Erase(t), nil
}
