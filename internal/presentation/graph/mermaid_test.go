package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/stepwise/internal/presentation/graph"
	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		kind     algorithms.Kind
		last     bool
		contains []string
	}{
		{
			name: "BST Node Shape",
			kind: algorithms.BSTSearch,
			last: true,
			contains: []string{
				"graph TD",
				"n_50((\"50\"))",
				"n_50 -- \"L\" --> n_30",
				"class n_60 found;",
			},
		},
		{
			name: "Weighted Graph",
			kind: algorithms.Dijkstra,
			contains: []string{
				"graph LR",
				"n_D ---|1| n_E",
				"n_D[\"D <br/> 0\"]",
				"classDef frontier",
			},
		},
		{
			name: "Heap As Tree",
			kind: algorithms.HeapBuild,
			last: true,
			contains: []string{
				"n_0((\"1\"))",
				"n_0 --> n_1",
				"class n_0,n_1,n_2,n_3,n_4,n_5 sorted;",
			},
		},
		{
			name: "Huffman Forest",
			kind: algorithms.Huffman,
			last: true,
			contains: []string{
				"n_5([\"f:45\"])",
				"n_10((\"100\"))",
				"n_10 -- \"0\" --> n_5",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := algorithms.GenerateFixture(tt.kind)
			require.NoError(t, err)
			step := tr.First()
			if tt.last {
				step = tr.Last()
			}
			got, err := graph.GenerateMermaid(tt.kind, step)
			require.NoError(t, err)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_NoGraphView(t *testing.T) {
	tr, err := algorithms.GenerateFixture(algorithms.MergeSort)
	require.NoError(t, err)
	_, err = graph.GenerateMermaid(algorithms.MergeSort, tr.First())
	require.Error(t, err)
}
