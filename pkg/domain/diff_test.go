package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name      string
		old       *Session
		new       *Session
		wantNil   bool
		wantIndex *int
		wantAlgo  *string
		wantInput map[string]any
	}{
		{
			name:      "Initial Load (Old is Nil)",
			old:       nil,
			new:       &Session{ID: "s1", Algorithm: "heap-build", Index: 0, Input: map[string]any{"values": []int{3, 1}}},
			wantIndex: ptr(0),
			wantAlgo:  ptr("heap-build"),
			wantInput: map[string]any{"values": []int{3, 1}},
		},
		{
			name:    "No Changes",
			old:     &Session{ID: "s1", Algorithm: "heap-build", Index: 2},
			new:     &Session{ID: "s1", Algorithm: "heap-build", Index: 2},
			wantNil: true,
		},
		{
			name:      "Index Moved",
			old:       &Session{ID: "s1", Algorithm: "dijkstra", Index: 2},
			new:       &Session{ID: "s1", Algorithm: "dijkstra", Index: 3},
			wantIndex: ptr(3),
		},
		{
			name:      "Input Replaced",
			old:       &Session{ID: "s1", Algorithm: "bfs", Input: map[string]any{"source": "A"}},
			new:       &Session{ID: "s1", Algorithm: "bfs", Input: map[string]any{"source": "B"}},
			wantInput: map[string]any{"source": "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.new.ID, got.SessionID)
			assert.Equal(t, tt.wantIndex, got.Index)
			assert.Equal(t, tt.wantAlgo, got.Algorithm)
			assert.Equal(t, tt.wantInput, got.Input)
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	diff := Diff(&Session{ID: "s1", Index: 1}, &Session{ID: "s1", Index: 4})
	require.NotNil(t, diff)

	bytes, err := json.Marshal(diff)
	require.NoError(t, err)
	assert.Contains(t, string(bytes), `"index":4`)
	assert.False(t, strings.Contains(string(bytes), `"input"`), "unchanged input must be omitted")
}

func ptr[T any](v T) *T { return &v }
