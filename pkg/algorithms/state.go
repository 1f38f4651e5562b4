package algorithms

import (
	"maps"
	"slices"
)

// ArrayState is the snapshot used by heap, sorting and partition traces.
type ArrayState struct {
	Values []int `json:"values" yaml:"values"`
	// Output collects values produced so far (extracted minimums, merge buffer).
	Output []int `json:"output,omitempty" yaml:"output,omitempty"`
	// Low and High bound the active subrange, inclusive. They are -1 when unused.
	Low  int `json:"low" yaml:"low"`
	High int `json:"high" yaml:"high"`
}

// Clone returns a deep copy.
func (s ArrayState) Clone() ArrayState {
	s.Values = slices.Clone(s.Values)
	s.Output = slices.Clone(s.Output)
	return s
}

// TreeNode is a BST node. Node IDs are the decimal value, which is unique in a set.
type TreeNode struct {
	ID    string `json:"id" yaml:"id"`
	Value int    `json:"value" yaml:"value"`
	Left  string `json:"left,omitempty" yaml:"left,omitempty"`
	Right string `json:"right,omitempty" yaml:"right,omitempty"`
}

// TreeState is the snapshot used by BST traces.
type TreeState struct {
	Root string `json:"root,omitempty" yaml:"root,omitempty"`
	// Nodes are kept in insertion order.
	Nodes []TreeNode `json:"nodes" yaml:"nodes"`
	// Output is the traversal sequence emitted so far.
	Output []int `json:"output,omitempty" yaml:"output,omitempty"`
}

// Clone returns a deep copy.
func (s TreeState) Clone() TreeState {
	s.Nodes = slices.Clone(s.Nodes)
	s.Output = slices.Clone(s.Output)
	return s
}

// Node looks up a node by ID.
func (s TreeState) Node(id string) (TreeNode, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return TreeNode{}, false
}

func (s *TreeState) node(id string) *TreeNode {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

// Edge is a weighted edge between two node IDs.
type Edge struct {
	From   string `json:"from" yaml:"from" mapstructure:"from" validate:"required"`
	To     string `json:"to" yaml:"to" mapstructure:"to" validate:"required"`
	Weight int    `json:"weight" yaml:"weight" mapstructure:"weight" validate:"gte=0"`
}

// Graph is a static graph. Node order is the declaration order used for tie-breaking.
type Graph struct {
	Nodes    []string `json:"nodes" yaml:"nodes" mapstructure:"nodes" validate:"min=1,max=26,dive,required"`
	Edges    []Edge   `json:"edges" yaml:"edges" mapstructure:"edges" validate:"dive"`
	Directed bool     `json:"directed,omitempty" yaml:"directed,omitempty" mapstructure:"directed"`
}

// Clone returns a deep copy.
func (g Graph) Clone() Graph {
	g.Nodes = slices.Clone(g.Nodes)
	g.Edges = slices.Clone(g.Edges)
	return g
}

// Neighbors lists the nodes adjacent to id in declaration order, with the
// weight of the connecting edge.
func (g Graph) Neighbors(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		switch {
		case e.From == id:
			out = append(out, e)
		case !g.Directed && e.To == id:
			out = append(out, Edge{From: id, To: e.From, Weight: e.Weight})
		}
	}
	slices.SortStableFunc(out, func(a, b Edge) int {
		return slices.Index(g.Nodes, a.To) - slices.Index(g.Nodes, b.To)
	})
	return out
}

// EdgeKey orders undirected endpoints by declaration so one edge has one key.
func (g Graph) EdgeKey(from, to string) (string, string) {
	if !g.Directed && slices.Index(g.Nodes, to) < slices.Index(g.Nodes, from) {
		return to, from
	}
	return from, to
}

// GraphState is the snapshot used by graph search traces.
type GraphState struct {
	Graph Graph `json:"graph" yaml:"graph"`
	// Dist holds tentative distances. A missing key means unreachable so far.
	Dist map[string]int `json:"dist,omitempty" yaml:"dist,omitempty"`
	// Prev holds the predecessor on the best known path.
	Prev map[string]string `json:"prev,omitempty" yaml:"prev,omitempty"`
	// Visited lists settled nodes in visit order.
	Visited []string `json:"visited" yaml:"visited"`
	// Frontier is the BFS queue, the DFS stack, or the Dijkstra open set.
	Frontier []string `json:"frontier,omitempty" yaml:"frontier,omitempty"`
}

// Clone returns a deep copy.
func (s GraphState) Clone() GraphState {
	s.Graph = s.Graph.Clone()
	s.Dist = maps.Clone(s.Dist)
	s.Prev = maps.Clone(s.Prev)
	s.Visited = slices.Clone(s.Visited)
	s.Frontier = slices.Clone(s.Frontier)
	return s
}

// HuffmanNode is a leaf (Symbol set) or an internal merge node.
// Left and Right are node IDs, -1 for leaves.
type HuffmanNode struct {
	ID     int    `json:"id" yaml:"id"`
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Freq   int    `json:"freq" yaml:"freq"`
	Left   int    `json:"left" yaml:"left"`
	Right  int    `json:"right" yaml:"right"`
}

// Leaf reports whether the node carries a symbol.
func (n HuffmanNode) Leaf() bool { return n.Left < 0 && n.Right < 0 }

// HuffmanState is the forest being merged. Node IDs are also their position in Nodes.
type HuffmanState struct {
	Nodes []HuffmanNode `json:"nodes" yaml:"nodes"`
	// Queue holds the IDs of the roots still waiting to be merged, in dequeue order.
	Queue []int `json:"queue" yaml:"queue"`
	// Codes is filled once the tree is complete.
	Codes map[string]string `json:"codes,omitempty" yaml:"codes,omitempty"`
}

// Clone returns a deep copy.
func (s HuffmanState) Clone() HuffmanState {
	s.Nodes = slices.Clone(s.Nodes)
	s.Queue = slices.Clone(s.Queue)
	s.Codes = maps.Clone(s.Codes)
	return s
}

// Root returns the ID of the finished tree, or -1 while more than one root is queued.
func (s HuffmanState) Root() int {
	if len(s.Queue) != 1 {
		return -1
	}
	return s.Queue[0]
}

// EmptySlot marks an unused bucket. Keys are always positive.
const EmptySlot = 0

// HashState is the snapshot used by open-addressing traces.
type HashState struct {
	Slots []int `json:"slots" yaml:"slots"`
	// Pending lists the keys not inserted yet.
	Pending []int `json:"pending,omitempty" yaml:"pending,omitempty"`
	// Probes counts the slots examined for the current key.
	Probes int `json:"probes" yaml:"probes"`
}

// Clone returns a deep copy.
func (s HashState) Clone() HashState {
	s.Slots = slices.Clone(s.Slots)
	s.Pending = slices.Clone(s.Pending)
	return s
}
