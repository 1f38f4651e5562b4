package algorithms

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/aretw0/stepwise/pkg/trace"
)

// HuffmanTrace builds a Huffman tree by repeatedly merging the two least
// frequent roots. The last merge is the terminal step and carries the codes.
func HuffmanTrace(symbols []Symbol) (*trace.Trace[HuffmanState], error) {
	if len(symbols) == 0 {
		return nil, inputErr(Huffman, "symbols", "at least one symbol")
	}

	b := trace.NewBuilder(string(Huffman), HuffmanState.Clone)
	var st HuffmanState
	for i, s := range symbols {
		st.Nodes = append(st.Nodes, HuffmanNode{ID: i, Symbol: s.Symbol, Freq: s.Freq, Left: -1, Right: -1})
		st.Queue = append(st.Queue, i)
	}
	// Node IDs grow with creation, so (freq, id) is the insertion-order tie-break.
	order := func() {
		slices.SortStableFunc(st.Queue, func(a, b int) int {
			return cmp.Or(cmp.Compare(st.Nodes[a].Freq, st.Nodes[b].Freq), cmp.Compare(a, b))
		})
	}
	order()

	if len(symbols) == 1 {
		st.Codes = map[string]string{symbols[0].Symbol: "0"}
		b.Record(st, trace.PhaseDone, fmt.Sprintf("A single symbol %q gets the one-bit code 0.", symbols[0].Symbol),
			trace.Node(huffmanID(0), trace.RoleSorted))
		return b.Build()
	}
	b.Record(st, trace.PhaseInit, fmt.Sprintf("Queue %d leaves by frequency.", len(symbols)), queueHighlights(st)...)

	for len(st.Queue) > 1 {
		l, r := st.Queue[0], st.Queue[1]
		st.Queue = st.Queue[2:]
		id := len(st.Nodes)
		st.Nodes = append(st.Nodes, HuffmanNode{
			ID:    id,
			Freq:  st.Nodes[l].Freq + st.Nodes[r].Freq,
			Left:  l,
			Right: r,
		})
		st.Queue = append(st.Queue, id)
		order()

		phase, msg := PhaseMerge, fmt.Sprintf("Merge %s and %s into a node of weight %d.",
			st.label(l), st.label(r), st.Nodes[id].Freq)
		if len(st.Queue) == 1 {
			st.Codes = st.codes()
			phase = trace.PhaseDone
			msg += " One tree remains: read codes off the root, left = 0, right = 1."
		}
		hs := []trace.Highlight{
			trace.Node(huffmanID(id), trace.RoleMerged),
			trace.Node(huffmanID(l), trace.RoleLeft),
			trace.Node(huffmanID(r), trace.RoleRight),
		}
		b.Record(st, phase, msg, append(hs, queueHighlights(st)...)...)
	}
	return b.Build()
}

func huffmanID(id int) string { return strconv.Itoa(id) }

func queueHighlights(st HuffmanState) []trace.Highlight {
	hs := make([]trace.Highlight, len(st.Queue))
	for i, id := range st.Queue {
		hs[i] = trace.Node(huffmanID(id), trace.RoleFrontier)
	}
	return hs
}

func (s HuffmanState) label(id int) string {
	n := s.Nodes[id]
	if n.Leaf() {
		return fmt.Sprintf("%s:%d", n.Symbol, n.Freq)
	}
	return fmt.Sprintf("(%d)", n.Freq)
}

// codes walks the finished tree.
func (s HuffmanState) codes() map[string]string {
	out := map[string]string{}
	var walk func(id int, prefix string)
	walk = func(id int, prefix string) {
		n := s.Nodes[id]
		if n.Leaf() {
			if prefix == "" {
				prefix = "0"
			}
			out[n.Symbol] = prefix
			return
		}
		walk(n.Left, prefix+"0")
		walk(n.Right, prefix+"1")
	}
	if root := s.Root(); root >= 0 {
		walk(root, "")
	}
	return out
}
