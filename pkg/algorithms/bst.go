package algorithms

import (
	"fmt"
	"strconv"

	"github.com/aretw0/stepwise/pkg/trace"
)

// NewTree builds a BST by inserting values in order. Validate rejects
// duplicate values before a generator gets here.
func NewTree(values []int) TreeState {
	var st TreeState
	for _, v := range values {
		st.insert(v)
	}
	return st
}

// insert attaches v and reports whether it was new.
func (s *TreeState) insert(v int) bool {
	id := strconv.Itoa(v)
	if s.Root == "" {
		s.Root = id
		s.Nodes = append(s.Nodes, TreeNode{ID: id, Value: v})
		return true
	}
	cur := s.node(s.Root)
	for {
		switch {
		case v == cur.Value:
			return false
		case v < cur.Value:
			if cur.Left == "" {
				cur.Left = id
				s.Nodes = append(s.Nodes, TreeNode{ID: id, Value: v})
				return true
			}
			cur = s.node(cur.Left)
		default:
			if cur.Right == "" {
				cur.Right = id
				s.Nodes = append(s.Nodes, TreeNode{ID: id, Value: v})
				return true
			}
			cur = s.node(cur.Right)
		}
	}
}

// BSTInsertTrace walks the tree built from values and inserts value.
func BSTInsertTrace(values []int, value int) (*trace.Trace[TreeState], error) {
	b := trace.NewBuilder(string(BSTInsert), TreeState.Clone)
	st := NewTree(values)
	b.Record(st, trace.PhaseInit, fmt.Sprintf("Insert %d into a BST of %d node(s).", value, len(st.Nodes)))

	parent, found := walk(b, st, value)
	id := strconv.Itoa(value)
	switch {
	case found:
		b.Record(st, trace.PhaseDone, fmt.Sprintf("%d already exists; a BST set keeps one copy.", value),
			trace.Node(id, trace.RoleFound))
		return b.Build()
	case parent == "":
		st.insert(value)
		b.Record(st, PhaseInsert, fmt.Sprintf("The tree is empty: %d becomes the root.", value),
			trace.Node(id, trace.RoleInserted))
	default:
		st.insert(value)
		side := "right"
		if p, _ := st.Node(parent); value < p.Value {
			side = "left"
		}
		b.Record(st, PhaseInsert, fmt.Sprintf("Attach %d as the %s child of %s.", value, side, parent),
			trace.Node(id, trace.RoleInserted), trace.Edge(parent, id, trace.RoleInserted))
	}
	b.Record(st, trace.PhaseDone, fmt.Sprintf("%d inserted; the tree has %d nodes.", value, len(st.Nodes)),
		trace.Node(id, trace.RoleInserted))
	return b.Build()
}

// BSTSearchTrace looks value up in the tree built from values.
func BSTSearchTrace(values []int, value int) (*trace.Trace[TreeState], error) {
	b := trace.NewBuilder(string(BSTSearch), TreeState.Clone)
	st := NewTree(values)
	b.Record(st, trace.PhaseInit, fmt.Sprintf("Search for %d starting at the root.", value))

	last, found := walk(b, st, value)
	if found {
		b.Record(st, trace.PhaseDone, fmt.Sprintf("Found %d.", value), trace.Node(strconv.Itoa(value), trace.RoleFound))
	} else if last == "" {
		b.Record(st, trace.PhaseDone, fmt.Sprintf("The tree is empty: %d is not present.", value))
	} else {
		b.Record(st, trace.PhaseDone, fmt.Sprintf("Reached a nil child of %s: %d is not present.", last, value),
			trace.Node(last, trace.RoleCurrent))
	}
	return b.Build()
}

// walk records one compare step per node on the search path. It returns the
// last node visited and whether value was found there.
func walk(b *trace.Builder[TreeState], st TreeState, value int) (string, bool) {
	id := st.Root
	last := ""
	var path []trace.Highlight
	for id != "" {
		n, _ := st.Node(id)
		last = id
		if value == n.Value {
			b.Record(st, PhaseCompare, fmt.Sprintf("%d == %d: match.", value, n.Value),
				append([]trace.Highlight{trace.Node(id, trace.RoleFound)}, path...)...)
			return id, true
		}
		next, dir := n.Right, "right"
		if value < n.Value {
			next, dir = n.Left, "left"
		}
		cmp := ">"
		if dir == "left" {
			cmp = "<"
		}
		b.Record(st, PhaseCompare, fmt.Sprintf("%d %s %d: go %s.", value, cmp, n.Value, dir),
			append([]trace.Highlight{trace.Node(id, trace.RoleCurrent)}, path...)...)
		path = append(path, trace.Node(id, trace.RoleVisited))
		if next != "" {
			path = append(path, trace.Edge(id, next, trace.RoleVisited))
		}
		id = next
	}
	return last, false
}

// BSTTraverseTrace emits the values of the tree built from values in the given order.
func BSTTraverseTrace(values []int, order string) (*trace.Trace[TreeState], error) {
	b := trace.NewBuilder(string(BSTTraverse), TreeState.Clone)
	st := NewTree(values)

	var ids []string
	switch order {
	case OrderIn, OrderPre, OrderPost:
		var rec func(id string)
		rec = func(id string) {
			if id == "" {
				return
			}
			n, _ := st.Node(id)
			if order == OrderPre {
				ids = append(ids, id)
			}
			rec(n.Left)
			if order == OrderIn {
				ids = append(ids, id)
			}
			rec(n.Right)
			if order == OrderPost {
				ids = append(ids, id)
			}
		}
		rec(st.Root)
	case OrderLevel:
		queue := []string{}
		if st.Root != "" {
			queue = append(queue, st.Root)
		}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			ids = append(ids, id)
			n, _ := st.Node(id)
			if n.Left != "" {
				queue = append(queue, n.Left)
			}
			if n.Right != "" {
				queue = append(queue, n.Right)
			}
		}
	default:
		return nil, inputErr(BSTTraverse, "order", "unknown traversal order %q", order)
	}

	b.Record(st, trace.PhaseInit, fmt.Sprintf("Traverse %d node(s) in %s-order.", len(st.Nodes), order))
	var visited []trace.Highlight
	for _, id := range ids {
		n, _ := st.Node(id)
		st.Output = append(st.Output, n.Value)
		b.Record(st, PhaseVisit, fmt.Sprintf("Visit %d; output so far %v.", n.Value, st.Output),
			append([]trace.Highlight{trace.Node(id, trace.RoleCurrent)}, visited...)...)
		visited = append(visited, trace.Node(id, trace.RoleVisited))
	}
	b.Record(st, trace.PhaseDone, fmt.Sprintf("%s-order: %v.", order, st.Output), visited...)
	return b.Build()
}
