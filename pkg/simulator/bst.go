package simulator

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/domain"
)

// DefaultBSTCapacity is used when NewBST gets a non-positive capacity.
const DefaultBSTCapacity = 15

type bstNode struct {
	value       int
	left, right *bstNode
}

// BST is a binary search tree set with a node limit.
type BST struct {
	root     *bstNode
	size     int
	capacity int
}

// NewBST creates an empty tree.
func NewBST(capacity int) *BST {
	return &BST{capacity: orDefault(capacity, DefaultBSTCapacity)}
}

func (t *BST) Name() string { return "bst" }

func (t *BST) Ops() []Op { return []Op{OpInsert, OpSearch, OpDelete, OpClear} }

// InOrder returns the values in ascending order.
func (t *BST) InOrder() []int {
	var out []int
	var walk func(n *bstNode)
	walk = func(n *bstNode) {
		if n == nil {
			return
		}
		walk(n.left)
		out = append(out, n.value)
		walk(n.right)
	}
	walk(t.root)
	return out
}

// PreOrder returns the values root first. Inserting them in this order
// rebuilds the same shape.
func (t *BST) PreOrder() []int {
	var out []int
	var walk func(n *bstNode)
	walk = func(n *bstNode) {
		if n == nil {
			return
		}
		out = append(out, n.value)
		walk(n.left)
		walk(n.right)
	}
	walk(t.root)
	return out
}

// Tree converts the set into the node layout the renderers draw.
func (t *BST) Tree() algorithms.TreeState {
	return algorithms.NewTree(t.PreOrder())
}

// search returns the depth walked and whether v is present.
func (t *BST) search(v int) (int, bool) {
	depth := 0
	for n := t.root; n != nil; depth++ {
		switch {
		case v == n.value:
			return depth, true
		case v < n.value:
			n = n.left
		default:
			n = n.right
		}
	}
	return depth, false
}

func (t *BST) Apply(a Action) (Result, error) {
	switch a.Op {
	case OpInsert:
		if depth, ok := t.search(a.Value); ok {
			return Result{}, fmt.Errorf("insert %d (depth %d): %w", a.Value, depth, domain.ErrDuplicateValue)
		}
		if t.size == t.capacity {
			return Result{}, fmt.Errorf("insert %d: %w", a.Value, &LimitError{Limit: t.capacity})
		}
		link := &t.root
		depth := 0
		for *link != nil {
			if a.Value < (*link).value {
				link = &(*link).left
			} else {
				link = &(*link).right
			}
			depth++
		}
		*link = &bstNode{value: a.Value}
		t.size++
		return Result{Action: a, Value: a.Value, Message: fmt.Sprintf("inserted %d at depth %d", a.Value, depth)}, nil
	case OpSearch:
		depth, ok := t.search(a.Value)
		if !ok {
			return Result{}, fmt.Errorf("search %d: %w", a.Value, domain.ErrNotFound)
		}
		return Result{Action: a, Value: a.Value, Found: true, Message: fmt.Sprintf("found %d at depth %d", a.Value, depth)}, nil
	case OpDelete:
		if _, ok := t.search(a.Value); !ok {
			return Result{}, fmt.Errorf("delete %d: %w", a.Value, domain.ErrNotFound)
		}
		t.root = remove(t.root, a.Value)
		t.size--
		return Result{Action: a, Value: a.Value, Found: true, Message: fmt.Sprintf("deleted %d", a.Value)}, nil
	case OpClear:
		t.root, t.size = nil, 0
		return Result{Action: a, Message: "cleared"}, nil
	}
	return Result{}, unsupported(t.Name(), a)
}

// remove deletes v, replacing a node with two children by its in-order successor.
func remove(n *bstNode, v int) *bstNode {
	switch {
	case n == nil:
		return nil
	case v < n.value:
		n.left = remove(n.left, v)
	case v > n.value:
		n.right = remove(n.right, v)
	case n.left == nil:
		return n.right
	case n.right == nil:
		return n.left
	default:
		succ := n.right
		for succ.left != nil {
			succ = succ.left
		}
		n.value = succ.value
		n.right = remove(n.right, succ.value)
	}
	return n
}

func (t *BST) String() string {
	return fmt.Sprintf("inorder=%s size=%d/%d", join(t.InOrder()), t.size, t.capacity)
}
