package simulator

import (
	"fmt"
	"slices"

	"github.com/aretw0/stepwise/pkg/domain"
)

// DefaultHeapCapacity is used when NewMinHeap gets a non-positive capacity.
const DefaultHeapCapacity = 15

// MinHeap is a bounded binary min-heap stored in an array.
type MinHeap struct {
	items    []int
	capacity int
}

// NewMinHeap creates an empty heap.
func NewMinHeap(capacity int) *MinHeap {
	return &MinHeap{capacity: orDefault(capacity, DefaultHeapCapacity)}
}

func (h *MinHeap) Name() string { return "heap" }

func (h *MinHeap) Ops() []Op { return []Op{OpInsert, OpExtract, OpPeek, OpClear} }

// Items returns the heap array.
func (h *MinHeap) Items() []int { return slices.Clone(h.items) }

func (h *MinHeap) Apply(a Action) (Result, error) {
	switch a.Op {
	case OpInsert:
		if slices.Contains(h.items, a.Value) {
			return Result{}, fmt.Errorf("insert %d: %w", a.Value, domain.ErrDuplicateValue)
		}
		if len(h.items) == h.capacity {
			return Result{}, fmt.Errorf("insert %d: %w", a.Value, &LimitError{Limit: h.capacity})
		}
		h.items = append(h.items, a.Value)
		i := len(h.items) - 1
		swaps := 0
		for i > 0 {
			p := (i - 1) / 2
			if h.items[p] <= h.items[i] {
				break
			}
			h.items[p], h.items[i] = h.items[i], h.items[p]
			i = p
			swaps++
		}
		return Result{Action: a, Value: a.Value, Message: fmt.Sprintf("inserted %d at index %d after %d swap(s)", a.Value, i, swaps)}, nil
	case OpExtract:
		if len(h.items) == 0 {
			return Result{}, fmt.Errorf("extract: heap is empty: %w", domain.ErrUnderflow)
		}
		v := h.items[0]
		last := len(h.items) - 1
		h.items[0] = h.items[last]
		h.items = h.items[:last]
		for i := 0; ; {
			l, r, c := 2*i+1, 2*i+2, i
			if l < len(h.items) && h.items[l] < h.items[c] {
				c = l
			}
			if r < len(h.items) && h.items[r] < h.items[c] {
				c = r
			}
			if c == i {
				break
			}
			h.items[i], h.items[c] = h.items[c], h.items[i]
			i = c
		}
		return Result{Action: a, Value: v, Found: true, Message: fmt.Sprintf("extracted %d", v)}, nil
	case OpPeek:
		if len(h.items) == 0 {
			return Result{}, fmt.Errorf("peek: heap is empty: %w", domain.ErrUnderflow)
		}
		return Result{Action: a, Value: h.items[0], Found: true, Message: fmt.Sprintf("minimum is %d", h.items[0])}, nil
	case OpClear:
		h.items = nil
		return Result{Action: a, Message: "cleared"}, nil
	}
	return Result{}, unsupported(h.Name(), a)
}

func (h *MinHeap) String() string {
	return fmt.Sprintf("%s size=%d/%d", join(h.items), len(h.items), h.capacity)
}
