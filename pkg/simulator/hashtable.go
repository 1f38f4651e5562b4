package simulator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
)

// DefaultHashSize is used when NewHashTable gets a non-positive size.
const DefaultHashSize = 11

const (
	slotEmpty     = 0
	slotTombstone = -1
)

// HashTable is an open-addressing set with h(k) = k mod m and linear probing.
// Deletion leaves a tombstone so later probes keep walking.
type HashTable struct {
	slots []int
	count int
}

// NewHashTable creates an empty table of size slots.
func NewHashTable(size int) *HashTable {
	return &HashTable{slots: make([]int, orDefault(size, DefaultHashSize))}
}

func (h *HashTable) Name() string { return "hash" }

func (h *HashTable) Ops() []Op { return []Op{OpInsert, OpSearch, OpDelete, OpClear} }

// Slots returns the table; 0 is empty and -1 a tombstone.
func (h *HashTable) Slots() []int {
	out := make([]int, len(h.slots))
	copy(out, h.slots)
	return out
}

// find probes for v. It returns the slot holding v (or -1), the first
// reusable slot seen (or -1), and the number of probes.
func (h *HashTable) find(v int) (at, free, probes int) {
	at, free = -1, -1
	m := len(h.slots)
	for i := 0; i < m; i++ {
		slot := (v%m + i) % m
		probes++
		switch h.slots[slot] {
		case v:
			return slot, free, probes
		case slotEmpty:
			if free < 0 {
				free = slot
			}
			return -1, free, probes
		case slotTombstone:
			if free < 0 {
				free = slot
			}
		}
	}
	return -1, free, probes
}

func (h *HashTable) Apply(a Action) (Result, error) {
	switch a.Op {
	case OpInsert:
		at, free, probes := h.find(a.Value)
		if at >= 0 {
			return Result{}, fmt.Errorf("insert %d: %w", a.Value, domain.ErrDuplicateValue)
		}
		if free < 0 {
			return Result{}, fmt.Errorf("insert %d: %w", a.Value, &LimitError{Limit: len(h.slots)})
		}
		h.slots[free] = a.Value
		h.count++
		return Result{Action: a, Value: free, Message: fmt.Sprintf("stored %d in slot %d after %d probe(s)", a.Value, free, probes)}, nil
	case OpSearch:
		at, _, probes := h.find(a.Value)
		if at < 0 {
			return Result{}, fmt.Errorf("search %d after %d probe(s): %w", a.Value, probes, domain.ErrNotFound)
		}
		return Result{Action: a, Value: at, Found: true, Message: fmt.Sprintf("found %d in slot %d after %d probe(s)", a.Value, at, probes)}, nil
	case OpDelete:
		at, _, _ := h.find(a.Value)
		if at < 0 {
			return Result{}, fmt.Errorf("delete %d: %w", a.Value, domain.ErrNotFound)
		}
		h.slots[at] = slotTombstone
		h.count--
		return Result{Action: a, Value: at, Found: true, Message: fmt.Sprintf("deleted %d from slot %d", a.Value, at)}, nil
	case OpClear:
		clear(h.slots)
		h.count = 0
		return Result{Action: a, Message: "cleared"}, nil
	}
	return Result{}, unsupported(h.Name(), a)
}

func (h *HashTable) String() string {
	parts := make([]string, len(h.slots))
	for i, v := range h.slots {
		switch v {
		case slotEmpty:
			parts[i] = "_"
		case slotTombstone:
			parts[i] = "x"
		default:
			parts[i] = strconv.Itoa(v)
		}
	}
	return fmt.Sprintf("[%s] load=%d/%d", strings.Join(parts, " "), h.count, len(h.slots))
}
