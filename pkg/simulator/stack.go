package simulator

import (
	"fmt"
	"slices"

	"github.com/aretw0/stepwise/pkg/domain"
)

// DefaultStackCapacity is used when NewStack gets a non-positive capacity.
const DefaultStackCapacity = 8

// Stack is a fixed-capacity LIFO array.
type Stack struct {
	items    []int
	capacity int
}

// NewStack creates an empty stack.
func NewStack(capacity int) *Stack {
	return &Stack{capacity: orDefault(capacity, DefaultStackCapacity)}
}

func (s *Stack) Name() string { return "stack" }

func (s *Stack) Ops() []Op { return []Op{OpPush, OpPop, OpPeek, OpClear} }

// Top is the index of the top element, -1 when empty.
func (s *Stack) Top() int { return len(s.items) - 1 }

// Items returns the contents bottom to top.
func (s *Stack) Items() []int { return slices.Clone(s.items) }

// Capacity returns the fixed size.
func (s *Stack) Capacity() int { return s.capacity }

func (s *Stack) Apply(a Action) (Result, error) {
	switch a.Op {
	case OpPush:
		if len(s.items) == s.capacity {
			return Result{}, fmt.Errorf("push %d: stack of %d is full: %w", a.Value, s.capacity, domain.ErrOverflow)
		}
		s.items = append(s.items, a.Value)
		return Result{Action: a, Value: a.Value, Message: fmt.Sprintf("pushed %d, top = %d", a.Value, s.Top())}, nil
	case OpPop:
		if len(s.items) == 0 {
			return Result{}, fmt.Errorf("pop: stack is empty: %w", domain.ErrUnderflow)
		}
		v := s.items[len(s.items)-1]
		s.items = s.items[:len(s.items)-1]
		return Result{Action: a, Value: v, Found: true, Message: fmt.Sprintf("popped %d, top = %d", v, s.Top())}, nil
	case OpPeek:
		if len(s.items) == 0 {
			return Result{}, fmt.Errorf("peek: stack is empty: %w", domain.ErrUnderflow)
		}
		v := s.items[len(s.items)-1]
		return Result{Action: a, Value: v, Found: true, Message: fmt.Sprintf("top is %d", v)}, nil
	case OpClear:
		s.items = nil
		return Result{Action: a, Message: "cleared"}, nil
	}
	return Result{}, unsupported(s.Name(), a)
}

func (s *Stack) String() string {
	return fmt.Sprintf("%s top=%d", join(s.items), s.Top())
}
