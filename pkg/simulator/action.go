package simulator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Op names a simulator action.
type Op string

const (
	OpPush    Op = "push"
	OpPop     Op = "pop"
	OpPeek    Op = "peek"
	OpEnqueue Op = "enqueue"
	OpDequeue Op = "dequeue"
	OpInsert  Op = "insert"
	OpDelete  Op = "delete"
	OpSearch  Op = "search"
	OpExtract Op = "extract"
	OpClear   Op = "clear"
)

// takesValue lists the ops that need an operand.
var takesValue = map[Op]bool{
	OpPush:    true,
	OpEnqueue: true,
	OpInsert:  true,
	OpDelete:  true,
	OpSearch:  true,
}

// Action is one reducer input.
type Action struct {
	Op    Op  `json:"op"`
	Value int `json:"value,omitempty"`
}

func (a Action) String() string {
	if takesValue[a.Op] {
		return fmt.Sprintf("%s %d", a.Op, a.Value)
	}
	return string(a.Op)
}

// Result is what an accepted action produced.
type Result struct {
	Action  Action `json:"action"`
	Value   int    `json:"value,omitempty"`
	Found   bool   `json:"found,omitempty"`
	Message string `json:"message"`
}

// LimitError reports a full bounded structure. It wraps domain.ErrCapacity.
type LimitError struct {
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("maximum %d items reached", e.Limit)
}

func (e *LimitError) Unwrap() error { return domain.ErrCapacity }

// ParseValue validates user-typed operands.
func ParseValue(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < domain.MinValue || v > domain.MaxValue {
		return 0, fmt.Errorf("%w: enter an integer between %d and %d", domain.ErrInvalidInput, domain.MinValue, domain.MaxValue)
	}
	return v, nil
}

// ParseAction reads "push 10", "pop", "search 7" and so on.
func ParseAction(text string) (Action, error) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("%w: empty action", domain.ErrInvalidInput)
	}
	op := Op(fields[0])
	switch op {
	case OpPush, OpEnqueue, OpInsert, OpDelete, OpSearch:
		if len(fields) != 2 {
			return Action{}, fmt.Errorf("%w: %s needs a value", domain.ErrInvalidInput, op)
		}
		v, err := ParseValue(fields[1])
		if err != nil {
			return Action{}, err
		}
		return Action{Op: op, Value: v}, nil
	case OpPop, OpPeek, OpDequeue, OpExtract, OpClear:
		if len(fields) != 1 {
			return Action{}, fmt.Errorf("%w: %s takes no value", domain.ErrInvalidInput, op)
		}
		return Action{Op: op}, nil
	}
	return Action{}, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, fields[0])
}

// Simulator is the common surface of the structures in this package.
type Simulator interface {
	// Name is the structure kind, e.g. "stack".
	Name() string
	// Ops lists the accepted actions.
	Ops() []Op
	Apply(Action) (Result, error)
	// String draws the current contents on one line.
	String() string
}

// Kinds lists the structures New accepts.
func Kinds() []string {
	return []string{"stack", "queue", "hash", "heap", "bst"}
}

// New creates a simulator by kind name. capacity <= 0 selects the default.
func New(kind string, capacity int) (Simulator, error) {
	switch strings.ToLower(kind) {
	case "stack":
		return NewStack(capacity), nil
	case "queue":
		return NewQueue(capacity), nil
	case "hash", "hashtable":
		return NewHashTable(capacity), nil
	case "heap", "minheap":
		return NewMinHeap(capacity), nil
	case "bst", "tree":
		return NewBST(capacity), nil
	}
	return nil, fmt.Errorf("%w: unknown structure %q (want one of %s)", domain.ErrInvalidInput, kind, strings.Join(Kinds(), ", "))
}

func unsupported(name string, a Action) error {
	return fmt.Errorf("%w: %s does not support %s", domain.ErrInvalidInput, name, a.Op)
}

func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func join(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Exec parses text and applies it to sim.
func Exec(sim Simulator, text string) (Result, error) {
	a, err := ParseAction(text)
	if err != nil {
		return Result{}, err
	}
	return sim.Apply(a)
}
