package algorithms

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Traversal orders accepted by bst-traverse.
const (
	OrderIn    = "in"
	OrderPre   = "pre"
	OrderPost  = "post"
	OrderLevel = "level"
)

// MaxValues caps array inputs so traces stay readable.
const MaxValues = 32

// Symbol is one Huffman alphabet entry.
type Symbol struct {
	Symbol string `json:"symbol" yaml:"symbol" mapstructure:"symbol" validate:"required"`
	Freq   int    `json:"freq" yaml:"freq" mapstructure:"freq" validate:"min=1"`
}

// Input is the union of generator parameters. Each kind reads the fields it
// needs and ignores the rest.
type Input struct {
	Values   []int    `json:"values,omitempty" yaml:"values,omitempty" mapstructure:"values" validate:"max=32,dive,min=1,max=999"`
	Value    int      `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value" validate:"omitempty,min=1,max=999"`
	Order    string   `json:"order,omitempty" yaml:"order,omitempty" mapstructure:"order" validate:"omitempty,oneof=in pre post level"`
	Source   string   `json:"source,omitempty" yaml:"source,omitempty" mapstructure:"source"`
	Graph    *Graph   `json:"graph,omitempty" yaml:"graph,omitempty" mapstructure:"graph"`
	Symbols  []Symbol `json:"symbols,omitempty" yaml:"symbols,omitempty" mapstructure:"symbols" validate:"max=26,dive"`
	Capacity int      `json:"capacity,omitempty" yaml:"capacity,omitempty" mapstructure:"capacity" validate:"omitempty,min=1,max=64"`
}

// InputError reports a rejected generator input. It wraps domain.ErrInvalidInput.
type InputError struct {
	Kind   Kind
	Field  string
	Reason string
	// Err is an extra sentinel to match besides domain.ErrInvalidInput.
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Kind, e.Field, e.Reason)
}

func (e *InputError) Unwrap() []error {
	if e.Err != nil {
		return []error{domain.ErrInvalidInput, e.Err}
	}
	return []error{domain.ErrInvalidInput}
}

func inputErr(kind Kind, field, format string, args ...any) error {
	return &InputError{Kind: kind, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// rangeHint is the message shown for out-of-range or non-numeric values.
var rangeHint = fmt.Sprintf("enter an integer between %d and %d", domain.MinValue, domain.MaxValue)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FixtureGraph is the seven-node weighted graph used by the graph fixtures.
func FixtureGraph() Graph {
	return Graph{
		Nodes: []string{"A", "B", "C", "D", "E", "F", "G"},
		Edges: []Edge{
			{"D", "E", 1},
			{"D", "C", 2},
			{"E", "C", 3},
			{"C", "B", 3},
			{"E", "B", 6},
			{"B", "A", 4},
			{"E", "G", 9},
			{"C", "G", 9},
			{"A", "F", 5},
			{"G", "F", 6},
			{"B", "F", 10},
		},
	}
}

var bstFixture = []int{50, 30, 70, 20, 40, 60, 80}

// Fixture returns the built-in input of kind. The result is a fresh copy.
func Fixture(kind Kind) Input {
	switch kind {
	case HeapBuild:
		return Input{Values: []int{4, 10, 3, 5, 1, 2}}
	case HeapInsert:
		return Input{Values: []int{2, 4, 3, 5, 10, 6}, Value: 1}
	case HeapExtract:
		return Input{Values: []int{1, 4, 2, 5, 10, 3}}
	case QuicksortPartition, Quicksort:
		return Input{Values: []int{37, 22, 81, 63, 19, 53, 47}}
	case MergeSort:
		return Input{Values: []int{38, 27, 43, 3, 9, 82, 10}}
	case BSTInsert:
		return Input{Values: slices.Clone(bstFixture), Value: 65}
	case BSTSearch:
		return Input{Values: slices.Clone(bstFixture), Value: 60}
	case BSTTraverse:
		return Input{Values: slices.Clone(bstFixture), Order: OrderIn}
	case Dijkstra:
		g := FixtureGraph()
		return Input{Graph: &g, Source: "D"}
	case BFS, DFS:
		g := FixtureGraph()
		return Input{Graph: &g, Source: "A"}
	case Huffman:
		return Input{Symbols: []Symbol{
			{"c", 4}, {"b", 10}, {"a", 11}, {"e", 13}, {"d", 17}, {"f", 45},
		}}
	case LinearProbing:
		return Input{Values: []int{18, 41, 22, 44, 59, 32, 31, 73}, Capacity: 13}
	}
	return Input{}
}

// DecodeInput overlays raw parameters (from JSON bodies, MCP arguments or
// CLI --set flags) on the fixture of kind and validates the result.
// Comma separated strings are accepted for lists, and "a:5,b:9" for symbols.
func DecodeInput(kind Kind, raw map[string]any) (Input, error) {
	if _, err := Describe(kind); err != nil {
		return Input{}, err
	}
	in := Fixture(kind)
	if len(raw) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				symbolsHook,
				trimListHook,
				mapstructure.StringToSliceHookFunc(","),
			),
			WeaklyTypedInput: true,
			ZeroFields:       true,
			ErrorUnused:      true,
			Result:           &in,
		})
		if err != nil {
			return Input{}, err
		}
		if err := dec.Decode(raw); err != nil {
			return Input{}, &InputError{Kind: kind, Field: "input", Reason: decodeReason(err)}
		}
	}
	if err := Validate(kind, in); err != nil {
		return Input{}, err
	}
	return in, nil
}

func decodeReason(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "cannot parse") || strings.Contains(msg, "expected type 'int'") {
		return rangeHint
	}
	return msg
}

// trimListHook strips blanks from "4, 10, 3" before it is split.
func trimListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
		return data, nil
	}
	return strings.ReplaceAll(data.(string), " ", ""), nil
}

// symbolsHook accepts "a:5,b:9" strings and symbol->freq maps for []Symbol.
// Maps carry no order, so their entries are sorted by symbol.
func symbolsHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf([]Symbol(nil)) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		var out []map[string]any
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			sym, freq, ok := strings.Cut(part, ":")
			if !ok {
				return nil, fmt.Errorf("symbol %q: want symbol:freq", part)
			}
			out = append(out, map[string]any{"symbol": strings.TrimSpace(sym), "freq": strings.TrimSpace(freq)})
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]map[string]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, map[string]any{"symbol": k, "freq": v[k]})
		}
		return out, nil
	}
	return data, nil
}

// Validate checks in against the needs of kind.
func Validate(kind Kind, in Input) error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := strings.ToLower(fe.Field())
			switch {
			case strings.HasPrefix(field, "values") || field == "value":
				if fe.Tag() == "max" && fe.Kind() == reflect.Slice {
					return inputErr(kind, "values", "at most %d values", MaxValues)
				}
				return inputErr(kind, field, "%s", rangeHint)
			default:
				return inputErr(kind, field, "failed %q check", fe.Tag())
			}
		}
		return inputErr(kind, "input", "%v", err)
	}

	switch kind {
	case HeapInsert, HeapExtract:
		if !isMinHeap(in.Values) {
			return inputErr(kind, "values", "not a min-heap")
		}
		if kind == HeapInsert && in.Value == 0 {
			return inputErr(kind, "value", "%s", rangeHint)
		}
	case BSTInsert, BSTSearch:
		if in.Value == 0 {
			return inputErr(kind, "value", "%s", rangeHint)
		}
		if err := uniqueValues(kind, in.Values); err != nil {
			return err
		}
	case BSTTraverse:
		if in.Order == "" {
			return inputErr(kind, "order", "one of in, pre, post, level")
		}
		if err := uniqueValues(kind, in.Values); err != nil {
			return err
		}
	case Dijkstra, BFS, DFS:
		if in.Graph == nil {
			return inputErr(kind, "graph", "required")
		}
		if !slices.Contains(in.Graph.Nodes, in.Source) {
			return inputErr(kind, "source", "unknown node %q", in.Source)
		}
		seen := make(map[string]bool, len(in.Graph.Nodes))
		for _, n := range in.Graph.Nodes {
			if seen[n] {
				return inputErr(kind, "graph", "duplicate node %q", n)
			}
			seen[n] = true
		}
		for _, e := range in.Graph.Edges {
			if !seen[e.From] || !seen[e.To] {
				return inputErr(kind, "graph", "edge %s-%s references an unknown node", e.From, e.To)
			}
		}
	case Huffman:
		if len(in.Symbols) == 0 {
			return inputErr(kind, "symbols", "at least one symbol")
		}
		seen := make(map[string]bool, len(in.Symbols))
		for _, s := range in.Symbols {
			if seen[s.Symbol] {
				return inputErr(kind, "symbols", "duplicate symbol %q", s.Symbol)
			}
			seen[s.Symbol] = true
		}
	case LinearProbing:
		if in.Capacity == 0 {
			return inputErr(kind, "capacity", "required")
		}
		if len(in.Values) > in.Capacity {
			return inputErr(kind, "values", "maximum %d items reached", in.Capacity)
		}
	}
	return nil
}

// uniqueValues rejects the first repeated value; a BST holds each key once.
func uniqueValues(kind Kind, values []int) error {
	seen := make(map[int]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return &InputError{Kind: kind, Field: "values", Reason: fmt.Sprintf("%d: %v", v, domain.ErrDuplicateValue), Err: domain.ErrDuplicateValue}
		}
		seen[v] = true
	}
	return nil
}

func isMinHeap(a []int) bool {
	for i := 1; i < len(a); i++ {
		if a[(i-1)/2] > a[i] {
			return false
		}
	}
	return true
}

// Params flattens an input back into raw parameters, the inverse of DecodeInput.
// It is used to persist sessions.
func (in Input) Params() map[string]any {
	out := map[string]any{}
	if len(in.Values) > 0 {
		vals := make([]string, len(in.Values))
		for i, v := range in.Values {
			vals[i] = strconv.Itoa(v)
		}
		out["values"] = strings.Join(vals, ",")
	}
	if in.Value != 0 {
		out["value"] = in.Value
	}
	if in.Order != "" {
		out["order"] = in.Order
	}
	if in.Source != "" {
		out["source"] = in.Source
	}
	if in.Graph != nil {
		out["graph"] = in.Graph.Clone()
	}
	if len(in.Symbols) > 0 {
		parts := make([]string, len(in.Symbols))
		for i, s := range in.Symbols {
			parts[i] = fmt.Sprintf("%s:%d", s.Symbol, s.Freq)
		}
		out["symbols"] = strings.Join(parts, ",")
	}
	if in.Capacity != 0 {
		out["capacity"] = in.Capacity
	}
	return out
}
