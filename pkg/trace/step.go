package trace

import (
	"slices"
	"strconv"
)

// Phase tags a step with an algorithm-specific stage used to drive styling.
type Phase string

// Phases shared by every generator. Algorithms add their own in between.
const (
	PhaseInit Phase = "init"
	PhaseDone Phase = "done"
)

// HighlightKind tells what kind of identifier a highlight carries.
type HighlightKind string

const (
	HighlightIndex HighlightKind = "index"
	HighlightNode  HighlightKind = "node"
	HighlightEdge  HighlightKind = "edge"
)

// Role is the display meaning of a highlighted element in one step.
type Role string

const (
	RoleCurrent   Role = "current"
	RoleCompare   Role = "compare"
	RoleSwap      Role = "swap"
	RolePivot     Role = "pivot"
	RoleBoundary  Role = "boundary"
	RoleSorted    Role = "sorted"
	RoleLeft      Role = "left"
	RoleRight     Role = "right"
	RoleMerged    Role = "merged"
	RoleVisited   Role = "visited"
	RoleFrontier  Role = "frontier"
	RoleRelaxed   Role = "relaxed"
	RoleFound     Role = "found"
	RoleInserted  Role = "inserted"
	RoleProbe     Role = "probe"
	RoleCollision Role = "collision"
)

// Highlight marks an element the viewer's eye should land on.
type Highlight struct {
	Kind HighlightKind `json:"kind" yaml:"kind"`
	Key  string        `json:"key" yaml:"key"`
	Role Role          `json:"role,omitempty" yaml:"role,omitempty"`
}

// Index highlights an array position.
func Index(i int, role Role) Highlight {
	return Highlight{Kind: HighlightIndex, Key: strconv.Itoa(i), Role: role}
}

// Node highlights a tree or graph node.
func Node(id string, role Role) Highlight {
	return Highlight{Kind: HighlightNode, Key: id, Role: role}
}

// Edge highlights a directed pair; undirected edges should pass endpoints in a fixed order.
func Edge(from, to string, role Role) Highlight {
	return Highlight{Kind: HighlightEdge, Key: from + "->" + to, Role: role}
}

// Step is an immutable snapshot of algorithm state at one point in its execution.
type Step[S any] struct {
	Index      int         `json:"index" yaml:"index"`
	State      S           `json:"state" yaml:"state"`
	Highlights []Highlight `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	Annotation string      `json:"annotation" yaml:"annotation"`
	Phase      Phase       `json:"phase,omitempty" yaml:"phase,omitempty"`
}

// Role reports the role of the highlighted element, if any.
func (s Step[S]) Role(kind HighlightKind, key string) (Role, bool) {
	for _, h := range s.Highlights {
		if h.Kind == kind && h.Key == key {
			return h.Role, true
		}
	}
	return "", false
}

// IndexRole is Role for array positions.
func (s Step[S]) IndexRole(i int) (Role, bool) {
	return s.Role(HighlightIndex, strconv.Itoa(i))
}

// Keys lists the highlighted keys of a kind, in highlight order.
func (s Step[S]) Keys(kind HighlightKind) []string {
	var keys []string
	for _, h := range s.Highlights {
		if h.Kind == kind {
			keys = append(keys, h.Key)
		}
	}
	return keys
}

func (s Step[S]) cloneWith(clone func(S) S) Step[S] {
	s.State = clone(s.State)
	s.Highlights = slices.Clone(s.Highlights)
	return s
}

// normalizeHighlights de-duplicates by (kind, key), keeping the first role
// seen, and preserves insertion order.
func normalizeHighlights(in []Highlight) []Highlight {
	if len(in) == 0 {
		return nil
	}
	type id struct {
		kind HighlightKind
		key  string
	}
	seen := make(map[id]struct{}, len(in))
	out := make([]Highlight, 0, len(in))
	for _, h := range in {
		k := id{h.Kind, h.Key}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, h)
	}
	return out
}
