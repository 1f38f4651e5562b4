package render

import (
	"io"

	"github.com/aretw0/stepwise/pkg/trace"
	"github.com/muesli/termenv"
)

// roleColors maps roles to foreground colors for color profiles.
var roleColors = map[trace.Role]string{
	trace.RoleCurrent:   "#facc15",
	trace.RoleCompare:   "#60a5fa",
	trace.RoleSwap:      "#f87171",
	trace.RolePivot:     "#c084fc",
	trace.RoleBoundary:  "#fb923c",
	trace.RoleSorted:    "#4ade80",
	trace.RoleLeft:      "#38bdf8",
	trace.RoleRight:     "#f472b6",
	trace.RoleMerged:    "#2dd4bf",
	trace.RoleVisited:   "#94a3b8",
	trace.RoleFrontier:  "#818cf8",
	trace.RoleRelaxed:   "#a3e635",
	trace.RoleFound:     "#4ade80",
	trace.RoleInserted:  "#22d3ee",
	trace.RoleProbe:     "#fbbf24",
	trace.RoleCollision: "#ef4444",
}

// roleMarks are the one-character markers used under array cells.
var roleMarks = map[trace.Role]string{
	trace.RoleCurrent:   "^",
	trace.RoleCompare:   "c",
	trace.RoleSwap:      "s",
	trace.RolePivot:     "P",
	trace.RoleBoundary:  "i",
	trace.RoleSorted:    "=",
	trace.RoleLeft:      "<",
	trace.RoleRight:     ">",
	trace.RoleMerged:    "m",
	trace.RoleVisited:   "v",
	trace.RoleFrontier:  "f",
	trace.RoleRelaxed:   "r",
	trace.RoleFound:     "!",
	trace.RoleInserted:  "+",
	trace.RoleProbe:     "?",
	trace.RoleCollision: "x",
}

// Mark returns the single-character marker of role, or a space.
func Mark(role trace.Role) string {
	if m, ok := roleMarks[role]; ok {
		return m
	}
	return " "
}

// Renderer draws steps. The zero value is not usable; call New.
type Renderer struct {
	profile termenv.Profile
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithProfile forces a color profile. termenv.Ascii disables styling.
func WithProfile(p termenv.Profile) Option {
	return func(r *Renderer) {
		r.profile = p
	}
}

// WithOutput detects the color profile of w (a terminal or a pipe).
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		r.profile = termenv.NewOutput(w).Profile
	}
}

// New creates a renderer. Without options it emits plain text.
func New(opts ...Option) *Renderer {
	r := &Renderer{profile: termenv.Ascii}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Plain reports whether the renderer emits no escape sequences.
func (r *Renderer) Plain() bool { return r.profile == termenv.Ascii }

// paint colors text by role. Plain profiles return text unchanged.
func (r *Renderer) paint(text string, role trace.Role) string {
	c, ok := roleColors[role]
	if !ok || r.Plain() {
		return text
	}
	s := r.profile.String(text).Foreground(r.profile.Color(c))
	if role == trace.RoleCurrent || role == trace.RolePivot {
		s = s.Bold()
	}
	return s.String()
}

func (r *Renderer) bold(text string) string {
	if r.Plain() {
		return text
	}
	return r.profile.String(text).Bold().String()
}
