package domain

import (
	"maps"
	"time"
)

// Session represents a persisted cursor over a reproducible trace.
// Generation is deterministic, so only the algorithm, its input and the
// cursor index are stored; the trace itself is rebuilt on load.
type Session struct {
	// ID identifies the session in the store.
	ID string `json:"id"`

	// Algorithm is the registered algorithm kind (e.g. "heap-build").
	Algorithm string `json:"algorithm"`

	// Input is the raw generator input. Nil means the algorithm's fixture.
	Input map[string]any `json:"input,omitempty"`

	// Index is the cursor position at the time of the last save.
	Index int `json:"index"`

	// Fingerprint of the trace the index refers to.
	// A mismatch on load means the generator changed and the index is reset.
	Fingerprint string `json:"fingerprint,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a session positioned at the first step.
func NewSession(id, algorithm string, input map[string]any) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Algorithm: algorithm,
		Input:     maps.Clone(input),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a copy that does not share the input map.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Input = maps.Clone(s.Input)
	return &next
}
