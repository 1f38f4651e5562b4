package trace

import (
	"errors"
	"fmt"

	"github.com/aretw0/stepwise/pkg/domain"
)

// ErrInvalidTrace is returned when a step sequence breaks the trace invariants.
var ErrInvalidTrace = errors.New("invalid trace")

// Builder accumulates steps for one generator run.
type Builder[S any] struct {
	algorithm string
	clone     func(S) S
	steps     []Step[S]
}

// NewBuilder creates a builder. clone must return a deep, independent copy of a state.
func NewBuilder[S any](algorithm string, clone func(S) S) *Builder[S] {
	return &Builder[S]{
		algorithm: algorithm,
		clone:     clone,
	}
}

// Record snapshots state and appends a step. The state is cloned before it is
// stored, so the caller may keep mutating its working copy.
func (b *Builder[S]) Record(state S, phase Phase, annotation string, highlights ...Highlight) {
	b.steps = append(b.steps, Step[S]{
		Index:      len(b.steps),
		State:      b.clone(state),
		Highlights: normalizeHighlights(highlights),
		Annotation: annotation,
		Phase:      phase,
	})
}

// Len returns the number of steps recorded so far.
func (b *Builder[S]) Len() int { return len(b.steps) }

// Build validates the recorded steps and seals them into a Trace.
// The builder must not be reused afterwards.
func (b *Builder[S]) Build() (*Trace[S], error) {
	if len(b.steps) == 0 {
		return nil, fmt.Errorf("%s: %w", b.algorithm, domain.ErrEmptyTrace)
	}
	if err := validate(b.steps); err != nil {
		return nil, fmt.Errorf("%s: %w", b.algorithm, err)
	}
	fp, err := fingerprint(b.steps)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.algorithm, err)
	}

	steps := b.steps
	b.steps = nil
	return &Trace[S]{
		algorithm:   b.algorithm,
		steps:       steps,
		clone:       b.clone,
		fingerprint: fp,
	}, nil
}

// Validate checks the invariants of an existing trace.
func Validate[S any](t *Trace[S]) error {
	if t == nil || len(t.steps) == 0 {
		return domain.ErrEmptyTrace
	}
	return validate(t.steps)
}

func validate[S any](steps []Step[S]) error {
	phased := false
	for i, s := range steps {
		if s.Index != i {
			return fmt.Errorf("%w: step at position %d has index %d", ErrInvalidTrace, i, s.Index)
		}
		if s.Phase != "" {
			phased = true
		}
	}
	if phased {
		if last := steps[len(steps)-1]; last.Phase != PhaseDone {
			return fmt.Errorf("%w: last step has phase %q, want %q", ErrInvalidTrace, last.Phase, PhaseDone)
		}
	}
	return nil
}
