package trace

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"lukechampine.com/blake3"
)

// Trace is an ordered sequence of Steps produced once for a fixed input.
// It is immutable after Build; accessors hand out clones.
type Trace[S any] struct {
	algorithm   string
	steps       []Step[S]
	clone       func(S) S
	fingerprint string
}

// document is the serialized shape of a trace.
type document[S any] struct {
	Algorithm   string    `json:"algorithm" yaml:"algorithm"`
	Fingerprint string    `json:"fingerprint" yaml:"fingerprint"`
	Steps       []Step[S] `json:"steps" yaml:"steps"`
}

// Algorithm returns the name of the generator that produced the trace.
func (t *Trace[S]) Algorithm() string { return t.algorithm }

// Len returns the number of steps. It is always at least 1.
func (t *Trace[S]) Len() int { return len(t.steps) }

// At returns a copy of step i. It panics if i is out of range, like a slice index.
func (t *Trace[S]) At(i int) Step[S] {
	return t.steps[i].cloneWith(t.clone)
}

// First returns the initial step.
func (t *Trace[S]) First() Step[S] { return t.At(0) }

// Last returns the terminal step.
func (t *Trace[S]) Last() Step[S] { return t.At(len(t.steps) - 1) }

// Steps returns copies of every step in order.
func (t *Trace[S]) Steps() []Step[S] {
	out := make([]Step[S], len(t.steps))
	for i, s := range t.steps {
		out[i] = s.cloneWith(t.clone)
	}
	return out
}

// Fingerprint is the hex BLAKE3 digest of the canonical JSON encoding of the steps.
// Two traces with equal fingerprints have identical states, highlights and annotations.
func (t *Trace[S]) Fingerprint() string { return t.fingerprint }

// MarshalJSON implements json.Marshaler.
func (t *Trace[S]) MarshalJSON() ([]byte, error) {
	return json.Marshal(document[S]{
		Algorithm:   t.algorithm,
		Fingerprint: t.fingerprint,
		Steps:       t.steps,
	})
}

// MarshalYAML implements yaml.Marshaler.
func (t *Trace[S]) MarshalYAML() (any, error) {
	return document[S]{
		Algorithm:   t.algorithm,
		Fingerprint: t.fingerprint,
		Steps:       t.Steps(),
	}, nil
}

// Erase converts a typed trace into a trace over `any` states, for registries
// and transports that handle many algorithms. The fingerprint is preserved.
func Erase[S any](t *Trace[S]) *Trace[any] {
	steps := make([]Step[any], len(t.steps))
	for i, s := range t.steps {
		steps[i] = Step[any]{
			Index:      s.Index,
			State:      t.clone(s.State),
			Highlights: s.Highlights,
			Annotation: s.Annotation,
			Phase:      s.Phase,
		}
	}
	return &Trace[any]{
		algorithm:   t.algorithm,
		steps:       steps,
		fingerprint: t.fingerprint,
		clone: func(v any) any {
			if s, ok := v.(S); ok {
				return t.clone(s)
			}
			return v
		},
	}
}

// StateAs extracts the typed state of an erased step.
func StateAs[S any](step Step[any]) (S, error) {
	s, ok := step.State.(S)
	if !ok {
		var zero S
		return zero, fmt.Errorf("step %d: state is %T, not %T", step.Index, step.State, zero)
	}
	return s, nil
}

func fingerprint[S any](steps []Step[S]) (string, error) {
	data, err := json.Marshal(steps)
	if err != nil {
		return "", fmt.Errorf("failed to encode steps: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
