package runner

import (
	"context"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/trace"
)

// Frame is everything a view needs to show one step.
type Frame struct {
	Algorithm  string            `json:"algorithm"`
	Index      int               `json:"index"`
	Total      int               `json:"total"`
	Phase      trace.Phase       `json:"phase,omitempty"`
	Annotation string            `json:"annotation"`
	State      any               `json:"state"`
	Highlights []trace.Highlight `json:"highlights,omitempty"`
	// Text is the pre-rendered terminal form. Empty in headless mode.
	Text string `json:"text,omitempty"`
}

// NewFrame captures step of a trace of length total.
func NewFrame(kind algorithms.Kind, step trace.Step[any], total int, text string) Frame {
	return Frame{
		Algorithm:  string(kind),
		Index:      step.Index,
		Total:      total,
		Phase:      step.Phase,
		Annotation: step.Annotation,
		State:      step.State,
		Highlights: step.Highlights,
		Text:       text,
	}
}

// Last reports whether the frame shows the final step.
func (f Frame) Last() bool { return f.Index == f.Total-1 }

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI) and JSON (structured) modes.
type IOHandler interface {
	// Output presents a step to the user.
	Output(ctx context.Context, frame Frame) error

	// Input reads the next command line. It returns io.EOF when the
	// input is exhausted and ctx.Err() when ctx is done first.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (help, errors, status) that is
	// distinct from step rendering.
	SystemOutput(ctx context.Context, msg string) error
}
