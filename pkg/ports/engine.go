package ports

import (
	"context"

	"github.com/aretw0/stepwise/pkg/trace"
)

// TraceSource produces the trace of an algorithm for a raw input.
// Implementations must be deterministic: equal arguments yield traces with
// equal fingerprints.
type TraceSource interface {
	Trace(ctx context.Context, algorithm string, input map[string]any) (*trace.Trace[any], error)
}

// TraceSourceFunc adapts a plain function to TraceSource.
type TraceSourceFunc func(ctx context.Context, algorithm string, input map[string]any) (*trace.Trace[any], error)

// Trace calls f.
func (f TraceSourceFunc) Trace(ctx context.Context, algorithm string, input map[string]any) (*trace.Trace[any], error) {
	return f(ctx, algorithm, input)
}
