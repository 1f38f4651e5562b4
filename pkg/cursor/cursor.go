// Package cursor implements the step cursor: a clamped position into a
// shared, read-only trace.
package cursor

import (
	"fmt"
	"sync"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/trace"
)

// Cursor holds the current position into a trace.
// It mutates only its own index and never the trace.
// It is safe for concurrent use so a playback timer may drive it, but a
// cursor still has exactly one owning view.
type Cursor[S any] struct {
	mu    sync.Mutex
	trace *trace.Trace[S]
	index int
}

// Option configures a Cursor.
type Option func(*options)

type options struct {
	start int
}

// WithStart positions the new cursor at i, clamped into range.
func WithStart(i int) Option {
	return func(o *options) {
		o.start = i
	}
}

// New binds a cursor to t at index 0 (or WithStart).
func New[S any](t *trace.Trace[S], opts ...Option) (*Cursor[S], error) {
	if t == nil || t.Len() == 0 {
		return nil, fmt.Errorf("cannot bind cursor: %w", domain.ErrEmptyTrace)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Cursor[S]{trace: t}
	c.index = c.clamp(o.start)
	return c, nil
}

func (c *Cursor[S]) clamp(i int) int {
	return max(0, min(i, c.trace.Len()-1))
}

// Next advances one step. At the last step it is a no-op.
// It reports whether the cursor moved.
func (c *Cursor[S]) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index >= c.trace.Len()-1 {
		return false
	}
	c.index++
	return true
}

// Prev moves back one step. At index 0 it is a no-op.
func (c *Cursor[S]) Prev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index <= 0 {
		return false
	}
	c.index--
	return true
}

// Seek jumps to i clamped into [0, Len()-1] and returns the resulting index.
func (c *Cursor[S]) Seek(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = c.clamp(i)
	return c.index
}

// Reset rewinds to the first step.
func (c *Cursor[S]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}

// Apply runs a navigation command, reducer style, and returns the new index.
func (c *Cursor[S]) Apply(cmd domain.Command) (int, error) {
	switch cmd.Type {
	case domain.CommandNext:
		c.Next()
	case domain.CommandPrev:
		c.Prev()
	case domain.CommandReset:
		c.Reset()
	case domain.CommandSeek:
		c.Seek(cmd.Index)
	default:
		return c.Index(), fmt.Errorf("%w: %q", domain.ErrUnknownCommand, cmd.Type)
	}
	return c.Index(), nil
}

// Current returns the step at the cursor. It never fails.
func (c *Cursor[S]) Current() trace.Step[S] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trace.At(c.index)
}

// Index returns the current position.
func (c *Cursor[S]) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Len returns the length of the bound trace.
func (c *Cursor[S]) Len() int { return c.trace.Len() }

// AtEnd reports whether the cursor is on the terminal step.
func (c *Cursor[S]) AtEnd() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index == c.trace.Len()-1
}

// Trace returns the shared trace the cursor is bound to.
func (c *Cursor[S]) Trace() *trace.Trace[S] { return c.trace }
