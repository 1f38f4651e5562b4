package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/render"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithHeadless skips text rendering; frames carry only structured data.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithRenderer configures the step renderer.
func WithRenderer(renderer *render.Renderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithOnApply is called after every command that moved, or may have moved,
// the cursor. A play run reports itself as a seek to the final index.
// An error stops the loop.
func WithOnApply(fn func(ctx context.Context, cmd domain.Command) error) Option {
	return func(r *Runner) {
		r.OnApply = fn
	}
}

// WithPlayback forwards options to the Player created by "play".
func WithPlayback(opts ...playback.Option) Option {
	return func(r *Runner) {
		r.playOpts = append(r.playOpts, opts...)
	}
}

// WithDelay sets the playback tick interval.
func WithDelay(d time.Duration) Option {
	return WithPlayback(playback.WithDelay(d))
}
