package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/cursor"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/render"
)

// ErrInterrupted is returned when a signal arrives at the prompt.
var ErrInterrupted = errors.New("interrupted")

// HelpText lists the commands understood by the loop.
const HelpText = `commands:
  next | n          advance one step
  prev | p          go back one step
  seek <i> | <i>    jump to step index i (0-based, clamped)
  reset | r         go back to the first step
  play              advance automatically until the last step (Ctrl-C stops)
  help | ?          show this help
  quit | q          leave`

// Runner handles the interactive loop over one cursor.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdio.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Renderer draws the text form of each frame. Ignored when Headless.
	Renderer *render.Renderer

	Headless bool

	// OnApply persists navigation, e.g. into a session.
	OnApply func(ctx context.Context, cmd domain.Command) error

	playOpts []playback.Option
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run shows the current step of c and then executes commands until the
// input ends, the user quits or ctx is done.
func (r *Runner) Run(ctx context.Context, kind algorithms.Kind, c *cursor.Cursor[any]) error {
	handler := r.resolveHandler()

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	if err := r.emit(ctx, handler, kind, c); err != nil {
		return err
	}

	for {
		line, err := handler.Input(signals.Context())
		if err != nil {
			signals.CheckRace()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if signals.Interrupted() {
				r.Logger.Debug("Runner input: interrupted")
				return ErrInterrupted
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		word := strings.ToLower(strings.TrimSpace(line))
		switch word {
		case "":
			continue
		case "quit", "q", "exit":
			return nil
		case "help", "h", "?":
			if err := handler.SystemOutput(ctx, HelpText); err != nil {
				return err
			}
			continue
		case "play":
			if err := r.play(ctx, signals, handler, kind, c); err != nil {
				return err
			}
			continue
		}

		cmd, err := domain.ParseCommand(word)
		if err != nil {
			if err := handler.SystemOutput(ctx, err.Error()+" (type help)"); err != nil {
				return err
			}
			continue
		}

		from := c.Index()
		if _, err := c.Apply(cmd); err != nil {
			return err
		}
		r.Logger.Debug("Runner command applied", "command", cmd.String(), "from", from, "to", c.Index())
		if err := r.commit(ctx, cmd); err != nil {
			return err
		}
		if err := r.emit(ctx, handler, kind, c); err != nil {
			return err
		}
	}
}

// play hands the cursor to a Player. A signal stops the run but not the loop.
func (r *Runner) play(ctx context.Context, signals *SignalManager, handler IOHandler, kind algorithms.Kind, c *cursor.Cursor[any]) error {
	var (
		mu      sync.Mutex
		stopped bool
		emitErr error
	)
	finished := make(chan struct{})
	opts := append([]playback.Option{playback.WithLogger(r.Logger)}, r.playOpts...)
	opts = append(opts,
		playback.WithOnAdvance(func(int) {
			mu.Lock()
			defer mu.Unlock()
			if stopped || emitErr != nil {
				return
			}
			emitErr = r.emit(ctx, handler, kind, c)
		}),
		playback.WithOnFinish(func() { close(finished) }),
	)
	player := playback.New(c, opts...)

	from := c.Index()
	err := player.Run(signals.Context())
	if err == nil {
		// The last advance callback runs after the run is marked done.
		<-finished
	}
	mu.Lock()
	stopped = true
	mu.Unlock()

	switch {
	case errors.Is(err, domain.ErrNothingToPlay):
		return handler.SystemOutput(ctx, "already at the last step (type reset)")
	case err != nil && ctx.Err() != nil:
		return ctx.Err()
	case err != nil && signals.Interrupted():
		signals.Reset()
		if err := handler.SystemOutput(ctx, fmt.Sprintf("playback stopped at step %d", c.Index()+1)); err != nil {
			return err
		}
	case err != nil:
		return err
	}
	if emitErr != nil {
		return emitErr
	}
	if c.Index() == from {
		return nil
	}
	return r.commit(ctx, domain.Seek(c.Index()))
}

func (r *Runner) commit(ctx context.Context, cmd domain.Command) error {
	if r.OnApply == nil {
		return nil
	}
	if err := r.OnApply(ctx, cmd); err != nil {
		return fmt.Errorf("critical persistence error: %w", err)
	}
	return nil
}

func (r *Runner) emit(ctx context.Context, handler IOHandler, kind algorithms.Kind, c *cursor.Cursor[any]) error {
	step := c.Current()
	text := ""
	if !r.Headless {
		rend := r.Renderer
		if rend == nil {
			rend = render.New()
		}
		out, err := rend.Step(kind, step, c.Len())
		if err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		text = out
	}
	if err := handler.Output(ctx, NewFrame(kind, step, c.Len(), text)); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	if r.Headless {
		r.Handler = NewJSONHandler(nil, nil)
	} else {
		// Memoize to prevent creating new pumps on subsequent Run calls.
		r.Handler = NewTextHandler(nil, nil)
	}
	return r.Handler
}
