package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/stepwise/internal/presentation/tui"
	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/cursor"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/aretw0/stepwise/pkg/runner"
	"github.com/aretw0/stepwise/pkg/topic"
)

// playTarget is the cursor being played and where its moves are saved.
type playTarget struct {
	kind      algorithms.Kind
	cursor    *cursor.Cursor[any]
	sessionID string
	onApply   func(ctx context.Context, cmd domain.Command) error
}

// openTarget resumes or creates a session, or builds a throwaway cursor.
func openTarget(ctx context.Context, app *App, opts PlayOptions) (*playTarget, bool, error) {
	if opts.SessionID == "" && !opts.Save {
		kind, err := algorithms.ParseKind(opts.Algorithm)
		if err != nil {
			return nil, false, err
		}
		c, err := app.Engine.Cursor(ctx, opts.Algorithm, opts.Input)
		if err != nil {
			return nil, false, err
		}
		return &playTarget{
			kind:   kind,
			cursor: c,
			onApply: func(ctx context.Context, cmd domain.Command) error {
				app.Logger.Debug("cursor moved", "command", cmd.String(), "index", c.Index())
				return nil
			},
		}, false, nil
	}

	sessions, err := app.Sessions()
	if err != nil {
		return nil, false, err
	}

	loaded := opts.SessionID != ""
	var (
		id string
		c  *cursor.Cursor[any]
		a  string
	)
	if loaded {
		v, err := sessions.Open(ctx, opts.SessionID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to open session: %w", err)
		}
		id, c, a = v.Session.ID, v.Cursor, v.Session.Algorithm
	} else {
		v, err := sessions.Create(ctx, opts.Algorithm, opts.Input)
		if err != nil {
			return nil, false, err
		}
		id, c, a = v.Session.ID, v.Cursor, v.Session.Algorithm
	}

	kind, err := algorithms.ParseKind(a)
	if err != nil {
		return nil, false, err
	}
	return &playTarget{
		kind:      kind,
		cursor:    c,
		sessionID: id,
		onApply: func(ctx context.Context, cmd domain.Command) error {
			_, err := sessions.Apply(ctx, id, cmd)
			return err
		},
	}, loaded, nil
}

// RunSession plays one trace, saving every move when it belongs to a session.
func RunSession(app *App, opts PlayOptions) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	target, loaded, err := openTarget(sigCtx, app, opts)
	if err != nil {
		return err
	}

	quiet := opts.Quiet || opts.JSON || opts.Headless
	if target.sessionID != "" {
		if loaded {
			app.Logger.Info("Session Resumed", "session_id", target.sessionID, "index", target.cursor.Index())
		} else {
			app.Logger.Info("Session Created", "session_id", target.sessionID)
		}
	}

	c := target.cursor
	interactive := !quiet && !opts.Plain && IsTerminal()
	if interactive {
		err = runTUI(sigCtx, app, opts, target)
		return handleExecutionError(err)
	}

	if !quiet {
		tui.PrintBanner(opts.Stdout)
		if loaded {
			printSystemMessage(opts.Stdout, "Resuming session '%s' at step %d.", target.sessionID, c.Index()+1)
		} else if target.sessionID != "" {
			printSystemMessage(opts.Stdout, "Session '%s' active.", target.sessionID)
		}
	}

	r := runner.New(createRunnerOptions(app, opts, target)...)

	// The runner owns SIGINT: it stops a playback run, or ends the loop at the prompt.
	runErr := r.Run(context.Background(), target.kind, c)

	logCompletion(opts.Stdout, c.Index(), c.Len(), runErr, quiet, sigCtx.Signal())
	return handleExecutionError(runErr)
}

// createRunnerOptions prepares the functional options for the Runner.
func createRunnerOptions(app *App, opts PlayOptions, target *playTarget) []runner.Option {
	ropts := []runner.Option{
		runner.WithLogger(app.Logger),
		runner.WithHeadless(opts.Headless || opts.JSON),
		runner.WithOnApply(target.onApply),
		runner.WithDelay(opts.Delay),
		runner.WithPlayback(playback.WithHooks(app.hooks)),
	}

	switch {
	case opts.JSON, opts.Headless:
		ropts = append(ropts, runner.WithInputHandler(runner.NewJSONHandler(opts.Stdin, opts.Stdout)))
	default:
		ropts = append(ropts,
			runner.WithInputHandler(runner.NewTextHandler(opts.Stdin, opts.Stdout)),
			runner.WithRenderer(render.New(render.WithOutput(opts.Stdout))),
		)
	}
	return ropts
}

func runTUI(ctx context.Context, app *App, opts PlayOptions, target *playTarget) error {
	topts := []tui.Option{
		tui.WithOnApply(target.onApply),
		tui.WithPlayback(
			playback.WithDelay(opts.Delay),
			playback.WithHooks(app.hooks),
			playback.WithLogger(app.Logger),
		),
	}
	if catalog, err := app.Catalog(ctx); err == nil {
		if topics := catalog.ForAlgorithm(target.kind); len(topics) > 0 {
			topts = append(topts, tui.WithNotes(topic.Markdown(topics[0]), nil))
		}
	} else {
		app.Logger.Warn("topics unavailable", "err", err)
	}

	m := tui.New(target.kind, target.cursor, topts...)
	return tui.Run(ctx, m)
}
