package cli

import (
	"fmt"
	"io"
	"os"
	"time"
)

// PlayOptions contains all the configuration for the play command.
type PlayOptions struct {
	Algorithm string
	Input     map[string]any
	// SessionID resumes a stored session. Algorithm and Input are ignored.
	SessionID string
	// Save persists a new session and prints its id.
	Save     bool
	JSON     bool
	Headless bool
	// Plain forces the line-oriented player even on a terminal.
	Plain bool
	Quiet bool
	Delay time.Duration

	Stdin  io.Reader
	Stdout io.Writer
}

// Execute handles the play command, dispatching to the full-screen player or
// the line-oriented runner.
func Execute(app *App, opts PlayOptions) error {
	if opts.SessionID != "" && opts.Save {
		return fmt.Errorf("--session and --save cannot be used together")
	}
	if opts.SessionID == "" && opts.Algorithm == "" {
		return fmt.Errorf("an algorithm or --session is required")
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Delay <= 0 {
		opts.Delay = app.Config.Playback.Delay
	}
	return RunSession(app, opts)
}
