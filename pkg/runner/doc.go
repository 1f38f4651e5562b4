/*
Package runner implements the interactive step loop used by the CLI.

It is the bridge between a Cursor over a trace and the outside world. The
Runner reads navigation commands through a pluggable IOHandler, applies them
to the cursor and writes a Frame for every step it lands on. The "play"
command hands the cursor to a playback.Player until the run finishes or the
user presses Ctrl-C.

# Key Components

  - Runner: the read/apply/render loop.
  - IOHandler: decouples how frames are shown and commands are read.
  - TextHandler: line-oriented terminal IO with a background input pump.
  - JSONHandler: JSON-Lines IO for scripted or headless use.

# Usage

	r := runner.New(
		runner.WithRenderer(render.New()),
		runner.WithOnApply(func(ctx context.Context, cmd domain.Command) error {
			_, err := mgr.Apply(ctx, sessionID, cmd)
			return err
		}),
	)

	if err := r.Run(ctx, kind, c); err != nil {
		log.Fatal(err)
	}
*/
package runner
