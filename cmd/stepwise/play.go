package main

import (
	"github.com/aretw0/stepwise/internal/cli"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [algorithm]",
	Short: "Step through a trace interactively",
	Long: `Opens the step player. On a terminal this is a full-screen view driven by the
arrow keys and space; otherwise a prompt reads next, prev, seek N, reset and
play commands, one per line.

--save keeps the position in the session store so "play --session ID" can
resume it later. --json reads and writes newline-delimited JSON for scripts.`,
	Example: `  stepwise play dijkstra
  stepwise play heap-build --set values=9,4,7 --save
  stepwise play --session 2f1c... --plain
  echo '{"command":"next"}' | stepwise play bfs --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.PlayOptions{
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
		}
		if len(args) > 0 {
			opts.Algorithm = args[0]
		}
		input, err := inputFrom(cmd)
		if err != nil {
			return err
		}
		opts.Input = input
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Save, _ = cmd.Flags().GetBool("save")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Headless, _ = cmd.Flags().GetBool("headless")
		opts.Plain, _ = cmd.Flags().GetBool("plain")
		opts.Quiet, _ = cmd.Flags().GetBool("quiet")
		opts.Delay, _ = cmd.Flags().GetDuration("delay")

		return cli.Execute(app, opts)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	addInputFlags(playCmd)
	playCmd.Flags().String("session", "", "resume a saved session")
	playCmd.Flags().Bool("save", false, "save the position as a new session")
	playCmd.Flags().Bool("json", false, "NDJSON input/output")
	playCmd.Flags().Bool("headless", false, "no rendering; frames carry only data")
	playCmd.Flags().Bool("plain", false, "line-oriented player even on a terminal")
	playCmd.Flags().BoolP("quiet", "q", false, "no banner or status messages")
	playCmd.Flags().Duration("delay", 0, "playback interval (default: playback.delay)")
}
