package main

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/aretw0/stepwise/pkg/trace"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace <algorithm>",
	Short: "Generate a trace and export it",
	Long: `Generates the full trace of an algorithm over its fixture input, or over the
input given with --set/--input, and prints it as JSON or YAML.

With --out the trace is written to a file instead; a ".zst" suffix compresses
it with zstd. With --text every step is rendered as in the player.`,
	Example: `  stepwise trace heap-build --set values=4,10,3,5,1,2
  stepwise trace dijkstra --format yaml
  stepwise trace huffman --out huffman.json.zst`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := inputFrom(cmd)
		if err != nil {
			return err
		}
		t, err := app.Engine.Trace(cmd.Context(), args[0], input)
		if err != nil {
			return err
		}

		if text, _ := cmd.Flags().GetBool("text"); text {
			kind := algorithms.Kind(t.Algorithm())
			r := render.New(render.WithOutput(cmd.OutOrStdout()))
			for _, step := range t.Steps() {
				out, err := r.Step(kind, step, t.Len())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		}

		formatFlag, _ := cmd.Flags().GetString("format")
		var format trace.Format
		if formatFlag != "" {
			if format, err = trace.ParseFormat(formatFlag); err != nil {
				return err
			}
		}

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := trace.WriteFile(out, t, format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d steps to %s (fingerprint %s)\n", t.Len(), out, t.Fingerprint())
			return nil
		}
		if format == "" {
			format = trace.FormatJSON
		}
		return trace.Encode(cmd.OutOrStdout(), t, format)
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
	addInputFlags(traceCmd)
	traceCmd.Flags().StringP("out", "o", "", "write to a file (.json, .yaml, optionally .zst)")
	traceCmd.Flags().StringP("format", "f", "", "json or yaml (default: from --out, else json)")
	traceCmd.Flags().Bool("text", false, "render every step as text")
}
