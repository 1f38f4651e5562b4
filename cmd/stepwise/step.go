package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/spf13/cobra"
)

var stepCmd = &cobra.Command{
	Use:   "step <algorithm> <index>",
	Short: "Render a single step of a trace",
	Long:  `Renders step <index> (0-based) of the trace. Negative indexes count from the end.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: index must be an integer", domain.ErrInvalidInput)
		}
		input, err := inputFrom(cmd)
		if err != nil {
			return err
		}
		t, err := app.Engine.Trace(cmd.Context(), args[0], input)
		if err != nil {
			return err
		}
		if index < 0 {
			index += t.Len()
		}
		if index < 0 || index >= t.Len() {
			return fmt.Errorf("%w: index must be between 0 and %d", domain.ErrInvalidInput, t.Len()-1)
		}
		step := t.At(index)
		kind := algorithms.Kind(t.Algorithm())

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(step)
		}

		out, err := render.New(render.WithOutput(cmd.OutOrStdout())).Step(kind, step, t.Len())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)

		if chart, _ := cmd.Flags().GetBool("chart"); chart {
			c, err := render.Chart(kind, step, 8)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stepCmd)
	addInputFlags(stepCmd)
	stepCmd.Flags().Bool("json", false, "print the step as JSON")
	stepCmd.Flags().Bool("chart", false, "add a bar chart of array values")
}
