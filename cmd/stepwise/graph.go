package main

import (
	"fmt"

	"github.com/aretw0/stepwise/internal/presentation/graph"
	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <algorithm>",
	Short: "Export a step as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of one step of a tree, heap, graph or
Huffman trace, with the step's highlights drawn as classes. Defaults to the
last step.`,
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

		index, _ := cmd.Flags().GetInt("index")
		if index < 0 {
			index += t.Len()
		}
		if index < 0 || index >= t.Len() {
			return fmt.Errorf("%w: index must be between 0 and %d", domain.ErrInvalidInput, t.Len()-1)
		}

		output, err := graph.GenerateMermaid(algorithms.Kind(t.Algorithm()), t.At(index))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addInputFlags(graphCmd)
	graphCmd.Flags().Int("index", -1, "step to draw; negative counts from the end")
}
