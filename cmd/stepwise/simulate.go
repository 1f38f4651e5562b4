package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/aretw0/stepwise/pkg/simulator"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <structure> [action...]",
	Short: "Apply actions to a bounded data structure",
	Long: `Runs actions against a fresh stack, queue, hash, heap or bst and prints the
structure after each one. Actions come from the arguments, or one per line
from stdin when none are given. A rejected action is reported and the
structure is left unchanged.`,
	Example: `  stepwise simulate stack "push 10" "push 20" "push 30" pop pop
  printf 'enqueue 4\ndequeue\n' | stepwise simulate queue --capacity 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		capacity, _ := cmd.Flags().GetInt("capacity")
		sim, err := simulator.New(args[0], capacity)
		if err != nil {
			return err
		}

		actions := args[1:]
		if len(actions) == 0 {
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}
				actions = append(actions, line)
			}
			if err := sc.Err(); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (ops: %s)\n", sim.Name(), opsOf(sim))
		rejected := 0
		for _, text := range actions {
			res, err := simulator.Exec(sim, text)
			if err != nil {
				rejected++
				fmt.Fprintf(out, "%-12s error: %v\n", text, err)
				continue
			}
			fmt.Fprintf(out, "%-12s %s\n", res.Action, res.Message)
			fmt.Fprintf(out, "%-12s %s\n", "", sim)
		}
		app.Logger.Debug("simulation finished", "structure", sim.Name(), "actions", len(actions), "rejected", rejected)
		return nil
	},
}

func opsOf(sim simulator.Simulator) string {
	ops := sim.Ops()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Int("capacity", 0, "maximum number of items (default depends on the structure)")
}
