package main

import (
	"github.com/aretw0/stepwise/internal/cli"
	"github.com/spf13/cobra"
)

// addInputFlags registers --set and --input on cmd.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("set", nil, `override one input field, e.g. --set values=4,10,3 (repeatable)`)
	cmd.Flags().String("input", "", "JSON or YAML file with the algorithm input")
}

// inputFrom reads the flags added by addInputFlags.
func inputFrom(cmd *cobra.Command) (map[string]any, error) {
	sets, _ := cmd.Flags().GetStringArray("set")
	path, _ := cmd.Flags().GetString("input")
	return cli.ParseInput(path, sets)
}
