package main

import (
	"encoding/json"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the traceable algorithms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		descriptors := app.Engine.Algorithms()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(descriptors)
		}

		tbl := tablewriter.NewWriter(cmd.OutOrStdout())
		tbl.SetHeader([]string{"Algorithm", "Title", "Topic", "Summary"})
		tbl.SetAutoWrapText(false)
		for _, d := range descriptors {
			tbl.Append([]string{string(d.Kind), d.Title, d.Topic, d.Summary})
		}
		tbl.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("json", false, "print JSON instead of a table")
}
