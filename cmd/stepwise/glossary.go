package main

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/glossary"
	"github.com/spf13/cobra"
)

var glossaryCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Maintain the glossary data file",
}

var glossaryEnrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Merge alias and hierarchy patches into the glossary",
	Long: `Reads the glossary JSON array and one or more patch files keyed by entry id,
sanitizes every alias and hierarchy label, and rewrites the glossary
atomically. Every entry must have a patch; otherwise nothing is written and
the command fails.`,
	Example: `  stepwise glossary enrich --glossary data/glossary.json \
    --patch data/patches-1.json --patch data/patches-2.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		job := glossary.Job{Logger: app.Logger}
		job.Glossary, _ = cmd.Flags().GetString("glossary")
		job.Patches, _ = cmd.Flags().GetStringArray("patch")
		job.Output, _ = cmd.Flags().GetString("out")
		job.DryRun, _ = cmd.Flags().GetBool("dry-run")

		report, err := job.Run(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "entries: %d, aliases: %d, hierarchy labels: %d\n", report.Entries, report.Aliases, report.Hierarchy)
		if report.Written != "" {
			fmt.Fprintf(out, "wrote %s\n", report.Written)
		} else {
			fmt.Fprintln(out, "dry run, nothing written")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(glossaryCmd)
	glossaryCmd.AddCommand(glossaryEnrichCmd)
	glossaryEnrichCmd.Flags().String("glossary", "", "glossary JSON file")
	glossaryEnrichCmd.Flags().StringArray("patch", nil, "patch batch JSON file (repeatable, later wins)")
	glossaryEnrichCmd.Flags().String("out", "", "output file (default: rewrite --glossary)")
	glossaryEnrichCmd.Flags().Bool("dry-run", false, "validate without writing")
	_ = glossaryEnrichCmd.MarkFlagRequired("glossary")
	_ = glossaryEnrichCmd.MarkFlagRequired("patch")
}
