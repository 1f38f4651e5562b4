package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/stepwise/internal/cli"
	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [algorithm...]",
	Short: "Check that every fixture trace is valid and deterministic",
	Long: `Generates each fixture twice in parallel, renders every step and compares the
two runs. A mismatch prints a unified diff of the renders. Exits non-zero when
any algorithm fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := make([]algorithms.Kind, 0, len(args))
		for _, a := range args {
			k, err := algorithms.ParseKind(a)
			if err != nil {
				return err
			}
			kinds = append(kinds, k)
		}
		parallel, _ := cmd.Flags().GetInt("parallel")

		results, err := cli.Verify(cmd.Context(), kinds, parallel)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		tbl := tablewriter.NewWriter(out)
		tbl.SetHeader([]string{"Algorithm", "Steps", "Fingerprint", "Result"})
		failed := 0
		for _, r := range results {
			status := "ok"
			if !r.OK() {
				status = "FAIL"
				failed++
			}
			fp := r.Fingerprint
			if len(fp) > 16 {
				fp = fp[:16]
			}
			tbl.Append([]string{string(r.Algorithm), strconv.Itoa(r.Steps), fp, status})
		}
		tbl.Render()

		for _, r := range results {
			for _, p := range r.Problems {
				fmt.Fprintf(out, "%s: %s\n", r.Algorithm, p)
			}
			if r.Diff != "" {
				fmt.Fprintln(out, r.Diff)
			}
		}
		if failed > 0 {
			return errors.New(strconv.Itoa(failed) + " algorithm(s) failed verification")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().IntP("parallel", "j", 0, "workers (default: GOMAXPROCS)")
}
