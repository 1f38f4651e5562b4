package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/stepwise/internal/cli"
	"github.com/aretw0/stepwise/internal/presentation/tui"
	"github.com/aretw0/stepwise/pkg/topic"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Browse the study topics",
}

var topicLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List topics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := app.Catalog(cmd.Context())
		if err != nil {
			return err
		}
		kindFilter, _ := cmd.Flags().GetString("kind")

		tbl := tablewriter.NewWriter(cmd.OutOrStdout())
		tbl.SetHeader([]string{"ID", "Title", "Kind", "Difficulty", "Exam", "Algorithms"})
		for _, r := range catalog.List() {
			if kindFilter != "" && string(r.Kind) != kindFilter {
				continue
			}
			algs := make([]string, len(r.Algorithms))
			for i, a := range r.Algorithms {
				algs[i] = string(a)
			}
			tbl.Append([]string{r.ID, r.Title, string(r.Kind), string(r.Difficulty), strings.Repeat("*", r.ExamFrequency), strings.Join(algs, " ")})
		}
		tbl.Render()
		return nil
	},
}

var topicShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render a topic's study notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer := tui.PlainRenderer
		if raw, _ := cmd.Flags().GetBool("raw"); !raw && cli.IsTerminal() {
			renderer = tui.NewRenderer(0)
		}

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			if app.Config.Topics.Dir == "" {
				return fmt.Errorf("--watch needs a topics directory (--topics or topics.dir)")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return cli.RunTopicWatch(ctx, app, cli.WatchOptions{
				Dir:      app.Config.Topics.Dir,
				TopicID:  args[0],
				Renderer: renderer,
				Stdout:   cmd.OutOrStdout(),
			})
		}

		catalog, err := app.Catalog(cmd.Context())
		if err != nil {
			return err
		}
		rec, err := catalog.Get(args[0])
		if err != nil {
			return err
		}
		out, err := renderer(topic.Markdown(rec))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(topicCmd)
	topicCmd.AddCommand(topicLsCmd)
	topicCmd.AddCommand(topicShowCmd)
	topicLsCmd.Flags().String("kind", "", "only topics of this kind")
	topicShowCmd.Flags().Bool("raw", false, "print markdown without styling")
	topicShowCmd.Flags().BoolP("watch", "w", false, "render again when topic files change")
}
