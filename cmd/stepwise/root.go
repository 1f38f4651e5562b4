package main

import (
	"fmt"
	"os"

	"github.com/aretw0/stepwise/internal/cli"
	"github.com/aretw0/stepwise/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	v       = config.NewViper()
	app     *cli.App
)

var rootCmd = &cobra.Command{
	Use:   "stepwise",
	Short: "Stepwise traces classic algorithms one step at a time",
	Long: `Stepwise records every step of heaps, sorts, trees, graph searches, Huffman
coding and hashing as a deterministic trace, and lets you play it back in the
terminal, over HTTP or through MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		app, err = cli.NewApp(cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app != nil {
			return app.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bind registers a persistent flag and maps it onto a config key.
func bind(key, name, usage string) {
	rootCmd.PersistentFlags().String(name, "", usage)
	_ = v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./stepwise.yaml or ~/.config/stepwise/stepwise.yaml)")
	bind("log.level", "log-level", "log level: debug, info, warn or error")
	bind("log.format", "log-format", "log format: text or json")
	bind("store.backend", "store", "session store: memory, file, redis or sqlite")
	bind("store.path", "store-path", "session directory or sqlite file")
	bind("topics.dir", "topics", "directory of extra topic files")
}

