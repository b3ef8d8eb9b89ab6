package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// logger is built once in the root PersistentPreRun and handed to the
// components that want one.
var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "mdadump",
	Short: "Inspect synApps MDA scan files",
	Long: `mdadump decodes the binary synApps MDA scan-recording format and
prints its contents: file headers, scan trees, recorded data shapes, and
the extra process variables captured alongside a scan.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

// Execute runs the command tree; called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
