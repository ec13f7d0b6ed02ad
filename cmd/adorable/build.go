package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/adorable"
	"github.com/yacobolo/adorable/internal/fswatch"
	"github.com/yacobolo/adorable/internal/term"
)

var buildCmd = &cobra.Command{
	Use:   "build [root]",
	Short: "Generate the stylesheet once, or continuously with --watch",
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd.Flags())
}

func runBuild(cmd *cobra.Command, args []string) error {
	config := buildConfig(args)
	config.Logger = newLogger(config.Verbose)

	if !config.Watch {
		if _, err := adorable.Build(cmd.Context(), config); err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
		return nil
	}

	matcher, err := adorable.NewMatcher(config)
	if err != nil {
		return err
	}
	source, err := fswatch.New(matcher, config.Logger)
	if err != nil {
		return err
	}
	return adorable.NewWatcher(config, source).Run(cmd.Context())
}

// newLogger returns the diagnostics logger writing to stderr.
func newLogger(verbose bool) *slog.Logger {
	useColors := term.ShouldUseColors(getBoolWithFallback("color", false), os.Stderr)
	return term.NewLogger(os.Stderr, verbose, useColors)
}
