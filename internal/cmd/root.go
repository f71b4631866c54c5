package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/log"
	"github.com/anvilbuild/anvil/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "anvil",
	Short: "Manifest-driven build pipeline for multi-project workspaces",
	Long: `anvil runs the build pipeline described by an anvil.yaml manifest.
It discovers the workspace root, wires the built-in tasks (clean, restore,
build, test, cover, pack, publish, ci) into a dependency graph, and executes
the requested tasks in order, running each task at most once and stopping at
the first failure.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return configureLogging(cmd)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// configureLogging builds the process-wide logger from the global flags.
// Explicit --log-level wins over the --verbose and --quiet shortcuts.
func configureLogging(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	cfg := log.DefaultConfig()
	cfg.ServiceVersion = version.Version
	if cmdCtx.Verbose {
		cfg.Level = log.LevelDebug
	}
	if cmdCtx.Quiet {
		cfg.Level = log.LevelWarn
	}
	if cmdCtx.LogLevel != "" {
		cfg.Level = log.ParseLevel(cmdCtx.LogLevel)
	}
	if cmdCtx.LogFormat != "" {
		cfg.Format = log.ParseFormat(cmdCtx.LogFormat)
	}

	log.SetDefaultLogger(log.New(cfg))
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress task progress output")
	rootCmd.PersistentFlags().String("format", "text", "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("manifest", "", "Path to the workspace manifest (discovered upward from the working directory by default)")
}
