package cmd

import (
	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/ux"
)

// CommandContext holds the global flag values for one invocation.
// Commands extract it in their RunE instead of reading package-level
// variables, which keeps them testable in isolation.
type CommandContext struct {
	// Output control
	Verbose bool
	Quiet   bool
	Format  string
	NoColor bool

	// Logging
	LogFormat string
	LogLevel  string

	// Workspace
	Manifest string
}

// NewCommandContext extracts the global flags from a cobra command.
// Commands call this in their RunE function:
//
//	func runCommand(cmd *cobra.Command, args []string) error {
//		cmdCtx, err := NewCommandContext(cmd)
//		if err != nil {
//			return err
//		}
//		// Use cmdCtx.Verbose, cmdCtx.Format, etc.
//	}
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return nil, err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	logFormat, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}

	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}

	manifest, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Verbose:   verbose,
		Quiet:     quiet,
		Format:    format,
		NoColor:   noColor,
		LogFormat: logFormat,
		LogLevel:  logLevel,
		Manifest:  manifest,
	}, nil
}

// TextOutput reports whether the selected format is plain text
func (c *CommandContext) TextOutput() bool {
	return c.Format == "" || c.Format == "text"
}

// Formatter builds the output formatter for the selected format,
// honoring --no-color, NO_COLOR, CI detection, and the terminal check
func (c *CommandContext) Formatter(cmd *cobra.Command) (ux.Formatter, error) {
	return ux.NewFormatter(c.Format, &ux.FormatterOptions{
		Writer:  cmd.OutOrStdout(),
		NoColor: !ux.ShouldColor(c.NoColor),
	})
}

// Styles returns the lipgloss style set for the selected color mode
func (c *CommandContext) Styles() ux.Styles {
	return ux.StylesFor(!ux.ShouldColor(c.NoColor))
}
