// Package cli implements the fiberflow command-line interface.
//
// This package provides commands for validating program descriptions,
// printing their dependency graphs and computing schedules. The CLI is built
// using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - schedule: Compile a program and print the ordered operations
//   - graph: Print the raw or pruned dependency graph
//   - validate: Check a program description and summarize it
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to commands.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fiberflow/pkg/buildinfo"
	"github.com/matzehuels/fiberflow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "fiberflow"

	formatText = "text"
	formatJSON = "json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Fiberflow orders the operations of a tensor-algebra loop nest",
		Long: `Fiberflow builds the dependency graph between the operations of a
tensor-algebra program (partitioning, swizzling, fiber traversal and loops)
and computes an emission order that honors it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.scheduleCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner logging through the command's logger.
func newRunner(ctx context.Context) *pipeline.Runner {
	return pipeline.NewRunner(loggerFromContext(ctx))
}

// validateFormat checks a --format value.
func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	}
	return errInvalidFlag("format", format, formatText, formatJSON)
}
