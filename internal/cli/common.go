package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/publisher/internal/clock"
	"github.com/danieljhkim/publisher/internal/command"
	"github.com/danieljhkim/publisher/internal/console"
	"github.com/danieljhkim/publisher/internal/engine"
	"github.com/danieljhkim/publisher/internal/fsops"
	"github.com/danieljhkim/publisher/internal/logging"
)

// processRunner spawns the pipeline's child processes. Tests replace it.
var processRunner command.ProcessRunner = command.NewOSRunner()

// newEngine creates an engine writing to cmd's output streams.
func newEngine(cmd *cobra.Command) *engine.Engine {
	printer := newPrinter(cmd)
	logger := logging.New(cmd.ErrOrStderr(), verbose)

	return engine.New(fsops.NewRealFS(), processRunner, printer, logger, &clock.RealClock{})
}

// newPrinter creates the console printer for cmd. Color is used only when
// the terminal supports it and --no-color is not set.
func newPrinter(cmd *cobra.Command) *console.Printer {
	return console.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), !noColor && !color.NoColor)
}

// ReportError prints err the way publisher reports every fatal condition.
func ReportError(err error) {
	console.New(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr(), !noColor && !color.NoColor).Error(err.Error())
}
