// Package engine runs publisher's operations.
//
// The engine sits between the CLI and the lower-level packages. A publish
// run moves through fixed states: locate the project root, load the
// manifest and configuration, plan, execute the commands in order, write
// the rewritten manifest into the output directory, and publish.
//
// Key components:
//   - Engine: holds the filesystem, command executor, printer and logger
//   - Publish: the full pipeline
//   - Plan: the pipeline up to planning, for inspection
//   - Init: prepares a project for publisher
package engine

import (
	"github.com/charmbracelet/log"

	"github.com/danieljhkim/publisher/internal/clock"
	"github.com/danieljhkim/publisher/internal/command"
	"github.com/danieljhkim/publisher/internal/console"
	"github.com/danieljhkim/publisher/internal/fsops"
	"github.com/danieljhkim/publisher/internal/logging"
)

// Engine orchestrates publisher operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs       fsops.FS
	executor *command.Executor
	printer  *console.Printer
	logger   *log.Logger
	clock    clock.Clock
}

// New creates a new Engine with the given dependencies. A nil logger
// discards diagnostics.
func New(
	fs fsops.FS,
	runner command.ProcessRunner,
	printer *console.Printer,
	logger *log.Logger,
	clk clock.Clock,
) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{
		fs:       fs,
		executor: command.NewExecutor(runner),
		printer:  printer,
		logger:   logger,
		clock:    clk,
	}
}
