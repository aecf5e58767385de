package engine

import (
	"time"

	"github.com/danieljhkim/publisher/internal/command"
	"github.com/danieljhkim/publisher/internal/config"
	"github.com/danieljhkim/publisher/internal/manifest"
	"github.com/danieljhkim/publisher/internal/planner"
)

// CommandRun records one executed command.
type CommandRun struct {
	Command  command.Command
	Duration time.Duration
}

// PublishResult represents the outcome of a publish run.
type PublishResult struct {
	// Plan is the pipeline that was executed
	Plan *planner.Plan

	// Executed lists the commands that completed successfully, in order
	Executed []CommandRun

	// ManifestPath is where the rewritten manifest was written, or empty
	// when the output directory is the project root
	ManifestPath string

	// Published is true when the publish command ran and succeeded
	Published bool

	// SkipReason explains why publishing was skipped
	SkipReason string
}

// PlanResult represents a planned but unexecuted pipeline.
type PlanResult struct {
	// Paths are the project files that were read
	Paths config.Paths

	// Config is the effective publisher configuration
	Config *config.PublisherConfig

	// Plan is the pipeline a publish run would execute
	Plan *planner.Plan
}

// InitResult represents the changes init mode made.
type InitResult struct {
	// ManifestPath is the project's package.json
	ManifestPath string

	// Changes lists the scripts that were added
	Changes manifest.InitChanges

	// ConfigPath is the publisher configuration file
	ConfigPath string

	// ConfigCreated is true when a starter configuration was written
	ConfigCreated bool
}
