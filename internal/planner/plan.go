package planner

import "github.com/danieljhkim/publisher/internal/command"

// Plan is the ordered pipeline for one publish run.
type Plan struct {
	// Root is the project directory commands run in.
	Root string

	// OutDir is the absolute distribution directory.
	OutDir string

	// Commands is the ordered list of commands to execute.
	Commands []command.Command

	// Inferred is true when the steps came from the manifest rather than
	// an explicit step list.
	Inferred bool

	// BuildFound is true when inference found a build script or the
	// compiler dependency. It is always true for explicit step lists.
	BuildFound bool
}

// NewPlan creates an empty plan.
func NewPlan(root, outDir string) *Plan {
	return &Plan{
		Root:     root,
		OutDir:   outDir,
		Commands: []command.Command{},
	}
}

// Add appends a command.
func (p *Plan) Add(c command.Command) {
	p.Commands = append(p.Commands, c)
}

// Prepend inserts a command before every other.
func (p *Plan) Prepend(c command.Command) {
	p.Commands = append([]command.Command{c}, p.Commands...)
}

// IsEmpty reports whether the plan has nothing to run.
func (p *Plan) IsEmpty() bool {
	return len(p.Commands) == 0
}
