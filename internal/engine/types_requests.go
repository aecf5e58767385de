package engine

// PublishRequest represents a request to build and publish a project.
type PublishRequest struct {
	// CWD is the directory the project root search starts from
	CWD string

	// DryRun runs every step except the final publish
	DryRun bool

	// Checks enables the inferred lint and test steps
	Checks bool
}

// PlanRequest represents a request to show the pipeline without running it.
type PlanRequest struct {
	// CWD is the directory the project root search starts from
	CWD string

	// Checks enables the inferred lint and test steps
	Checks bool
}

// InitRequest represents a request to prepare a project for publisher.
type InitRequest struct {
	// CWD is the directory the project root search starts from
	CWD string
}
