package engine

import "errors"

var (
	// ErrManifestNotFound indicates no package.json was found above the
	// start directory.
	ErrManifestNotFound = errors.New("could not find package.json file")

	// ErrConfig indicates a configuration file is missing or unparseable.
	ErrConfig = errors.New("failed to load configuration")

	// ErrNoBuildStep indicates step inference found neither a build
	// script nor the compiler dependency.
	ErrNoBuildStep = errors.New("no build step found")

	// ErrCommandFailed indicates a pipeline command exited non-zero or
	// could not be started.
	ErrCommandFailed = errors.New("error encountered running command")

	// ErrPublishFailed indicates the package manager's publish command
	// failed.
	ErrPublishFailed = errors.New("publish failed")
)
