// Package planner decides what a publish run does.
//
// The planner turns a project's manifest and publisher configuration into
// an ordered list of commands. It reads the filesystem only to select the
// files copied into the distribution directory, and never executes
// anything.
//
// Key responsibilities:
//   - Honour an explicit step list from the publisher configuration
//   - Otherwise infer lint, build and test steps from declared scripts
//   - Fall back to the locally installed compiler when no build script exists
//   - Append one bulk copy of non-compiled files when the output directory
//     differs from the project directory
package planner
