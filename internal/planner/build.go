package planner

import (
	"fmt"
	"path/filepath"

	"mvdan.cc/sh/v3/shell"

	"github.com/danieljhkim/publisher/internal/command"
	"github.com/danieljhkim/publisher/internal/config"
	"github.com/danieljhkim/publisher/internal/fsops"
	"github.com/danieljhkim/publisher/internal/manifest"
	"github.com/danieljhkim/publisher/internal/selector"
)

// Script names checked during inference, highest priority first.
var (
	LintScripts  = []string{"lint", "tslint", "eslint", "tslint:check", "eslint:check"}
	BuildScripts = []string{"build", "build_all", "compile"}
	TestScript   = "test"
)

const (
	// CompilerDependency is the package that provides the compiler.
	CompilerDependency = "typescript"

	// CompilerBinary is the compiler's path relative to the project root.
	CompilerBinary = "./node_modules/.bin/tsc"
)

// Build produces the command pipeline for the project in cwd.
//
// outDir should be absolute; a relative outDir is taken relative to cwd.
// checks disables the lint and test steps when false. cfg may be nil.
func Build(fs fsops.FS, cwd, outDir string, m *manifest.Manifest, cfg *config.PublisherConfig, checks bool) (*Plan, error) {
	if cfg == nil {
		cfg = config.DefaultPublisherConfig()
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(cwd, outDir)
	}
	pm := cfg.PackageManager
	if pm == "" {
		pm = config.DefaultPackageManager
	}

	plan := NewPlan(cwd, filepath.Clean(outDir))

	if cfg.Steps != nil {
		// Explicit steps run exactly as listed, with no inference
		plan.BuildFound = true
		for _, step := range cfg.Steps {
			cmd, err := stepCommand(cwd, pm, step, m)
			if err != nil {
				return nil, err
			}
			plan.Add(cmd)
		}
	} else {
		plan.Inferred = true
		inferSteps(plan, cwd, pm, m, checks)
	}

	if filepath.Clean(cwd) != plan.OutDir {
		files, err := selector.Select(cwd, plan.OutDir)
		if err != nil {
			return nil, fmt.Errorf("failed to select files: %w", err)
		}
		if len(files) > 0 {
			copyCmd, err := command.NewBulkCopyCommand(fs, cwd, plan.OutDir, files)
			if err != nil {
				return nil, err
			}
			plan.Add(copyCmd)
		}
	}

	return plan, nil
}

// stepCommand runs step as a script when the manifest declares one by that
// name, and as a program invocation otherwise.
func stepCommand(cwd, pm, step string, m *manifest.Manifest) (command.Command, error) {
	if m.HasScript(step) {
		return command.NewScriptCommand(cwd, pm, step), nil
	}
	argv, err := shell.Fields(step, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid step %q: %w", step, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("invalid step %q: empty command", step)
	}
	return command.NewExecCommand(cwd, argv[0], argv[1:]...), nil
}

func inferSteps(plan *Plan, cwd, pm string, m *manifest.Manifest, checks bool) {
	if checks {
		if name, ok := firstScript(m, LintScripts); ok {
			plan.Add(command.NewScriptCommand(cwd, pm, name))
		}
	}

	if name, ok := firstScript(m, BuildScripts); ok {
		plan.Add(command.NewScriptCommand(cwd, pm, name))
		plan.BuildFound = true
	}

	if checks && m.HasScript(TestScript) {
		plan.Add(command.NewScriptCommand(cwd, pm, TestScript))
	}

	// Without a build script, compile directly when the compiler is installed
	if !plan.BuildFound && m.HasDependency(CompilerDependency) {
		plan.Add(command.NewExecCommand(cwd, CompilerBinary))
		plan.BuildFound = true
	}
}

func firstScript(m *manifest.Manifest, names []string) (string, bool) {
	for _, name := range names {
		if m.HasScript(name) {
			return name, true
		}
	}
	return "", false
}
