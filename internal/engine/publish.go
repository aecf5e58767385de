package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/publisher/internal/clock"
	"github.com/danieljhkim/publisher/internal/command"
	"github.com/danieljhkim/publisher/internal/config"
	"github.com/danieljhkim/publisher/internal/manifest"
	"github.com/danieljhkim/publisher/internal/planner"
)

// Algorithm steps:
// 1. Locate the project root and load its configuration
// 2. Plan the pipeline (with a leading clean when enabled)
// 3. Refuse an inferred pipeline with no build mechanism
// 4. Execute commands in order, stopping at the first failure
// 5. Write the rewritten manifest into the output directory
// 6. Publish, unless disabled or a dry run
func (e *Engine) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	proj, err := e.loadProject(req.CWD)
	if err != nil {
		return nil, err
	}

	plan, err := e.buildPlan(proj, req.Checks)
	if err != nil {
		return nil, err
	}
	if plan.Inferred && !plan.BuildFound {
		return nil, fmt.Errorf("%w: add one of the %s scripts or a %s dependency",
			ErrNoBuildStep, strings.Join(planner.BuildScripts, ", "), planner.CompilerDependency)
	}

	result := &PublishResult{Plan: plan}
	result.Executed, err = e.runCommands(ctx, plan.Commands)
	if err != nil {
		return result, err
	}
	e.printer.Step("Finished All Commands")

	if plan.OutDir != proj.paths.Root {
		path, err := e.writeDistManifest(proj, plan.OutDir)
		if err != nil {
			return result, err
		}
		result.ManifestPath = path
	}

	pm := proj.config.PackageManager
	switch {
	case !proj.config.Publish:
		result.SkipReason = "publishing disabled by configuration"
	case req.DryRun:
		result.SkipReason = "dry-run"
		e.printer.Println()
		e.printer.Warning(fmt.Sprintf("Dry-run enabled, not running %s publish", pm))
	default:
		if err := e.publish(ctx, pm, plan.OutDir); err != nil {
			return result, err
		}
		result.Published = true
	}
	if result.SkipReason != "" {
		e.logger.Debug("skipping publish", "reason", result.SkipReason)
	}

	return result, nil
}

// runCommands executes cmds in order and stops at the first failure.
// Side effects of completed commands are kept.
func (e *Engine) runCommands(ctx context.Context, cmds []command.Command) ([]CommandRun, error) {
	runs := make([]CommandRun, 0, len(cmds))
	for _, c := range cmds {
		command.Describe(e.printer, c)

		sw := clock.Start(e.clock)
		code, err := e.executor.Execute(ctx, c)
		elapsed := sw.Elapsed()
		e.logger.Debug("command finished", "command", command.Label(c), "status", code, "elapsed", elapsed)

		if err != nil {
			return runs, fmt.Errorf("%w: %s: %w", ErrCommandFailed, command.Label(c), err)
		}
		if code != 0 {
			return runs, fmt.Errorf("%w: %s exited with status %d", ErrCommandFailed, command.Label(c), code)
		}
		e.printer.Done()
		runs = append(runs, CommandRun{Command: c, Duration: elapsed})
	}
	return runs, nil
}

// writeDistManifest rewrites the manifest for outDir and writes it there.
func (e *Engine) writeDistManifest(p *project, outDir string) (string, error) {
	e.printer.Step(fmt.Sprintf("Copying and fixing %s into %s", manifest.FileName, outDir))

	manifest.Rewrite(p.manifest, config.RelOutDir(p.paths.Root, outDir))
	path := filepath.Join(outDir, manifest.FileName)
	if err := manifest.Save(e.fs, path, p.manifest); err != nil {
		return "", fmt.Errorf("failed to write distribution manifest: %w", err)
	}

	e.printer.Done()
	return path, nil
}

// publish runs the package manager's publish command in outDir.
func (e *Engine) publish(ctx context.Context, pm, outDir string) error {
	pub := command.NewExecCommand(outDir, pm, "publish")
	e.printer.Println()
	command.Describe(e.printer, pub)

	code, err := e.executor.Execute(ctx, pub)
	if err != nil {
		return fmt.Errorf("%w: failed to run %s publish, please review the output above: %w", ErrPublishFailed, pm, err)
	}
	if code != 0 {
		return fmt.Errorf("%w: %s publish exited with status %d, please review the output above", ErrPublishFailed, pm, code)
	}

	e.printer.Printf("> %s\n", e.printer.Green("PUBLISHED"))
	return nil
}
