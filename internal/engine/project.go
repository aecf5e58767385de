package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/publisher/internal/command"
	"github.com/danieljhkim/publisher/internal/config"
	"github.com/danieljhkim/publisher/internal/manifest"
	"github.com/danieljhkim/publisher/internal/planner"
)

// project is everything loaded for one run.
type project struct {
	paths    *config.Paths
	manifest *manifest.Manifest
	config   *config.PublisherConfig
	compiler *config.CompilerConfig
	outDir   string
}

// discover finds the project root above start.
func (e *Engine) discover(start string) (*config.Paths, error) {
	paths, err := config.DiscoverPaths(e.fs, start)
	if err != nil {
		if errors.Is(err, config.ErrNoManifest) {
			return nil, fmt.Errorf("%w (searched upward from %s)", ErrManifestNotFound, start)
		}
		return nil, fmt.Errorf("failed to locate project: %w", err)
	}
	e.logger.Debug("found project root", "root", paths.Root, "publisherrc", paths.PublisherConfig)
	return paths, nil
}

// loadProject locates the root and loads the manifest, the publisher
// configuration and the compiler configuration.
func (e *Engine) loadProject(start string) (*project, error) {
	paths, err := e.discover(start)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(e.fs, paths.Manifest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	rc, err := config.LoadPublisherConfig(e.fs, paths.PublisherConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	cc, err := config.LoadCompilerConfig(e.fs, paths.CompilerConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	outDir := config.ResolveOutDir(paths.Root, rc, cc)
	e.logger.Debug("resolved output directory",
		"outDir", outDir,
		"publisherrc", rc.OutDir,
		"tsconfig", cc.CompilerOptions.OutDir,
	)

	return &project{
		paths:    paths,
		manifest: m,
		config:   rc,
		compiler: cc,
		outDir:   outDir,
	}, nil
}

// buildPlan plans the pipeline and, when cleaning is enabled, prepends the
// removal of a stale output directory.
func (e *Engine) buildPlan(p *project, checks bool) (*planner.Plan, error) {
	plan, err := planner.Build(e.fs, p.paths.Root, p.outDir, p.manifest, p.config, checks)
	if err != nil {
		return nil, fmt.Errorf("failed to build plan: %w", err)
	}

	if p.config.Clean && isStrictDescendant(p.paths.Root, plan.OutDir) {
		rm, err := command.NewRemoveCommand(e.fs, p.paths.Root, plan.OutDir)
		if err != nil {
			return nil, fmt.Errorf("failed to build plan: %w", err)
		}
		plan.Prepend(rm)
	}

	e.logger.Debug("planned pipeline",
		"commands", len(plan.Commands),
		"inferred", plan.Inferred,
		"buildFound", plan.BuildFound,
		"checks", checks,
	)
	return plan, nil
}

func isStrictDescendant(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
