package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/publisher/internal/config"
	"github.com/danieljhkim/publisher/internal/manifest"
)

// Init adds the publish blocker and the publisher script to package.json
// and writes a starter publisher configuration when none exists. Running
// it again changes nothing.
func (e *Engine) Init(ctx context.Context, req *InitRequest) (*InitResult, error) {
	paths, err := e.discover(req.CWD)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(e.fs, paths.Manifest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	result := &InitResult{
		ManifestPath: paths.Manifest,
		ConfigPath:   paths.PublisherConfig,
	}

	result.Changes = manifest.PrepareForPublisher(m)
	if result.Changes.AddedBlocker {
		e.printer.Println("Adding", manifest.PublishBlockerScript, "to prevent publishing directly")
	} else {
		e.printer.Println(manifest.PublishBlockerScript, "already exists, doing nothing")
	}
	if result.Changes.AddedScript {
		e.printer.Println("Adding", manifest.PublisherScript, "script")
	}

	exists, err := e.fs.Exists(paths.PublisherConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", paths.PublisherConfig, err)
	}
	if !exists {
		e.printer.Printf("Writing starter configuration to %s\n", paths.PublisherConfig)
		if err := e.fs.AtomicWrite(paths.PublisherConfig, []byte(config.InitTemplate), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", paths.PublisherConfig, err)
		}
		result.ConfigCreated = true
	}

	if result.Changes.Modified() {
		e.printer.Printf("Writing out modified %s to %s\n", manifest.FileName, paths.Manifest)
		if err := manifest.Save(e.fs, paths.Manifest, m); err != nil {
			return nil, err
		}
	}

	return result, nil
}
