// Package config locates a project and loads the configuration that shapes
// a publisher run.
//
// Three files are involved, all read from the project root: package.json
// (the manifest, which also marks the root), an optional .publisherrc or
// .publisherrc.json, and tsconfig.json for the compiler's output directory.
// The starting directory can be overridden with INIT_CWD, which npm sets
// when publisher is launched through `npm run`.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/publisher/internal/fsops"
	"github.com/danieljhkim/publisher/internal/manifest"
)

// ErrNoManifest indicates no package.json exists in the start directory or
// any of its ancestors.
var ErrNoManifest = errors.New("could not find package.json file")

// CompilerConfigFile is the TypeScript configuration file name.
const CompilerConfigFile = "tsconfig.json"

// PublisherConfigFiles are the recognised publisher configuration files,
// in lookup order.
var PublisherConfigFiles = []string{".publisherrc", ".publisherrc.json"}

// Paths contains the project files publisher reads.
type Paths struct {
	// Root is the directory holding package.json
	Root string

	// Manifest is the path to package.json
	Manifest string

	// PublisherConfig is the first publisher config file found, or the
	// default .publisherrc.json location when none exists
	PublisherConfig string

	// CompilerConfig is the path to tsconfig.json
	CompilerConfig string
}

// StartDir returns the directory the root search starts from.
// - INIT_CWD: set by npm to the directory `npm run` was invoked in
func StartDir() (string, error) {
	if dir := os.Getenv("INIT_CWD"); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cwd, nil
}

// FindRoot walks upward from start until a directory containing
// package.json is found.
func FindRoot(fs fsops.FS, start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		exists, err := fs.Exists(filepath.Join(dir, manifest.FileName))
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", dir, err)
		}
		if exists {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched upward from %s)", ErrNoManifest, start)
		}
		dir = parent
	}
}

// DiscoverPaths finds the project root above start and returns the paths
// of its configuration files.
func DiscoverPaths(fs fsops.FS, start string) (*Paths, error) {
	root, err := FindRoot(fs, start)
	if err != nil {
		return nil, err
	}

	paths := &Paths{
		Root:            root,
		Manifest:        filepath.Join(root, manifest.FileName),
		PublisherConfig: filepath.Join(root, PublisherConfigFiles[len(PublisherConfigFiles)-1]),
		CompilerConfig:  filepath.Join(root, CompilerConfigFile),
	}
	for _, name := range PublisherConfigFiles {
		candidate := filepath.Join(root, name)
		ok, err := fs.IsRegularFile(candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		if ok {
			paths.PublisherConfig = candidate
			break
		}
	}
	return paths, nil
}
