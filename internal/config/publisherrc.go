package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/tailscale/hujson"

	"github.com/danieljhkim/publisher/internal/fsops"
)

// DefaultPackageManager runs scripts and publishes when none is configured.
const DefaultPackageManager = "npm"

// PublisherConfig is the per-project override read from .publisherrc.
type PublisherConfig struct {
	// Steps replaces step inference when non-nil. An empty, non-nil slice
	// runs no build steps at all.
	Steps []string

	// OutDir overrides the compiler's output directory.
	OutDir string

	// Publish runs the package manager's publish command at the end.
	Publish bool

	// Clean removes the output directory before building.
	Clean bool

	// PackageManager is the executable used for `run` and `publish`.
	PackageManager string
}

// DefaultPublisherConfig returns the configuration used when no file exists.
func DefaultPublisherConfig() *PublisherConfig {
	return &PublisherConfig{
		Publish:        true,
		Clean:          true,
		PackageManager: DefaultPackageManager,
	}
}

// LoadPublisherConfig reads the publisher configuration at path. A missing
// file yields the defaults. Every key can be overridden through a
// PUBLISHER_<KEY> environment variable (for example PUBLISHER_OUTDIR);
// PUBLISHER_STEPS is a comma-separated list.
func LoadPublisherConfig(fs fsops.FS, path string) (*PublisherConfig, error) {
	defaults := DefaultPublisherConfig()

	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault("publish", defaults.Publish)
	v.SetDefault("clean", defaults.Clean)
	v.SetDefault("packagemanager", defaults.PackageManager)
	v.SetEnvPrefix("PUBLISHER")
	v.AutomaticEnv()

	exists, err := fs.IsRegularFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", path, err)
	}
	if exists {
		data, err := fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if len(bytes.TrimSpace(std)) > 0 {
			if err := v.ReadConfig(bytes.NewReader(std)); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	cfg := &PublisherConfig{
		OutDir:         v.GetString("outdir"),
		Publish:        v.GetBool("publish"),
		Clean:          v.GetBool("clean"),
		PackageManager: v.GetString("packagemanager"),
	}
	if v.IsSet("steps") {
		cfg.Steps = stepList(v)
	}
	if cfg.PackageManager == "" {
		cfg.PackageManager = DefaultPackageManager
	}
	return cfg, nil
}

// stepList returns the configured steps. The file holds a JSON array;
// PUBLISHER_STEPS separates steps with commas so a step may contain
// spaces ("tsc -p ., npm run docs").
func stepList(v *viper.Viper) []string {
	raw, ok := v.Get("steps").(string)
	if !ok {
		if steps := v.GetStringSlice("steps"); steps != nil {
			return steps
		}
		return []string{}
	}
	steps := []string{}
	for _, step := range strings.Split(raw, ",") {
		if step = strings.TrimSpace(step); step != "" {
			steps = append(steps, step)
		}
	}
	return steps
}

// InitTemplate is the starter .publisherrc.json written by init mode. Every
// recognised key is commented out.
const InitTemplate = `{
  // "steps": [],          // list of steps to run, defaults to lint, build, test
  // "outDir": "",         // directory to publish, defaults to tsconfig's outDir
  // "publish": true,      // whether to run npm publish at the end
  // "clean": true,        // whether to empty outDir before building
  // "packageManager": "npm"
}
`
