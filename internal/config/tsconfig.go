package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/danieljhkim/publisher/internal/fsops"
)

// CompilerConfig holds the parts of tsconfig.json publisher needs.
type CompilerConfig struct {
	CompilerOptions CompilerOptions `json:"compilerOptions"`
}

// CompilerOptions is the "compilerOptions" block of tsconfig.json.
type CompilerOptions struct {
	OutDir string `json:"outDir"`
}

// LoadCompilerConfig reads tsconfig.json, which may contain comments and
// trailing commas.
func LoadCompilerConfig(fs fsops.FS, path string) (*CompilerConfig, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	var cfg CompilerConfig
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ResolveOutDir picks the distribution directory: the publisher override,
// then the compiler's outDir, then the project root. The result is
// absolute.
func ResolveOutDir(root string, rc *PublisherConfig, cc *CompilerConfig) string {
	dir := ""
	if rc != nil {
		dir = rc.OutDir
	}
	if dir == "" && cc != nil {
		dir = cc.CompilerOptions.OutDir
	}
	if dir == "" {
		return filepath.Clean(root)
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(root, dir)
}

// RelOutDir returns outDir relative to root with forward slashes, the form
// manifest entry points are rewritten against.
func RelOutDir(root, outDir string) string {
	rel, err := filepath.Rel(root, outDir)
	if err != nil {
		return filepath.ToSlash(outDir)
	}
	if rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
