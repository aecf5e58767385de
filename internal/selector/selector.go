// Package selector decides which non-compiled files travel into the
// distribution directory.
package selector

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/danieljhkim/publisher/internal/pathutil"
)

// IgnoreFile is the per-directory ignore list honoured by the walk.
const IgnoreFile = ".npmignore"

// excludedPrefixes are never packaged.
var excludedPrefixes = []string{".git/", ".hg/", "node_modules/"}

// ignoredFiles are top-level files the package manager generates or owns.
var ignoredFiles = map[string]bool{
	".DS_Store":         true,
	".npmrc":            true,
	"npm-debug.log":     true,
	"config.gypi":       true,
	".gitignore":        true,
	"package.json":      true,
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
}

// autoInclude lists upper-cased base names (extension stripped) that are
// always shipped when present at the top level.
var autoInclude = map[string]bool{
	"README":    true,
	"LICENSE":   true,
	"LICENCE":   true,
	"CHANGELOG": true,
}

// Select returns the sorted slash-separated paths, relative to root, that
// belong in the distribution directory.
//
// outDir may be absolute or relative to root. Files under it are never
// selected.
func Select(root, outDir string) ([]string, error) {
	return SelectFS(osfs.New(root), relOutDir(root, outDir))
}

// SelectFS is Select over an arbitrary billy filesystem rooted at the
// project. outDir must be relative to that root.
func SelectFS(fs billy.Filesystem, outDir string) ([]string, error) {
	outDir = pathutil.StripLeadingSlash(filepath.ToSlash(outDir))
	files := make(map[string]bool)

	if _, err := fs.Lstat(IgnoreFile); err == nil {
		walked, err := walk(fs)
		if err != nil {
			return nil, err
		}
		for _, entry := range walked {
			if ShouldInclude(entry, outDir) {
				files[entry] = true
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat %s: %w", IgnoreFile, err)
	}

	top, err := fs.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read project root: %w", err)
	}
	for _, info := range top {
		if info.Mode().IsRegular() && IsAutoIncluded(info.Name()) {
			files[info.Name()] = true
		}
	}

	out := make([]string, 0, len(files))
	for f := range files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

// ShouldInclude reports whether a walked entry may be packaged. outDir must
// already be stripped of its leading slash.
func ShouldInclude(entry, outDir string) bool {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(entry, prefix) {
			return false
		}
	}
	// outDir is a literal prefix: "dist" also rejects "distribution.md".
	if d := strings.TrimSuffix(outDir, "/"); d != "" && d != "." {
		if strings.HasPrefix(entry, d) {
			return false
		}
	}
	return !ignoredFiles[entry]
}

// IsAutoIncluded reports whether a top-level file name is shipped
// regardless of ignore rules.
func IsAutoIncluded(name string) bool {
	base := strings.TrimSuffix(name, path.Ext(name))
	return autoInclude[strings.ToUpper(base)]
}

// walk lists every regular file not excluded by the ignore files found
// along the way. Patterns from deeper directories take precedence.
func walk(fs billy.Filesystem) ([]string, error) {
	var out []string
	var visit func(dir []string, patterns []gitignore.Pattern) error
	visit = func(dir []string, patterns []gitignore.Pattern) error {
		dirPath := "."
		if len(dir) > 0 {
			dirPath = path.Join(dir...)
		}

		local, err := readPatterns(fs, dirPath, dir)
		if err != nil {
			return err
		}
		if len(local) > 0 {
			patterns = append(patterns[:len(patterns):len(patterns)], local...)
		}
		matcher := gitignore.NewMatcher(patterns)

		entries, err := fs.ReadDir(dirPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", dirPath, err)
		}
		for _, info := range entries {
			parts := append(dir[:len(dir):len(dir)], info.Name())
			switch {
			case info.IsDir():
				if matcher.Match(parts, true) {
					continue
				}
				if err := visit(parts, patterns); err != nil {
					return err
				}
			case info.Mode().IsRegular():
				if !matcher.Match(parts, false) {
					out = append(out, path.Join(parts...))
				}
			}
		}
		return nil
	}

	if err := visit(nil, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// readPatterns parses the ignore file in dirPath, if any. domain anchors
// the patterns to that directory.
func readPatterns(fs billy.Filesystem, dirPath string, domain []string) ([]gitignore.Pattern, error) {
	f, err := fs.Open(path.Join(dirPath, IgnoreFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path.Join(dirPath, IgnoreFile), err)
	}
	defer func() { _ = f.Close() }()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path.Join(dirPath, IgnoreFile), err)
	}
	return patterns, nil
}

// relOutDir expresses outDir relative to root. An absolute outDir outside
// root cannot collide with selected paths and yields "".
func relOutDir(root, outDir string) string {
	if outDir == "" || !filepath.IsAbs(outDir) {
		return outDir
	}
	rel, err := filepath.Rel(root, outDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}
