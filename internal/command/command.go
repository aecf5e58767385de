// Package command models the units of work a publish run is made of.
//
// Command is a closed set of variants. Describe and Executor.Execute
// switch over every variant, so adding one means adding a case to both.
//
// Variants:
//   - ExecCommand: spawn a program with inherited stdio
//   - ScriptCommand: run a manifest script through the package manager
//   - CopyCommand: copy one file into the distribution tree
//   - BulkCopyCommand: copy many files concurrently
//   - RemoveCommand: clear a stale distribution directory
package command

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/publisher/internal/fsops"
)

var (
	// ErrNotRegularFile is returned when a copy source is missing or is not
	// a regular file.
	ErrNotRegularFile = errors.New("can only copy files")

	// ErrUnsafeRemove is returned when a removal would delete the project
	// root or one of its ancestors.
	ErrUnsafeRemove = errors.New("refusing to remove project root")
)

// Command is one step of a publish run. Commands are immutable once
// constructed.
type Command interface {
	command()
}

// ExecCommand runs Program with Args in Dir.
type ExecCommand struct {
	Dir     string
	Program string
	Args    []string
}

// ScriptCommand runs a manifest script through the package manager.
type ScriptCommand struct {
	Dir            string
	PackageManager string
	Script         string
	Args           []string
}

// CopyCommand copies File from Src to Dest. File is relative to both.
type CopyCommand struct {
	Src  string
	Dest string
	File string

	fs fsops.FS
}

// BulkCopyCommand copies Files from Src to Dest concurrently.
type BulkCopyCommand struct {
	Src   string
	Dest  string
	Files []string

	fs fsops.FS
}

// RemoveCommand deletes Dir and everything below it.
type RemoveCommand struct {
	Root string
	Dir  string

	fs fsops.FS
}

func (*ExecCommand) command()     {}
func (*ScriptCommand) command()   {}
func (*CopyCommand) command()     {}
func (*BulkCopyCommand) command() {}
func (*RemoveCommand) command()   {}

// NewExecCommand creates a command that runs program in dir.
func NewExecCommand(dir, program string, args ...string) *ExecCommand {
	return &ExecCommand{Dir: dir, Program: program, Args: args}
}

// NewScriptCommand creates a command that runs `<packageManager> run
// <script> args...` in dir.
func NewScriptCommand(dir, packageManager, script string, args ...string) *ScriptCommand {
	return &ScriptCommand{Dir: dir, PackageManager: packageManager, Script: script, Args: args}
}

// Exec returns the process invocation the script runs as.
func (c *ScriptCommand) Exec() *ExecCommand {
	args := append([]string{"run", c.Script}, c.Args...)
	return NewExecCommand(c.Dir, c.PackageManager, args...)
}

// NewCopyCommand creates a single-file copy. The source must exist and be a
// regular file.
func NewCopyCommand(fs fsops.FS, src, dest, file string) (*CopyCommand, error) {
	if err := checkSource(fs, src, file); err != nil {
		return nil, err
	}
	return &CopyCommand{Src: src, Dest: dest, File: file, fs: fs}, nil
}

// NewBulkCopyCommand creates a concurrent copy of files. Every source must
// exist and be a regular file.
func NewBulkCopyCommand(fs fsops.FS, src, dest string, files []string) (*BulkCopyCommand, error) {
	for _, file := range files {
		if err := checkSource(fs, src, file); err != nil {
			return nil, err
		}
	}
	return &BulkCopyCommand{Src: src, Dest: dest, Files: append([]string(nil), files...), fs: fs}, nil
}

// NewRemoveCommand creates a command that deletes dir. dir must not be
// root or an ancestor of it.
func NewRemoveCommand(fs fsops.FS, root, dir string) (*RemoveCommand, error) {
	root, dir = filepath.Clean(root), filepath.Clean(dir)
	rel, err := filepath.Rel(dir, root)
	if err != nil {
		return nil, fmt.Errorf("failed to compare %s with %s: %w", dir, root, err)
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return nil, fmt.Errorf("%w: %s", ErrUnsafeRemove, dir)
	}
	return &RemoveCommand{Root: root, Dir: dir, fs: fs}, nil
}

func checkSource(fs fsops.FS, src, file string) error {
	if err := fs.ValidateRelPath(file); err != nil {
		return err
	}
	path := filepath.Join(src, filepath.FromSlash(file))
	ok, err := fs.IsRegularFile(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	return nil
}
