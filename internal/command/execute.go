package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// MaxConcurrentCopies bounds the number of files a BulkCopyCommand copies
// at once.
const MaxConcurrentCopies = 64

// ProcessRunner spawns a program and waits for it to exit.
type ProcessRunner interface {
	// Run executes program with args in dir and returns its exit code. An
	// error means the process could not be started or waited on.
	Run(ctx context.Context, dir, program string, args []string) (int, error)
}

// OSRunner runs processes with the given standard streams.
type OSRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewOSRunner returns a runner whose children inherit the current
// process's stdio.
func NewOSRunner() *OSRunner {
	return &OSRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run implements ProcessRunner. A program given as a relative path
// containing a separator resolves against dir.
func (r *OSRunner) Run(ctx context.Context, dir, program string, args []string) (int, error) {
	name := program
	if strings.ContainsRune(program, '/') && !filepath.IsAbs(program) {
		name = filepath.Join(dir, filepath.FromSlash(program))
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to start %s: %w", program, err)
}

// Executor runs commands.
type Executor struct {
	runner ProcessRunner
}

// NewExecutor creates an Executor that spawns processes through runner.
func NewExecutor(runner ProcessRunner) *Executor {
	return &Executor{runner: runner}
}

// Execute runs c to completion and returns its status; 0 means success.
func (e *Executor) Execute(ctx context.Context, c Command) (int, error) {
	switch c := c.(type) {
	case *ExecCommand:
		return e.runner.Run(ctx, c.Dir, c.Program, c.Args)
	case *ScriptCommand:
		return e.Execute(ctx, c.Exec())
	case *CopyCommand:
		if err := copyOne(ctx, c.fs.CopyFile, c.Src, c.Dest, c.File); err != nil {
			return 1, err
		}
		return 0, nil
	case *BulkCopyCommand:
		if err := bulkCopy(ctx, c); err != nil {
			return 1, err
		}
		return 0, nil
	case *RemoveCommand:
		if err := c.fs.RemoveAll(c.Dir); err != nil {
			return 1, fmt.Errorf("failed to remove %s: %w", c.Dir, err)
		}
		return 0, nil
	default:
		return 1, fmt.Errorf("unknown command type %T", c)
	}
}

// bulkCopy starts every copy and waits for all of them before reporting
// the first failure.
func bulkCopy(ctx context.Context, c *BulkCopyCommand) error {
	var g errgroup.Group
	g.SetLimit(MaxConcurrentCopies)
	for _, file := range c.Files {
		g.Go(func() error {
			return copyOne(ctx, c.fs.CopyFile, c.Src, c.Dest, file)
		})
	}
	return g.Wait()
}

func copyOne(ctx context.Context, copyFile func(src, dst string) error, src, dest, file string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel := filepath.FromSlash(file)
	if err := copyFile(filepath.Join(src, rel), filepath.Join(dest, rel)); err != nil {
		return fmt.Errorf("failed to copy %s: %w", file, err)
	}
	return nil
}
