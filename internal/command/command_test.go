package command

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/publisher/internal/console"
	"github.com/danieljhkim/publisher/internal/fsops"
)

type invocation struct {
	Dir     string
	Program string
	Args    []string
}

type fakeRunner struct {
	mu    sync.Mutex
	calls []invocation
	code  int
	err   error
}

func (r *fakeRunner) Run(_ context.Context, dir, program string, args []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, invocation{Dir: dir, Program: program, Args: args})
	return r.code, r.err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNewCopyCommand_RejectsNonFiles(t *testing.T) {
	fs := fsops.NewRealFS()
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "lib"), 0755))

	_, err := NewCopyCommand(fs, src, t.TempDir(), "lib")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRegularFile))
	assert.Contains(t, err.Error(), "can only copy files")

	_, err = NewCopyCommand(fs, src, t.TempDir(), "missing.txt")
	assert.True(t, errors.Is(err, ErrNotRegularFile))

	_, err = NewCopyCommand(fs, src, t.TempDir(), "../outside.txt")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotRegularFile))
}

func TestCopyCommand_Execute(t *testing.T) {
	fs := fsops.NewRealFS()
	src, dest := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "docs", "guide.md"), "guide")

	cmd, err := NewCopyCommand(fs, src, filepath.Join(dest, "dist"), "docs/guide.md")
	require.NoError(t, err)

	code, err := NewExecutor(&fakeRunner{}).Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(dest, "dist", "docs", "guide.md"))
	require.NoError(t, err)
	assert.Equal(t, "guide", string(data))
}

func TestNewBulkCopyCommand_ValidatesEverySource(t *testing.T) {
	fs := fsops.NewRealFS()
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "README.md"), "")

	_, err := NewBulkCopyCommand(fs, src, t.TempDir(), []string{"README.md", "nope.md"})
	assert.True(t, errors.Is(err, ErrNotRegularFile))
}

func TestBulkCopyCommand_Execute(t *testing.T) {
	fs := fsops.NewRealFS()
	src, dest := t.TempDir(), t.TempDir()
	files := []string{"README.md", "LICENSE", "docs/a.md", "docs/deep/b.md"}
	for _, f := range files {
		writeFile(t, filepath.Join(src, filepath.FromSlash(f)), f)
	}

	cmd, err := NewBulkCopyCommand(fs, src, dest, files)
	require.NoError(t, err)

	code, err := NewExecutor(&fakeRunner{}).Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(f)))
		require.NoError(t, err)
		assert.Equal(t, f, string(data))
	}
}

func TestBulkCopyCommand_FailureSettlesAllCopies(t *testing.T) {
	fs := fsops.NewRealFS()
	src, dest := t.TempDir(), t.TempDir()
	files := []string{"a.txt", "b.txt", "c.txt"}
	for _, f := range files {
		writeFile(t, filepath.Join(src, f), f)
	}

	cmd, err := NewBulkCopyCommand(fs, src, dest, files)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(src, "b.txt")))

	code, err := NewExecutor(&fakeRunner{}).Execute(context.Background(), cmd)
	require.Error(t, err)
	assert.NotEqual(t, 0, code)
	assert.Contains(t, err.Error(), "b.txt")

	assert.FileExists(t, filepath.Join(dest, "a.txt"))
	assert.FileExists(t, filepath.Join(dest, "c.txt"))
}

func TestBulkCopyCommand_CancelledContext(t *testing.T) {
	fs := fsops.NewRealFS()
	src, dest := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "a")

	cmd, err := NewBulkCopyCommand(fs, src, dest, []string{"a.txt"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewExecutor(&fakeRunner{}).Execute(ctx, cmd)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoFileExists(t, filepath.Join(dest, "a.txt"))
}

func TestNewRemoveCommand(t *testing.T) {
	fs := fsops.NewRealFS()
	root := filepath.Join(t.TempDir(), "pkg")

	tests := []struct {
		name    string
		dir     string
		wantErr bool
	}{
		{"descendant", filepath.Join(root, "dist"), false},
		{"nested descendant", filepath.Join(root, "build", "out"), false},
		{"sibling", filepath.Join(filepath.Dir(root), "pkg-dist"), false},
		{"root", root, true},
		{"root with trailing separator", root + string(filepath.Separator), true},
		{"ancestor", filepath.Dir(root), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRemoveCommand(fs, root, tt.dir)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsafeRemove))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRemoveCommand_Execute(t *testing.T) {
	fs := fsops.NewRealFS()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dist", "old", "index.js"), "stale")

	cmd, err := NewRemoveCommand(fs, root, filepath.Join(root, "dist"))
	require.NoError(t, err)

	code, err := NewExecutor(&fakeRunner{}).Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.NoDirExists(t, filepath.Join(root, "dist"))
	assert.DirExists(t, root)

	// Removing a directory that does not exist is not an error.
	code, err = NewExecutor(&fakeRunner{}).Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestExecutor_ProcessCommands(t *testing.T) {
	runner := &fakeRunner{code: 2}
	exec := NewExecutor(runner)

	code, err := exec.Execute(context.Background(), NewExecCommand("/proj", "./node_modules/.bin/tsc", "-p", "."))
	require.NoError(t, err)
	assert.Equal(t, 2, code)

	_, err = exec.Execute(context.Background(), NewScriptCommand("/proj", "pnpm", "build", "--prod"))
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, invocation{Dir: "/proj", Program: "./node_modules/.bin/tsc", Args: []string{"-p", "."}}, runner.calls[0])
	assert.Equal(t, invocation{Dir: "/proj", Program: "pnpm", Args: []string{"run", "build", "--prod"}}, runner.calls[1])
}

func TestExecutor_SpawnFailure(t *testing.T) {
	runner := &fakeRunner{code: -1, err: errors.New("executable file not found")}
	_, err := NewExecutor(runner).Execute(context.Background(), NewExecCommand("/proj", "missing"))
	assert.Error(t, err)
}

func TestScriptCommand_Exec(t *testing.T) {
	cmd := NewScriptCommand("/proj", "npm", "lint")
	assert.Equal(t, &ExecCommand{Dir: "/proj", Program: "npm", Args: []string{"run", "lint"}}, cmd.Exec())
	assert.Equal(t, "npm run lint", cmd.String())
}

func TestDescribe(t *testing.T) {
	fs := fsops.NewRealFS()
	src := t.TempDir()
	dest := filepath.Join(src, "dist")
	writeFile(t, filepath.Join(src, "README.md"), "")
	writeFile(t, filepath.Join(src, "LICENSE"), "")

	copyCmd, err := NewCopyCommand(fs, src, dest, "README.md")
	require.NoError(t, err)
	bulk, err := NewBulkCopyCommand(fs, src, dest, []string{"README.md", "LICENSE"})
	require.NoError(t, err)
	remove, err := NewRemoveCommand(fs, src, dest)
	require.NoError(t, err)

	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"exec", NewExecCommand(src, "./node_modules/.bin/tsc"), "> ExecCommand\n>   ./node_modules/.bin/tsc\n"},
		{"script", NewScriptCommand(src, "npm", "test"), "> ScriptCommand\n>   npm run test\n"},
		{
			"copy", copyCmd,
			"> CopyCommand\n   " + filepath.Join(src, "README.md") + "\n   -> " + filepath.Join(dest, "README.md") + "\n",
		},
		{"remove", remove, "> RemoveCommand\n   " + dest + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			Describe(console.New(&out, &out, false), tt.cmd)
			assert.Equal(t, tt.want, out.String())
		})
	}

	t.Run("bulk copy", func(t *testing.T) {
		var out bytes.Buffer
		Describe(console.New(&out, &out, false), bulk)
		lines := bytes.Split(bytes.TrimRight(out.Bytes(), "\n"), []byte("\n"))
		require.Len(t, lines, 1+2*2)
		assert.Equal(t, "> BulkCopyCommand (2 files)", string(lines[0]))
	})
}

func TestOSRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell scripts")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "bin", "check.sh")
	require.NoError(t, os.MkdirAll(filepath.Dir(script), 0755))
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit \"$1\"\n"), 0755))

	var stdout bytes.Buffer
	runner := &OSRunner{Stdout: &stdout, Stderr: &stdout}

	code, err := runner.Run(context.Background(), dir, "./bin/check.sh", []string{"0"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	code, err = runner.Run(context.Background(), dir, "./bin/check.sh", []string{"3"})
	require.NoError(t, err)
	assert.Equal(t, 3, code)

	_, err = runner.Run(context.Background(), dir, "publisher-test-no-such-program", nil)
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	fs := fsops.NewRealFS()
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "README.md"), "")
	copyCmd, err := NewCopyCommand(fs, src, filepath.Join(src, "dist"), "README.md")
	require.NoError(t, err)
	bulk, err := NewBulkCopyCommand(fs, src, filepath.Join(src, "dist"), []string{"README.md"})
	require.NoError(t, err)

	assert.Equal(t, "tsc -p .", Label(NewExecCommand(src, "tsc", "-p", ".")))
	assert.Equal(t, "npm run build", Label(NewScriptCommand(src, "npm", "build")))
	assert.Equal(t, "copy README.md", Label(copyCmd))
	assert.Equal(t, "copy 1 file", Label(bulk))
}
