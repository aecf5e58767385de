package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/publisher/internal/clock"
	"github.com/danieljhkim/publisher/internal/console"
	"github.com/danieljhkim/publisher/internal/engine"
	"github.com/danieljhkim/publisher/internal/fsops"
	"github.com/danieljhkim/publisher/internal/logging"
)

type invocation struct {
	Dir  string
	Line string
}

// simulatedRunner stands in for npm and tsc. Each command line can be
// given a handler that produces the side effects of the real tool.
type simulatedRunner struct {
	mu       sync.Mutex
	calls    []invocation
	handlers map[string]func(dir string) (int, error)
}

func newSimulatedRunner() *simulatedRunner {
	return &simulatedRunner{handlers: make(map[string]func(dir string) (int, error))}
}

func (r *simulatedRunner) on(line string, fn func(dir string) (int, error)) {
	r.handlers[line] = fn
}

func (r *simulatedRunner) Run(_ context.Context, dir, program string, args []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := strings.TrimSpace(program + " " + strings.Join(args, " "))
	r.calls = append(r.calls, invocation{Dir: dir, Line: line})
	if fn, ok := r.handlers[line]; ok {
		return fn(dir)
	}
	return 0, nil
}

func (r *simulatedRunner) lines() []string {
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.Line)
	}
	return out
}

// compileInto returns a handler that writes compiled output for src/index.ts
// into outDir, the way tsc would.
func compileInto(outDir string) func(dir string) (int, error) {
	return func(dir string) (int, error) {
		target := filepath.Join(dir, outDir)
		if err := os.MkdirAll(target, 0755); err != nil {
			return 1, err
		}
		files := map[string]string{
			"index.js":   "exports.hello = () => 'hello';\n",
			"index.d.ts": "export declare const hello: () => string;\n",
			"cli.js":     "#!/usr/bin/env node\n",
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(target, name), []byte(content), 0644); err != nil {
				return 1, err
			}
		}
		return 0, nil
	}
}

// setupTestEngine creates an engine over the real filesystem with a
// simulated process runner.
func setupTestEngine(t *testing.T) (*engine.Engine, *simulatedRunner, *bytes.Buffer) {
	t.Helper()
	for _, key := range []string{"PUBLISHER_OUTDIR", "PUBLISHER_PUBLISH", "PUBLISHER_CLEAN", "PUBLISHER_STEPS", "PUBLISHER_PACKAGEMANAGER"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	runner := newSimulatedRunner()
	out := &bytes.Buffer{}
	eng := engine.New(
		fsops.NewRealFS(),
		runner,
		console.New(out, out, false),
		logging.New(out, true),
		clock.NewStepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Second),
	)
	return eng, runner, out
}

// writeTree creates files relative to root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

// listTree returns every regular file below root as sorted slash paths.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}
