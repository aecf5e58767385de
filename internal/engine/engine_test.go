package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/publisher/internal/clock"
	"github.com/danieljhkim/publisher/internal/console"
	"github.com/danieljhkim/publisher/internal/fsops"
	"github.com/danieljhkim/publisher/internal/logging"
)

type invocation struct {
	Dir  string
	Line string
}

// fakeRunner records invocations. Exit codes and errors are looked up by
// the invocation's command line.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []invocation
	codes  map[string]int
	errors map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{codes: map[string]int{}, errors: map[string]error{}}
}

func (r *fakeRunner) Run(_ context.Context, dir, program string, args []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := strings.TrimSpace(program + " " + strings.Join(args, " "))
	r.calls = append(r.calls, invocation{Dir: dir, Line: line})
	if err := r.errors[line]; err != nil {
		return -1, err
	}
	return r.codes[line], nil
}

func (r *fakeRunner) lines() []string {
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.Line)
	}
	return out
}

type testEnv struct {
	engine *Engine
	runner *fakeRunner
	out    *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{"PUBLISHER_OUTDIR", "PUBLISHER_PUBLISH", "PUBLISHER_CLEAN", "PUBLISHER_STEPS", "PUBLISHER_PACKAGEMANAGER"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	runner := newFakeRunner()
	out := &bytes.Buffer{}
	eng := New(
		fsops.NewRealFS(),
		runner,
		console.New(out, out, false),
		logging.Discard(),
		clock.NewStepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10*time.Millisecond),
	)
	return &testEnv{engine: eng, runner: runner, out: out}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

const libraryManifest = `{
  "name": "example-lib",
  "version": "1.2.3",
  "main": "./dist/index.js",
  "types": "dist/index.d.ts",
  "bin": {"example": "dist/cli.js"},
  "scripts": {
    "lint": "eslint src",
    "build": "tsc",
    "test": "jest",
    "prepublishOnly": "echo \"Do not run publish directly, run publisher\" && exit 1",
    "prepare": "husky install && node scripts/prepare.js"
  },
  "dependencies": {"tslib": "^2.6.0"},
  "devDependencies": {"typescript": "^5.4.0", "husky": "^8.0.0"}
}
`

// newLibrary creates a TypeScript library project compiled into dist/.
func newLibrary(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), libraryManifest)
	writeFile(t, filepath.Join(root, "tsconfig.json"), `{
  // compiled output
  "compilerOptions": {"outDir": "./dist", "strict": true,},
}`)
	writeFile(t, filepath.Join(root, "README.md"), "# example-lib")
	writeFile(t, filepath.Join(root, "LICENSE"), "MIT")
	writeFile(t, filepath.Join(root, "src", "index.ts"), "export const x = 1;")
	return root
}
