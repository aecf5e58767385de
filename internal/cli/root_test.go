package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/publisher/internal/engine"
)

type recordingRunner struct {
	mu    sync.Mutex
	lines []string
	codes map[string]int
}

func (r *recordingRunner) Run(_ context.Context, dir, program string, args []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := strings.TrimSpace(program + " " + strings.Join(args, " "))
	r.lines = append(r.lines, line)
	return r.codes[line], nil
}

// resetFlags restores every flag to its default; pflag keeps parsed values
// between executions of the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI against the project in dir with a recording runner.
func run(t *testing.T, dir string, args ...string) (string, *recordingRunner, error) {
	t.Helper()
	return runWithCodes(t, dir, map[string]int{}, args...)
}

// runWithCodes is run with exit codes for specific command lines.
func runWithCodes(t *testing.T, dir string, codes map[string]int, args ...string) (string, *recordingRunner, error) {
	t.Helper()
	t.Setenv("INIT_CWD", dir)
	for _, key := range []string{"PUBLISHER_OUTDIR", "PUBLISHER_PUBLISH", "PUBLISHER_CLEAN", "PUBLISHER_STEPS", "PUBLISHER_PACKAGEMANAGER"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	runner := &recordingRunner{codes: codes}
	previous := processRunner
	processRunner = runner
	t.Cleanup(func() { processRunner = previous })

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))

	err := rootCmd.Execute()
	return out.String(), runner, err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{
  "name": "cli-fixture",
  "main": "lib/index.js",
  "scripts": {"lint": "eslint .", "build": "tsc", "test": "jest"},
  "devDependencies": {"typescript": "^5.4.0"}
}`)
	writeFile(t, filepath.Join(root, "tsconfig.json"), `{"compilerOptions": {"outDir": "lib"}}`)
	writeFile(t, filepath.Join(root, "README.md"), "# fixture")
	return root
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "publisher")
	assert.Contains(t, out, "Publishing:")
	assert.Contains(t, out, "plan")
	assert.Contains(t, out, "init")
	assert.Contains(t, out, "--dry-run")
	assert.NotContains(t, out, "--dryrun")
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	out, _, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)

	out, _, err = run(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}

func TestSetVersion_IgnoresEmpty(t *testing.T) {
	SetVersion("2.0.0")
	SetVersion("")
	assert.Equal(t, "2.0.0", rootCmd.Version)
	SetVersion("dev")
}

func TestRootCommand_RejectsArguments(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "unexpected")
	assert.Error(t, err)
}

func TestRootCommand_Subcommands(t *testing.T) {
	for _, name := range []string{"plan", "init", "version", "completion"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestRootCommand_DryRun(t *testing.T) {
	for _, flag := range []string{"--dry-run", "--dryrun"} {
		t.Run(flag, func(t *testing.T) {
			root := newProject(t)

			out, runner, err := run(t, root, flag)
			require.NoError(t, err)

			assert.Equal(t, []string{"npm run lint", "npm run build", "npm run test"}, runner.lines)
			assert.Contains(t, out, "> Dry-run enabled, not running npm publish")
			assert.FileExists(t, filepath.Join(root, "lib", "package.json"))
			assert.FileExists(t, filepath.Join(root, "lib", "README.md"))
		})
	}
}

func TestRootCommand_NoChecks(t *testing.T) {
	root := newProject(t)

	_, runner, err := run(t, root, "--no-checks")
	require.NoError(t, err)
	assert.Equal(t, []string{"npm run build", "npm publish"}, runner.lines)
}

func TestRootCommand_CommandFailure(t *testing.T) {
	root := newProject(t)

	_, runner, err := runWithCodes(t, root, map[string]int{"npm run lint": 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrCommandFailed))
	assert.Equal(t, []string{"npm run lint"}, runner.lines)
	assert.NoFileExists(t, filepath.Join(root, "lib", "package.json"))
}

func TestReportError(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetErr(&out)
	noColor = true
	t.Cleanup(func() { noColor = false })

	ReportError(errors.New("publish failed: npm publish exited with status 1"))
	assert.Equal(t, "> ERR publish failed: npm publish exited with status 1\n", out.String())
}

func TestNewEngine_WritesToCommandStreams(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name": "fresh"}`)
	noColor = true
	t.Cleanup(func() { noColor = false })

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	eng := newEngine(cmd)
	require.NotNil(t, eng)

	_, err := eng.Init(context.Background(), &engine.InitRequest{CWD: root})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Adding publisher script")
}

func TestRootCommand_InitFlag(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name": "fresh"}`)

	out, runner, err := run(t, root, "--init")
	require.NoError(t, err)

	assert.Empty(t, runner.lines)
	assert.Contains(t, out, "Adding prepublishOnly")
	assert.FileExists(t, filepath.Join(root, ".publisherrc.json"))
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"publisher": "publisher"`)
}

func TestInitCommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name": "fresh"}`)

	_, _, err := run(t, root, "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, ".publisherrc.json"))
}

func TestPlanCommand(t *testing.T) {
	root := newProject(t)

	out, runner, err := run(t, root, "plan")
	require.NoError(t, err)

	assert.Empty(t, runner.lines)
	assert.Contains(t, out, "Pipeline (5 commands)")
	assert.Contains(t, out, "1. remove "+filepath.Join(root, "lib"))
	assert.Contains(t, out, "2. npm run lint")
	assert.Contains(t, out, "5. copy 1 file")
	assert.NoDirExists(t, filepath.Join(root, "lib"))
}

func TestPlanCommand_NoChecksAndMissingBuild(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"scripts": {"lint": "eslint ."}}`)
	writeFile(t, filepath.Join(root, "tsconfig.json"), `{}`)

	out, _, err := run(t, root, "plan", "--no-checks")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to run")
	assert.Contains(t, out, "No build step found")
}
