package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/valter-silva-au/task-cli/internal/core"
	"github.com/valter-silva-au/task-cli/internal/storage"
	"github.com/valter-silva-au/task-cli/pkg/models"
)

// useTaskDir points TaskMgr at fresh task files in a temp dir, restoring the
// previous manager when the test ends. It returns the directory.
func useTaskDir(t *testing.T, mode models.IndexMode) string {
	t.Helper()
	dir := t.TempDir()
	store := storage.NewTaskStore(filepath.Join(dir, "task.txt"), filepath.Join(dir, "completed.txt"))

	orig := TaskMgr
	TaskMgr = core.NewTaskManager(store, mode, nil)
	t.Cleanup(func() { TaskMgr = orig })
	return dir
}

// run executes the root command with args and returns everything written to
// stdout and stderr.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	reportFormat = "text"
	metricsJSON = false
	metricsSince = "7d"
	completionInstall = false

	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("task %v: unexpected error: %v", args, err)
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

func assertMissing(t *testing.T, dir, name string) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Errorf("%s should not exist (stat err = %v)", name, err)
	}
}
