package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/task-cli/internal/core"
	"github.com/valter-silva-au/task-cli/internal/observability"
	"github.com/valter-silva-au/task-cli/internal/storage"
	"github.com/valter-silva-au/task-cli/pkg/models"
)

type fakeMetricsCalculator struct {
	metrics *observability.Metrics
}

func (f *fakeMetricsCalculator) Calculate(_ time.Time) (*observability.Metrics, error) {
	return f.metrics, nil
}

// --- Test helpers ---

// newTestServer builds a Server over real task files in a temp dir and
// returns the dir so tests can inspect the files.
func newTestServer(t *testing.T, pending string) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	if pending != "" {
		if err := os.WriteFile(filepath.Join(dir, "task.txt"), []byte(pending), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store := storage.NewTaskStore(filepath.Join(dir, "task.txt"), filepath.Join(dir, "completed.txt"))
	tm := core.NewTaskManager(store, models.IndexSorted, nil)
	return NewServer(tm, nil, "test"), dir
}

// callTool is a helper that connects a client to the server and calls a tool.
func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *gomcp.CallToolResult {
	t.Helper()
	result, err := callToolErr(t, srv, toolName, args)
	if err != nil {
		t.Fatalf("call tool %s: %v", toolName, err)
	}
	return result
}

func callToolErr(t *testing.T, srv *Server, toolName string, args map[string]any) (*gomcp.CallToolResult, error) {
	t.Helper()

	ctx := context.Background()
	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)

	t1, t2 := gomcp.NewInMemoryTransports()

	go func() {
		_ = srv.MCPServer().Run(ctx, t1)
	}()

	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	return session.CallTool(ctx, &gomcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
}

// decodeOutput unmarshals the tool's structured output into v, falling back
// to the text content.
func decodeOutput(t *testing.T, result *gomcp.CallToolResult, v any) {
	t.Helper()
	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		if err != nil {
			t.Fatalf("marshalling structured content: %v", err)
		}
		if err := json.Unmarshal(data, v); err != nil {
			t.Fatalf("unmarshalling structured content: %v", err)
		}
		return
	}
	text := extractText(result)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("unmarshalling output: %v (text was: %s)", err, text)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// --- Tests ---

func TestAddTask(t *testing.T) {
	srv, dir := newTestServer(t, "1 a\n3 c\n")

	result := callTool(t, srv, "add_task", map[string]any{"priority": 2, "text": "  b  "})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out addTaskOutput
	decodeOutput(t, result, &out)
	if out.Message != `Added task: "b" with priority 2` {
		t.Errorf("unexpected message %q", out.Message)
	}
	if got := readFile(t, filepath.Join(dir, "task.txt")); got != "1 a\n2 b\n3 c\n" {
		t.Errorf("task.txt = %q", got)
	}
}

func TestAddTaskEmptyText(t *testing.T) {
	srv, dir := newTestServer(t, "")

	result := callTool(t, srv, "add_task", map[string]any{"priority": 1, "text": "   "})
	if !result.IsError {
		t.Fatal("expected error result for empty text")
	}
	if _, err := os.Stat(filepath.Join(dir, "task.txt")); !os.IsNotExist(err) {
		t.Error("task.txt should not be created")
	}
}

func TestAddTaskMissingPriority(t *testing.T) {
	srv, _ := newTestServer(t, "")

	// The SDK validates required fields against the input schema, so the call
	// fails either at the protocol level or as a tool error.
	result, err := callToolErr(t, srv, "add_task", map[string]any{"text": "x"})
	if err != nil {
		return
	}
	if !result.IsError {
		t.Fatal("expected error for missing priority")
	}
}

func TestListTasks(t *testing.T) {
	srv, _ := newTestServer(t, "3 c\n1 a\n2 b\n")

	result := callTool(t, srv, "list_tasks", map[string]any{})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out listTasksOutput
	decodeOutput(t, result, &out)
	if out.Count != 3 {
		t.Fatalf("expected 3 tasks, got %d", out.Count)
	}
	for i, want := range []string{"a", "b", "c"} {
		if out.Tasks[i].Text != want || out.Tasks[i].Index != i+1 {
			t.Errorf("task %d = %+v, want text %q", i, out.Tasks[i], want)
		}
	}
}

func TestDeleteTask(t *testing.T) {
	srv, dir := newTestServer(t, "2 b\n1 a\n")

	result := callTool(t, srv, "delete_task", map[string]any{"index": 1})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out indexOutput
	decodeOutput(t, result, &out)
	if out.Task.Text != "a" {
		t.Errorf("deleted %q, want a", out.Task.Text)
	}
	if got := readFile(t, filepath.Join(dir, "task.txt")); got != "2 b\n" {
		t.Errorf("task.txt = %q", got)
	}
}

func TestDeleteTaskOutOfRange(t *testing.T) {
	srv, dir := newTestServer(t, "1 a\n")

	result := callTool(t, srv, "delete_task", map[string]any{"index": 5})
	if !result.IsError {
		t.Fatal("expected error result for out-of-range index")
	}
	if got := extractText(result); got != "task with index #5 does not exist. Nothing deleted." {
		t.Errorf("unexpected error text %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "task.txt")); got != "1 a\n" {
		t.Errorf("task.txt changed: %q", got)
	}
}

func TestCompleteTask(t *testing.T) {
	srv, dir := newTestServer(t, "2 b\n1 a\n")

	result := callTool(t, srv, "complete_task", map[string]any{"index": 2})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	if got := readFile(t, filepath.Join(dir, "task.txt")); got != "1 a\n" {
		t.Errorf("task.txt = %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "completed.txt")); got != "2 b\n" {
		t.Errorf("completed.txt = %q", got)
	}
}

func TestCompleteTaskOutOfRange(t *testing.T) {
	srv, dir := newTestServer(t, "")

	result := callTool(t, srv, "complete_task", map[string]any{"index": 1})
	if !result.IsError {
		t.Fatal("expected error result for empty list")
	}
	if _, err := os.Stat(filepath.Join(dir, "completed.txt")); !os.IsNotExist(err) {
		t.Error("completed.txt should not be created")
	}
}

func TestReport(t *testing.T) {
	srv, dir := newTestServer(t, "2 b\n1 a\n")
	if err := os.WriteFile(filepath.Join(dir, "completed.txt"), []byte("5 z\n4 y\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := callTool(t, srv, "report", map[string]any{})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out reportOutput
	decodeOutput(t, result, &out)
	if out.Pending.Count != 2 || out.Completed.Count != 2 {
		t.Fatalf("unexpected counts: %+v", out)
	}
	if out.Completed.Tasks[0].Text != "y" {
		t.Errorf("completed not sorted: %+v", out.Completed.Tasks)
	}
}

func TestGetMetrics(t *testing.T) {
	now := time.Now().UTC()
	mc := &fakeMetricsCalculator{
		metrics: &observability.Metrics{
			TasksAdded:      4,
			TasksDeleted:    1,
			TasksCompleted:  2,
			AddedByPriority: map[int]int{1: 3, 2: 1},
			EventCount:      7,
			OldestEvent:     &now,
			NewestEvent:     &now,
		},
	}
	srv, _ := newTestServer(t, "")
	srv.metricsCalc = mc

	result := callTool(t, srv, "get_metrics", map[string]any{"since": "30d"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out metricsOutput
	decodeOutput(t, result, &out)
	if out.TasksAdded != 4 || out.TasksCompleted != 2 || out.EventCount != 7 {
		t.Errorf("unexpected metrics: %+v", out)
	}
	if out.AddedByPriority["1"] != 3 {
		t.Errorf("expected 3 tasks added at priority 1, got %d", out.AddedByPriority["1"])
	}
}

func TestGetMetricsDisabled(t *testing.T) {
	srv, _ := newTestServer(t, "")

	result := callTool(t, srv, "get_metrics", map[string]any{})
	if !result.IsError {
		t.Fatal("expected error when metrics calculator is nil")
	}
}

func TestParseSince(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"7d", false},
		{"24h", false},
		{"30d", false},
		{"x", true},
		{"7w", true},
		{"abd", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseSince(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseSince(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func extractText(result *gomcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(*gomcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
