// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the task list as tools for AI coding assistants.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/task-cli/internal/core"
	"github.com/valter-silva-au/task-cli/internal/observability"
	"github.com/valter-silva-au/task-cli/pkg/models"
)

// Server wraps the task manager and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	taskMgr     core.TaskManager
	metricsCalc observability.MetricsCalculator

	// mu serializes tool calls so read-modify-write cycles on the task files
	// never interleave within one server process.
	mu sync.Mutex
}

// NewServer creates a new MCP server backed by taskMgr. metricsCalc may be
// nil when the event log is disabled.
func NewServer(taskMgr core.TaskManager, metricsCalc observability.MetricsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		taskMgr:     taskMgr,
		metricsCalc: metricsCalc,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "task", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskOutput struct {
	Index    int    `json:"index,omitempty"`
	Priority int    `json:"priority"`
	Text     string `json:"text"`
}

type addTaskInput struct {
	Priority int    `json:"priority" jsonschema:"the task priority; lower values are more urgent"`
	Text     string `json:"text" jsonschema:"the task description (single line)"`
}

type addTaskOutput struct {
	Message string     `json:"message"`
	Task    taskOutput `json:"task"`
}

type listTasksInput struct{}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type indexInput struct {
	Index int `json:"index" jsonschema:"the 1-based index of the task as shown by list_tasks"`
}

type indexOutput struct {
	Message string     `json:"message"`
	Task    taskOutput `json:"task"`
}

type reportInput struct{}

type reportOutput struct {
	Pending   listTasksOutput `json:"pending"`
	Completed listTasksOutput `json:"completed"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	TasksAdded      int            `json:"tasks_added"`
	TasksDeleted    int            `json:"tasks_deleted"`
	TasksCompleted  int            `json:"tasks_completed"`
	AddedByPriority map[string]int `json:"added_by_priority"`
	EventCount      int            `json:"event_count"`
	OldestEvent     string         `json:"oldest_event,omitempty"`
	NewestEvent     string         `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Add a pending task with the given priority. Lower priorities sort first.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List pending tasks in ascending priority order with their 1-based indexes.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Delete the pending task with the given 1-based index.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "complete_task",
		Description: "Mark the pending task with the given 1-based index as done.",
	}, s.handleCompleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "report",
		Description: "Return pending and completed tasks, each sorted by priority.",
	}, s.handleReport)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get task counts aggregated from the event log (requires events to be enabled).",
	}, s.handleGetMetrics)
}

// --- Tool handlers ---

func (s *Server) handleAddTask(_ context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, addTaskOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return errorResult("text is required"), addTaskOutput{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.taskMgr.AddTask(input.Priority, input.Text)
	if err != nil {
		return errorResult(fmt.Sprintf("adding task: %s", err)), addTaskOutput{}, nil
	}

	return nil, addTaskOutput{
		Message: fmt.Sprintf("Added task: %q with priority %d", rec.Text, rec.Priority),
		Task:    toOutput(0, *rec),
	}, nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, _ listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.taskMgr.ListTasks()
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}
	return nil, toListOutput(tasks), nil
}

func (s *Server) handleDeleteTask(_ context.Context, _ *gomcp.CallToolRequest, input indexInput) (*gomcp.CallToolResult, indexOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.taskMgr.DeleteTask(input.Index)
	if err != nil {
		if errors.Is(err, core.ErrIndexOutOfRange) {
			return errorResult(fmt.Sprintf("task with index #%d does not exist. Nothing deleted.", input.Index)), indexOutput{}, nil
		}
		return errorResult(fmt.Sprintf("deleting task: %s", err)), indexOutput{}, nil
	}

	return nil, indexOutput{
		Message: fmt.Sprintf("Deleted task #%d", input.Index),
		Task:    toOutput(input.Index, *rec),
	}, nil
}

func (s *Server) handleCompleteTask(_ context.Context, _ *gomcp.CallToolRequest, input indexInput) (*gomcp.CallToolResult, indexOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.taskMgr.CompleteTask(input.Index)
	if err != nil {
		if errors.Is(err, core.ErrIndexOutOfRange) {
			return errorResult(fmt.Sprintf("no incomplete item with index #%d exists.", input.Index)), indexOutput{}, nil
		}
		return errorResult(fmt.Sprintf("completing task: %s", err)), indexOutput{}, nil
	}

	return nil, indexOutput{
		Message: "Marked item as done.",
		Task:    toOutput(input.Index, *rec),
	}, nil
}

func (s *Server) handleReport(_ context.Context, _ *gomcp.CallToolRequest, _ reportInput) (*gomcp.CallToolResult, reportOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.taskMgr.Report()
	if err != nil {
		return errorResult(fmt.Sprintf("building report: %s", err)), reportOutput{}, nil
	}

	return nil, reportOutput{
		Pending:   toListOutput(report.Pending.Tasks),
		Completed: toListOutput(report.Completed.Tasks),
	}, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (events may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := emptyMetricsOutput()
	out.TasksAdded = metrics.TasksAdded
	out.TasksDeleted = metrics.TasksDeleted
	out.TasksCompleted = metrics.TasksCompleted
	out.EventCount = metrics.EventCount
	for p, n := range metrics.AddedByPriority {
		out.AddedByPriority[fmt.Sprintf("%d", p)] = n
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

// --- Helpers ---

func toOutput(index int, rec models.TaskRecord) taskOutput {
	return taskOutput{Index: index, Priority: rec.Priority, Text: rec.Text}
}

func toListOutput(records []models.TaskRecord) listTasksOutput {
	out := listTasksOutput{
		Tasks: make([]taskOutput, len(records)),
		Count: len(records),
	}
	for i, r := range records {
		out.Tasks[i] = toOutput(i+1, r)
	}
	return out
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{AddedByPriority: make(map[string]int)}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	var num int
	if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
