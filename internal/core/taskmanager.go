package core

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/task-cli/pkg/models"
)

// TaskStore is the subset of storage.TaskStore that TaskManager needs.
// Defining it here keeps core independent of the storage package.
type TaskStore interface {
	LoadPending() ([]models.TaskRecord, error)
	LoadCompleted() ([]models.TaskRecord, error)
	SavePending(records []models.TaskRecord) error
	MoveToCompleted(remaining []models.TaskRecord, done models.TaskRecord) error
}

// TaskManager defines the task list operations.
type TaskManager interface {
	AddTask(priority int, text string) (*models.TaskRecord, error)
	ListTasks() ([]models.TaskRecord, error)
	DeleteTask(index int) (*models.TaskRecord, error)
	CompleteTask(index int) (*models.TaskRecord, error)
	Report() (*models.Report, error)
}

// taskManager implements TaskManager on top of a TaskStore. Every operation
// loads the full list, mutates it in memory, and writes it back.
type taskManager struct {
	store          TaskStore
	deleteIndexing models.IndexMode
	eventLogger    EventLogger
}

// NewTaskManager creates a new TaskManager. deleteIndexing selects whether
// DeleteTask addresses the sorted view or raw file order. eventLogger may be
// nil when event logging is disabled.
func NewTaskManager(store TaskStore, deleteIndexing models.IndexMode, eventLogger EventLogger) TaskManager {
	if deleteIndexing == "" {
		deleteIndexing = models.IndexSorted
	}
	return &taskManager{
		store:          store,
		deleteIndexing: deleteIndexing,
		eventLogger:    eventLogger,
	}
}

// AddTask inserts a task after every pending task of equal or higher urgency
// and rewrites the pending file.
func (tm *taskManager) AddTask(priority int, text string) (*models.TaskRecord, error) {
	text = strings.TrimSpace(text)
	if strings.ContainsAny(text, "\r\n") {
		return nil, fmt.Errorf("adding task: text must not contain a newline: %w", ErrInvalidInput)
	}

	records, err := tm.store.LoadPending()
	if err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}

	rec := models.TaskRecord{Priority: priority, Text: text}
	idx := models.InsertionIndex(records, priority)
	records = insertAt(records, idx, rec)

	if err := tm.store.SavePending(records); err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}

	tm.logEvent("task.added", map[string]any{
		"priority": rec.Priority,
		"text":     rec.Text,
		"position": idx + 1,
	})
	return &rec, nil
}

// ListTasks returns the pending tasks in ascending priority order.
func (tm *taskManager) ListTasks() ([]models.TaskRecord, error) {
	records, err := tm.store.LoadPending()
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return models.SortedByPriority(records), nil
}

// DeleteTask removes the task at the 1-based index. With sorted indexing the
// index addresses the ListTasks view and the remainder is written sorted;
// with raw indexing it addresses the file's line order, which is preserved.
func (tm *taskManager) DeleteTask(index int) (*models.TaskRecord, error) {
	records, err := tm.store.LoadPending()
	if err != nil {
		return nil, fmt.Errorf("deleting task: %w", err)
	}
	if tm.deleteIndexing == models.IndexSorted {
		records = models.SortedByPriority(records)
	}
	if index < 1 || index > len(records) {
		return nil, &IndexError{Op: "deleting task", Index: index, Count: len(records)}
	}

	removed, remaining := removeAt(records, index-1)
	if err := tm.store.SavePending(remaining); err != nil {
		return nil, fmt.Errorf("deleting task: %w", err)
	}

	tm.logEvent("task.deleted", map[string]any{
		"index":    index,
		"indexing": string(tm.deleteIndexing),
		"priority": removed.Priority,
		"text":     removed.Text,
	})
	return &removed, nil
}

// CompleteTask moves the task at the 1-based index of the sorted view from
// the pending list to the completed list.
func (tm *taskManager) CompleteTask(index int) (*models.TaskRecord, error) {
	records, err := tm.store.LoadPending()
	if err != nil {
		return nil, fmt.Errorf("completing task: %w", err)
	}
	sorted := models.SortedByPriority(records)
	if index < 1 || index > len(sorted) {
		return nil, &IndexError{Op: "completing task", Index: index, Count: len(sorted)}
	}

	done, remaining := removeAt(sorted, index-1)
	if err := tm.store.MoveToCompleted(remaining, done); err != nil {
		return nil, err
	}

	tm.logEvent("task.completed", map[string]any{
		"index":    index,
		"priority": done.Priority,
		"text":     done.Text,
	})
	return &done, nil
}

// Report returns both lists sorted by priority.
func (tm *taskManager) Report() (*models.Report, error) {
	pending, err := tm.store.LoadPending()
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}
	completed, err := tm.store.LoadCompleted()
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}
	return &models.Report{
		Pending:   models.NewReportSection(pending),
		Completed: models.NewReportSection(completed),
	}, nil
}

func (tm *taskManager) logEvent(eventType string, data map[string]any) {
	if tm.eventLogger != nil {
		_ = tm.eventLogger.LogEvent(eventType, data)
	}
}

func insertAt(records []models.TaskRecord, idx int, rec models.TaskRecord) []models.TaskRecord {
	out := make([]models.TaskRecord, 0, len(records)+1)
	out = append(out, records[:idx]...)
	out = append(out, rec)
	return append(out, records[idx:]...)
}

func removeAt(records []models.TaskRecord, idx int) (models.TaskRecord, []models.TaskRecord) {
	removed := records[idx]
	out := make([]models.TaskRecord, 0, len(records)-1)
	out = append(out, records[:idx]...)
	return removed, append(out, records[idx+1:]...)
}
