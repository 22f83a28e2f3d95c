// Package internal provides the App struct that wires the task list
// components together and initializes the CLI layer.
package internal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/valter-silva-au/task-cli/internal/cli"
	"github.com/valter-silva-au/task-cli/internal/core"
	"github.com/valter-silva-au/task-cli/internal/observability"
	"github.com/valter-silva-au/task-cli/internal/storage"
	"github.com/valter-silva-au/task-cli/pkg/models"
)

// App holds all service dependencies for the task CLI.
type App struct {
	BasePath string
	Config   *models.Config

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Storage layer
	Store storage.TaskStore

	// Core services
	TaskMgr core.TaskManager

	// Observability, nil unless events are enabled.
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components. basePath holds .taskconfig and,
// unless configured otherwise, task.txt and completed.txt.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	app.Config = cfg

	// --- Storage layer ---
	app.Store = storage.NewTaskStore(cfg.PendingFile, cfg.CompletedFile)

	// --- Observability ---
	var evtLogger core.EventLogger
	if cfg.Events.Enabled {
		app.EventLog, err = observability.NewJSONLEventLog(cfg.Events.Path)
		if err != nil {
			return nil, fmt.Errorf("opening event log: %w", err)
		}
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
		evtLogger = &eventLogAdapter{log: app.EventLog, warn: os.Stderr}
	}

	// --- Core services ---
	app.TaskMgr = core.NewTaskManager(app.Store, cfg.DeleteIndexing, evtLogger)

	// --- Wire CLI ---
	cli.TaskMgr = app.TaskMgr
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases resources held by the App.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the directory holding the task files.
// TASK_HOME wins; otherwise the current directory is used.
func ResolveBasePath() string {
	if home := os.Getenv("TASK_HOME"); home != "" {
		return home
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// eventLogAdapter adapts observability.EventLog to core.EventLogger. The
// mutation has already been committed when an event is logged, so a failed
// write is reported on warn and never returned as an operation failure.
type eventLogAdapter struct {
	log  observability.EventLog
	warn io.Writer
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	err := a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
	if err != nil && a.warn != nil {
		_, _ = fmt.Fprintf(a.warn, "Warning: recording %s event: %v\n", eventType, err)
	}
	return err
}
