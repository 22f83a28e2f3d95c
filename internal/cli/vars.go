package cli

import (
	"github.com/valter-silva-au/task-cli/internal/core"
	"github.com/valter-silva-au/task-cli/internal/observability"
)

// Service instances, set during app initialization in app.go.
var (
	TaskMgr     core.TaskManager
	MetricsCalc observability.MetricsCalculator
)
