package observability

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// For any mix of task events, each counter matches the number of events of
// its type and EventCount is the total.
func TestMetricsCountsMatchEvents(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		el, err := NewJSONLEventLog(filepath.Join(t.TempDir(), "events.jsonl"))
		if err != nil {
			rt.Fatalf("creating event log: %v", err)
		}
		defer el.Close()

		types := []string{"task.added", "task.deleted", "task.completed", "other"}
		counts := make(map[string]int)
		baseTime := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

		n := rapid.IntRange(0, 40).Draw(rt, "n")
		for i := 0; i < n; i++ {
			eventType := rapid.SampledFrom(types).Draw(rt, fmt.Sprintf("type_%d", i))
			counts[eventType]++
			event := Event{
				Time:    baseTime.Add(time.Duration(i) * time.Minute),
				Level:   "INFO",
				Type:    eventType,
				Message: eventType,
				Data:    map[string]any{"priority": rapid.IntRange(-5, 5).Draw(rt, fmt.Sprintf("priority_%d", i))},
			}
			if err := el.Write(event); err != nil {
				rt.Fatalf("writing event: %v", err)
			}
		}

		m, err := NewMetricsCalculator(el).Calculate(baseTime.Add(-time.Hour))
		if err != nil {
			rt.Fatalf("calculating metrics: %v", err)
		}

		if m.EventCount != n {
			rt.Errorf("EventCount = %d, want %d", m.EventCount, n)
		}
		if m.TasksAdded != counts["task.added"] {
			rt.Errorf("TasksAdded = %d, want %d", m.TasksAdded, counts["task.added"])
		}
		if m.TasksDeleted != counts["task.deleted"] {
			rt.Errorf("TasksDeleted = %d, want %d", m.TasksDeleted, counts["task.deleted"])
		}
		if m.TasksCompleted != counts["task.completed"] {
			rt.Errorf("TasksCompleted = %d, want %d", m.TasksCompleted, counts["task.completed"])
		}

		byPriority := 0
		for _, c := range m.AddedByPriority {
			byPriority += c
		}
		if byPriority != m.TasksAdded {
			rt.Errorf("AddedByPriority sums to %d, want %d", byPriority, m.TasksAdded)
		}
	})
}
