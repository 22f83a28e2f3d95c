package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	TasksAdded      int            `json:"tasks_added"`
	TasksDeleted    int            `json:"tasks_deleted"`
	TasksCompleted  int            `json:"tasks_completed"`
	AddedByPriority map[int]int    `json:"added_by_priority"`
	EventCount      int            `json:"event_count"`
	EventsByType    map[string]int `json:"events_by_type"`
	OldestEvent     *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent     *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		AddedByPriority: make(map[int]int),
		EventsByType:    make(map[string]int),
	}

	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t
		m.EventsByType[event.Type]++

		switch event.Type {
		case "task.added":
			m.TasksAdded++
			// JSON numbers decode as float64.
			if p, ok := event.Data["priority"].(float64); ok {
				m.AddedByPriority[int(p)]++
			}
		case "task.deleted":
			m.TasksDeleted++
		case "task.completed":
			m.TasksCompleted++
		}
	}

	return m, nil
}
