package models

// ReportSection is one half of a report: a count and the records in
// ascending priority order.
type ReportSection struct {
	Count int          `yaml:"count" json:"count"`
	Tasks []TaskRecord `yaml:"tasks" json:"tasks"`
}

// Report summarizes the pending and completed task lists.
type Report struct {
	Pending   ReportSection `yaml:"pending" json:"pending"`
	Completed ReportSection `yaml:"completed" json:"completed"`
}

// NewReportSection sorts records by priority and wraps them with their count.
func NewReportSection(records []TaskRecord) ReportSection {
	sorted := SortedByPriority(records)
	return ReportSection{Count: len(sorted), Tasks: sorted}
}
