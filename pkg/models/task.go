package models

import (
	"sort"
	"strconv"
)

// TaskRecord is a single task: an integer priority and free-form text.
// Lower priority values are more urgent and sort first.
//
// Records carry no identifier. An index is a 1-based position in whatever
// listing the caller is looking at and is recomputed on every invocation.
type TaskRecord struct {
	Priority int    `yaml:"priority" json:"priority"`
	Text     string `yaml:"text" json:"text"`
}

// String renders the record in its on-disk form: "<priority> <text>".
func (r TaskRecord) String() string {
	return strconv.Itoa(r.Priority) + " " + r.Text
}

// SortedByPriority returns a copy of records stably sorted by ascending
// priority. Records with equal priority keep their relative order.
func SortedByPriority(records []TaskRecord) []TaskRecord {
	sorted := make([]TaskRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

// InsertionIndex returns the position at which a record with the given
// priority is inserted into an ascending list: after every existing record
// whose priority is less than or equal to it.
func InsertionIndex(records []TaskRecord, priority int) int {
	idx := 0
	for _, r := range records {
		if r.Priority <= priority {
			idx++
		}
	}
	return idx
}
