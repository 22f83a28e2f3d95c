package models

import (
	"reflect"
	"testing"
)

func TestTaskRecord_String(t *testing.T) {
	tests := []struct {
		rec  TaskRecord
		want string
	}{
		{TaskRecord{Priority: 2, Text: "hello world"}, "2 hello world"},
		{TaskRecord{Priority: -1, Text: "urgent"}, "-1 urgent"},
		{TaskRecord{Priority: 0, Text: ""}, "0 "},
	}
	for _, tt := range tests {
		if got := tt.rec.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSortedByPriority(t *testing.T) {
	in := []TaskRecord{{3, "c"}, {1, "a"}, {2, "b1"}, {1, "a2"}, {2, "b2"}}
	want := []TaskRecord{{1, "a"}, {1, "a2"}, {2, "b1"}, {2, "b2"}, {3, "c"}}

	got := SortedByPriority(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedByPriority() = %v, want %v", got, want)
	}
	if in[0].Text != "c" {
		t.Error("SortedByPriority must not modify its input")
	}
	if got := SortedByPriority(nil); len(got) != 0 {
		t.Errorf("SortedByPriority(nil) = %v, want empty", got)
	}
}

func TestInsertionIndex(t *testing.T) {
	records := []TaskRecord{{1, "a"}, {2, "b"}, {2, "b2"}, {4, "d"}}
	tests := []struct {
		priority int
		want     int
	}{
		{0, 0},
		{1, 1},
		{2, 3},
		{3, 3},
		{4, 4},
		{9, 4},
	}
	for _, tt := range tests {
		if got := InsertionIndex(records, tt.priority); got != tt.want {
			t.Errorf("InsertionIndex(%d) = %d, want %d", tt.priority, got, tt.want)
		}
	}
	if got := InsertionIndex(nil, 5); got != 0 {
		t.Errorf("InsertionIndex(nil) = %d, want 0", got)
	}
}

func TestNewReportSection(t *testing.T) {
	section := NewReportSection([]TaskRecord{{2, "b"}, {1, "a"}})
	if section.Count != 2 {
		t.Errorf("Count = %d, want 2", section.Count)
	}
	if section.Tasks[0].Text != "a" {
		t.Errorf("Tasks not sorted: %v", section.Tasks)
	}
}
