package model

import (
	"testing"
	"time"
)

func TestTaskDependencies(t *testing.T) {
	task := &Task{ID: "a"}

	if !task.AddDependency("b") {
		t.Fatal("Expected first AddDependency to change the task")
	}
	if task.AddDependency("b") {
		t.Error("Expected duplicate AddDependency to be refused")
	}
	task.AddDependency("c")
	if len(task.Dependencies) != 2 || task.Dependencies[0] != "b" || task.Dependencies[1] != "c" {
		t.Errorf("Expected dependencies [b c], got %v", task.Dependencies)
	}

	if task.RemoveDependency("x") {
		t.Error("Expected removing an unknown id to report no change")
	}
	if !task.RemoveDependency("b") {
		t.Error("Expected removing b to report a change")
	}
	if len(task.Dependencies) != 1 || task.Dependencies[0] != "c" {
		t.Errorf("Expected dependencies [c], got %v", task.Dependencies)
	}
}

func TestPatchApply(t *testing.T) {
	task := &Task{Name: "old", DueDate: "2024-01-01", TicketRef: "T-1", Description: "d", Status: PENDING}

	if (Patch{}).Apply(task) {
		t.Error("Expected empty patch to change nothing")
	}

	changed := Patch{Name: "new", Status: COMPLETED}.Apply(task)
	if !changed {
		t.Fatal("Expected patch to report a change")
	}
	if task.Name != "new" || task.Status != COMPLETED {
		t.Errorf("Expected name/status to be patched, got %q/%q", task.Name, task.Status)
	}
	if task.TicketRef != "T-1" || task.DueDate != "2024-01-01" || task.Description != "d" {
		t.Errorf("Expected untouched fields to survive, got %+v", task)
	}
}

func TestStatusIndex(t *testing.T) {
	tests := map[string]int{
		PENDING:     0,
		IN_PROGRESS: 1,
		COMPLETED:   2,
		"Blocked":   0,
	}
	for status, want := range tests {
		task := &Task{Status: status}
		if got := task.StatusIndex(); got != want {
			t.Errorf("StatusIndex(%q) = %d, want %d", status, got, want)
		}
	}
}

func TestCommentString(t *testing.T) {
	c := NewComment("hello", time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC))
	if got := c.String(); got != "[2024-02-03 04:05:06] hello" {
		t.Errorf("Expected '[2024-02-03 04:05:06] hello', got '%s'", got)
	}
}
