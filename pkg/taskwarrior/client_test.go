package taskwarrior

import (
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/taskdeck/pkg/model"
)

func TestParseTasksSingleObject(t *testing.T) {
	input := `{
		"uuid": "f45a05b3-c12e-42e5-9c9c-333333333333",
		"description": "Buy milk",
		"status": "pending",
		"due": "20230101T120000Z",
		"project": "Groceries",
		"tags": ["buy", "food"],
		"annotations": [
			{"entry": "20230101T120500Z", "description": "Don't forget almond milk"}
		]
	}`

	client := NewClient()
	tasks, err := client.ParseTasks(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	task := tasks[0]

	if task.UUID != "f45a05b3-c12e-42e5-9c9c-333333333333" {
		t.Errorf("Expected UUID f45a05b3-c12e-42e5-9c9c-333333333333, got %s", task.UUID)
	}
	if task.Description != "Buy milk" {
		t.Errorf("Expected Description 'Buy milk', got '%s'", task.Description)
	}
	if task.Project != "Groceries" {
		t.Errorf("Expected Project 'Groceries', got '%s'", task.Project)
	}
	if len(task.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(task.Tags))
	}
	if len(task.Annotations) != 1 {
		t.Errorf("Expected 1 annotation, got %d", len(task.Annotations))
	}
	expectedDue, _ := time.Parse(time.RFC3339, "2023-01-01T12:00:00Z")
	if !task.Due.Time.Equal(expectedDue) {
		t.Errorf("Expected Due %v, got %v", expectedDue, task.Due.Time)
	}
}

func TestParseTasksArrayAndStream(t *testing.T) {
	client := NewClient()

	array := `  [{"uuid":"a","description":"one","status":"pending"},
	 {"uuid":"b","description":"two","status":"completed","depends":["a"]}]`
	tasks, err := client.ParseTasks(strings.NewReader(array))
	if err != nil {
		t.Fatalf("ParseTasks(array) failed: %v", err)
	}
	if len(tasks) != 2 || tasks[1].Depends[0] != "a" {
		t.Errorf("Unexpected tasks from array: %+v", tasks)
	}

	stream := "{\"uuid\":\"a\",\"description\":\"one\",\"status\":\"pending\"}\n" +
		"{\"uuid\":\"b\",\"description\":\"two\",\"status\":\"pending\",\"depends\":\"a, c\"}\n"
	tasks, err = client.ParseTasks(strings.NewReader(stream))
	if err != nil {
		t.Fatalf("ParseTasks(stream) failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks from stream, got %d", len(tasks))
	}
	if got := tasks[1].Depends; len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Expected comma separated depends to be split, got %v", got)
	}

	tasks, err = client.ParseTasks(strings.NewReader("  \n"))
	if err != nil || len(tasks) != 0 {
		t.Errorf("Expected empty input to give no tasks, got %v, %v", tasks, err)
	}

	if _, err := client.ParseTasks(strings.NewReader("[{")); err == nil {
		t.Error("Expected an error for truncated json")
	}
}

func TestRecords(t *testing.T) {
	due := &CustomTime{time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC)}
	noted := &CustomTime{time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)}
	started := &CustomTime{time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC)}

	tasks := []Task{
		{UUID: "a", Description: "Plan", Status: PENDING, Project: "OPS", Due: due,
			Tags: []string{"home", "weekly"},
			Annotations: []Annotation{{Description: "call Bob", Entry: noted}}},
		{UUID: "b", Description: "Build", Status: PENDING, Start: started, Depends: dependsList{"a"}},
		{UUID: "c", Description: "Ship", Status: COMPLETED},
		{UUID: "d", Description: "Gone", Status: DELETED},
		{UUID: "e", Description: "Template", Status: RECURRING},
	}

	records := Records(tasks)
	if len(records) != 3 {
		t.Fatalf("Expected deleted and recurring tasks to be skipped, got %d records", len(records))
	}

	plan := records[0]
	if plan.Name != "Plan" || plan.TicketRef != "OPS" || plan.ExternalID != "a" || plan.Status != model.PENDING {
		t.Errorf("Unexpected record %+v", plan)
	}
	if want := due.Time.In(time.Local).Format(model.TimestampLayout); plan.DueDate != want {
		t.Errorf("Expected due date %q, got %q", want, plan.DueDate)
	}
	if plan.Description != "Tags: home, weekly" {
		t.Errorf("Expected tags in description, got %q", plan.Description)
	}
	if len(plan.Comments) != 1 || plan.Comments[0].Text != "call Bob" ||
		plan.Comments[0].Timestamp != noted.Time.In(time.Local).Format(model.TimestampLayout) {
		t.Errorf("Unexpected comments %+v", plan.Comments)
	}

	if records[1].Status != model.IN_PROGRESS {
		t.Errorf("Expected started task to be In Progress, got %q", records[1].Status)
	}
	if len(records[1].DependsOn) != 1 || records[1].DependsOn[0] != "a" {
		t.Errorf("Expected dependency on a, got %v", records[1].DependsOn)
	}
	if records[2].Status != model.COMPLETED || records[2].DueDate != "" {
		t.Errorf("Unexpected completed record %+v", records[2])
	}
}
