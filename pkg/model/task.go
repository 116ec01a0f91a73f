package model

import (
	"fmt"
	"time"
)

const (
	PENDING     = "Pending"
	IN_PROGRESS = "In Progress"
	COMPLETED   = "Completed"
)

// Statuses is the fixed cycle used by the status picker.
var Statuses = []string{PENDING, IN_PROGRESS, COMPLETED}

// TimestampLayout is used for default due dates and comment timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Comment is a single entry of a task's append-only comment log.
type Comment struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Text      string `json:"text" yaml:"text"`
}

// String renders the comment the way it is shown in the table and detail view.
func (c Comment) String() string {
	return fmt.Sprintf("[%s] %s", c.Timestamp, c.Text)
}

// NewComment stamps text with the given wall-clock time.
func NewComment(text string, at time.Time) Comment {
	return Comment{Timestamp: at.Format(TimestampLayout), Text: text}
}

// Task is the trackable unit of work. Instances are owned by tasks.Manager;
// everything else should treat them as read-only.
type Task struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	DueDate      string    `json:"due_date" yaml:"due_date"`
	TicketRef    string    `json:"ticket_ref,omitempty" yaml:"ticket_ref,omitempty"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	Status       string    `json:"status" yaml:"status"`
	Comments     []Comment `json:"comments,omitempty" yaml:"comments,omitempty"`
	Dependencies []string  `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// HasDependency reports whether id is already in the edge list.
func (t *Task) HasDependency(id string) bool {
	for _, dep := range t.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}

// AddDependency appends id unless it is already present. It returns false
// when nothing changed.
func (t *Task) AddDependency(id string) bool {
	if t.HasDependency(id) {
		return false
	}
	t.Dependencies = append(t.Dependencies, id)
	return true
}

// RemoveDependency drops every occurrence of id and reports whether the
// edge list changed.
func (t *Task) RemoveDependency(id string) bool {
	kept := t.Dependencies[:0]
	removed := false
	for _, dep := range t.Dependencies {
		if dep == id {
			removed = true
			continue
		}
		kept = append(kept, dep)
	}
	t.Dependencies = kept
	return removed
}

// StatusIndex returns the position of the task's status in Statuses, or 0
// for free-text statuses.
func (t *Task) StatusIndex() int {
	for i, s := range Statuses {
		if s == t.Status {
			return i
		}
	}
	return 0
}

// Draft carries the fields accepted when a task is created.
type Draft struct {
	Name        string
	DueDate     string
	TicketRef   string
	Description string
	Status      string
}

// Patch holds one optional value per editable attribute. Empty strings are
// treated as absent, so an edit can never blank a field.
type Patch struct {
	Name        string
	DueDate     string
	TicketRef   string
	Description string
	Status      string
}

// Apply overwrites the task fields present in the patch and reports whether
// anything was set.
func (p Patch) Apply(t *Task) bool {
	changed := false
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
			changed = true
		}
	}
	set(&t.Name, p.Name)
	set(&t.DueDate, p.DueDate)
	set(&t.TicketRef, p.TicketRef)
	set(&t.Description, p.Description)
	set(&t.Status, p.Status)
	return changed
}

// Imported is a task coming from another tool. ExternalID and DependsOn use
// the other tool's identifiers; the importer resolves them to task ids.
type Imported struct {
	Draft
	ExternalID string
	Comments   []Comment
	DependsOn  []string
}
