package store

import "github.com/harrisonrobin/taskdeck/pkg/model"

// taskRecord is a row of the tasks table. Seq records insertion order and is
// never rewritten by an update.
type taskRecord struct {
	ID          string `gorm:"primaryKey;size:36"`
	Seq         int64  `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	DueDate     string
	TicketRef   string
	Description string
	Status      string
}

func (taskRecord) TableName() string {
	return "tasks"
}

type commentRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	TaskID    string `gorm:"size:36;index;not null"`
	Comment   string
	Timestamp string
}

func (commentRecord) TableName() string {
	return "comments"
}

type dependencyRecord struct {
	TaskID       string `gorm:"primaryKey;size:36"`
	DependencyID string `gorm:"primaryKey;size:36;index"`
	Position     int    `gorm:"not null;default:0"`
}

func (dependencyRecord) TableName() string {
	return "dependencies"
}

func fromRecord(r taskRecord) *model.Task {
	return &model.Task{
		ID:          r.ID,
		Name:        r.Name,
		DueDate:     r.DueDate,
		TicketRef:   r.TicketRef,
		Description: r.Description,
		Status:      r.Status,
	}
}

// scalarColumns is the column set rewritten by an update. A map is used
// because gorm skips zero values when updating from a struct.
func scalarColumns(t *model.Task) map[string]any {
	return map[string]any{
		"name":        t.Name,
		"due_date":    t.DueDate,
		"ticket_ref":  t.TicketRef,
		"description": t.Description,
		"status":      t.Status,
	}
}

func edgeRecords(t *model.Task) []dependencyRecord {
	edges := make([]dependencyRecord, 0, len(t.Dependencies))
	for i, dep := range t.Dependencies {
		edges = append(edges, dependencyRecord{TaskID: t.ID, DependencyID: dep, Position: i})
	}
	return edges
}
