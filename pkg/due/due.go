package due

import (
	"strings"
	"time"

	"github.com/harrisonrobin/taskdeck/pkg/model"
)

// Class buckets a due date relative to now for display.
type Class int

const (
	Normal Class = iota
	Overdue
	Urgent
	PlentyOfTime
)

func (c Class) String() string {
	switch c {
	case Overdue:
		return "overdue"
	case Urgent:
		return "urgent"
	case PlentyOfTime:
		return "plenty_of_time"
	default:
		return "normal"
	}
}

const dateLayout = "2006-01-02"

// Default returns the due date given to tasks created without one:
// 23:59:59 of the day of now.
func Default(now time.Time) string {
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	return end.Format(model.TimestampLayout)
}

// Classify looks only at the date prefix of dueDate (up to the first space).
// Anything that does not parse as YYYY-MM-DD is Normal.
func Classify(dueDate string, now time.Time) Class {
	fields := strings.Fields(dueDate)
	if len(fields) == 0 {
		return Normal
	}
	day, err := time.ParseInLocation(dateLayout, fields[0], now.Location())
	if err != nil {
		return Normal
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return Overdue
	}
	if day.Sub(now) < 24*time.Hour {
		return Urgent
	}
	return PlentyOfTime
}

// Sweep returns the tasks that are overdue at now and not yet completed,
// keeping their order.
func Sweep(tasks []*model.Task, now time.Time) []*model.Task {
	var swept []*model.Task
	for _, t := range tasks {
		if t.Status == model.COMPLETED {
			continue
		}
		if Classify(t.DueDate, now) == Overdue {
			swept = append(swept, t)
		}
	}
	return swept
}
