package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/harrisonrobin/taskdeck/pkg/model"
)

// ErrFailure matches every error produced by a Store operation.
var ErrFailure = errors.New("store failure")

// ErrLocked is returned by Open when another process holds the database.
var ErrLocked = errors.New("database is in use by another taskdeck process")

// Error describes a failed Store operation.
type Error struct {
	Op     string
	TaskID string
	Err    error
}

func (e *Error) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("store: %s %s: %v", e.Op, e.TaskID, e.Err)
	}
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes every *Error match ErrFailure.
func (e *Error) Is(target error) bool { return target == ErrFailure }

func wrap(op, taskID string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, TaskID: taskID, Err: err}
}

// Store is the durable persistence boundary for tasks, comments and
// dependency edges. Every method is a synchronous write or read.
type Store interface {
	// Initialize creates the tables if they do not exist yet.
	Initialize(ctx context.Context) error
	// LoadAll returns every task in insertion order with its comments and
	// dependency edges attached.
	LoadAll(ctx context.Context) ([]*model.Task, error)
	// UpsertTask replaces the task's scalar fields and its whole edge set.
	UpsertTask(ctx context.Context, t *model.Task) error
	// AppendComment inserts one comment row.
	AppendComment(ctx context.Context, taskID string, c model.Comment) error
	// DeleteTask removes the task, its comments, and every edge touching it.
	DeleteTask(ctx context.Context, taskID string) error
	Close() error
}
