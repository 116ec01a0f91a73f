package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harrisonrobin/taskdeck/pkg/due"
	"github.com/harrisonrobin/taskdeck/pkg/model"
	"github.com/harrisonrobin/taskdeck/pkg/store"
)

var (
	// ErrInvalidOperation is matched by every mutation the manager refuses.
	ErrInvalidOperation    = errors.New("invalid operation")
	ErrSelfDependency      = fmt.Errorf("%w: a task cannot depend on itself", ErrInvalidOperation)
	ErrDuplicateDependency = fmt.Errorf("%w: dependency already exists", ErrInvalidOperation)
	ErrEmptyName           = fmt.Errorf("%w: task name is required", ErrInvalidOperation)
)

// Manager is the only way to mutate the task collection. Every mutation is
// applied in memory first and then written to the store before returning, so
// on a store error memory may be ahead of disk; the error says so.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	store  store.Store
	order  []*model.Task
	byID   map[string]*model.Task
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock replaces time.Now for due-date defaults and comment timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithLogger sets the logger used for mutation traces.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// Open initialises the store and loads every task into memory.
func Open(ctx context.Context, st store.Store, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:  st,
		byID:   make(map[string]*model.Task),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := st.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	loaded, err := st.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	for _, t := range loaded {
		m.order = append(m.order, t)
		m.byID[t.ID] = t
	}
	m.logger.Debug("tasks loaded", "count", len(m.order))
	return m, nil
}

// Len returns the number of tasks.
func (m *Manager) Len() int {
	return len(m.order)
}

// Tasks returns the tasks in display order. The slice is a copy; the tasks
// are not and must not be modified by the caller.
func (m *Manager) Tasks() []*model.Task {
	out := make([]*model.Task, len(m.order))
	copy(out, m.order)
	return out
}

func (m *Manager) Get(id string) (*model.Task, bool) {
	t, ok := m.byID[id]
	return t, ok
}

// GetByIndex translates a cursor position into a task.
func (m *Manager) GetByIndex(i int) (*model.Task, bool) {
	if i < 0 || i >= len(m.order) {
		return nil, false
	}
	return m.order[i], true
}

// IndexOf returns the display position of id, or -1.
func (m *Manager) IndexOf(id string) int {
	for i, t := range m.order {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// AddTask creates a task from d and returns its id. A missing due date
// becomes the end of the current day and a missing status becomes Pending.
func (m *Manager) AddTask(ctx context.Context, d model.Draft) (string, error) {
	if strings.TrimSpace(d.Name) == "" {
		return "", ErrEmptyName
	}
	t := &model.Task{
		ID:          m.newID(),
		Name:        d.Name,
		DueDate:     d.DueDate,
		TicketRef:   d.TicketRef,
		Description: d.Description,
		Status:      d.Status,
	}
	if t.DueDate == "" {
		t.DueDate = due.Default(m.now())
	}
	if t.Status == "" {
		t.Status = model.PENDING
	}

	m.order = append(m.order, t)
	m.byID[t.ID] = t
	m.logger.Debug("task added", "id", t.ID, "name", t.Name)

	if err := m.store.UpsertTask(ctx, t); err != nil {
		return t.ID, m.storeError("add task", err)
	}
	return t.ID, nil
}

// EditTask applies the non-empty fields of p. Unknown ids are ignored
// without touching the store.
func (m *Manager) EditTask(ctx context.Context, id string, p model.Patch) error {
	t, ok := m.byID[id]
	if !ok {
		return nil
	}
	p.Apply(t)
	m.logger.Debug("task edited", "id", id)
	return m.persist(ctx, "edit task", t)
}

// AddComment appends a timestamped entry to the task's comment log.
func (m *Manager) AddComment(ctx context.Context, id, text string) error {
	t, ok := m.byID[id]
	if !ok {
		return nil
	}
	c := model.NewComment(text, m.now())
	t.Comments = append(t.Comments, c)
	m.logger.Debug("comment added", "id", id)

	if err := m.store.AppendComment(ctx, id, c); err != nil {
		return m.storeError("add comment", err)
	}
	return nil
}

// AddDependency records that id depends on dependencyID.
func (m *Manager) AddDependency(ctx context.Context, id, dependencyID string) error {
	if id == dependencyID {
		return ErrSelfDependency
	}
	t, ok := m.byID[id]
	if !ok {
		return nil
	}
	if !t.AddDependency(dependencyID) {
		return ErrDuplicateDependency
	}
	m.logger.Debug("dependency added", "id", id, "dependency", dependencyID)
	return m.persist(ctx, "add dependency", t)
}

// RemoveDependency drops the edge if present. The owner is written even when
// nothing was removed.
func (m *Manager) RemoveDependency(ctx context.Context, id, dependencyID string) error {
	t, ok := m.byID[id]
	if !ok {
		return nil
	}
	t.RemoveDependency(dependencyID)
	m.logger.Debug("dependency removed", "id", id, "dependency", dependencyID)
	return m.persist(ctx, "remove dependency", t)
}

// DeleteTask removes the task and strips it from every other task's edges,
// writing each task whose edge set changed. Memory is fully updated even
// when some writes fail; every failure is reported.
func (m *Manager) DeleteTask(ctx context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return nil
	}
	delete(m.byID, id)
	if i := m.IndexOf(id); i >= 0 {
		m.order = append(m.order[:i], m.order[i+1:]...)
	}
	m.logger.Debug("task deleted", "id", id)

	var stripped []*model.Task
	for _, t := range m.order {
		if t.RemoveDependency(id) {
			stripped = append(stripped, t)
		}
	}

	var errs []error
	if err := m.store.DeleteTask(ctx, id); err != nil {
		errs = append(errs, m.storeError("delete task", err))
	}
	for _, t := range stripped {
		if err := m.persist(ctx, "strip dependency", t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Search matches term case-insensitively against name, ticket reference and
// description. An empty term matches nothing.
func (m *Manager) Search(term string) []*model.Task {
	if term == "" {
		return nil
	}
	needle := strings.ToLower(term)
	var matches []*model.Task
	for _, t := range m.order {
		if strings.Contains(strings.ToLower(t.Name), needle) ||
			strings.Contains(strings.ToLower(t.TicketRef), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Dependents returns the tasks whose edge list contains id.
func (m *Manager) Dependents(id string) []*model.Task {
	var out []*model.Task
	for _, t := range m.order {
		if t.HasDependency(id) {
			out = append(out, t)
		}
	}
	return out
}

// Resolve maps dependency ids to tasks, silently skipping ids that no longer
// exist.
func (m *Manager) Resolve(ids []string) []*model.Task {
	var out []*model.Task
	for _, id := range ids {
		if t, ok := m.byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (m *Manager) persist(ctx context.Context, op string, t *model.Task) error {
	if err := m.store.UpsertTask(ctx, t); err != nil {
		return m.storeError(op, err)
	}
	return nil
}

func (m *Manager) storeError(op string, err error) error {
	m.logger.Error("store write failed, memory is ahead of disk", "op", op, "error", err)
	return fmt.Errorf("%s: change kept in memory but not saved: %w", op, err)
}
