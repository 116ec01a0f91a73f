package nav

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harrisonrobin/taskdeck/pkg/model"
	"github.com/harrisonrobin/taskdeck/pkg/store"
	"github.com/harrisonrobin/taskdeck/pkg/tasks"
)

// Repository is the part of tasks.Manager the session needs.
type Repository interface {
	Len() int
	Tasks() []*model.Task
	Get(id string) (*model.Task, bool)
	GetByIndex(i int) (*model.Task, bool)
	IndexOf(id string) int
	Search(term string) []*model.Task
	Dependents(id string) []*model.Task
	Resolve(ids []string) []*model.Task

	AddTask(ctx context.Context, d model.Draft) (string, error)
	EditTask(ctx context.Context, id string, p model.Patch) error
	AddComment(ctx context.Context, id, text string) error
	AddDependency(ctx context.Context, id, dependencyID string) error
	RemoveDependency(ctx context.Context, id, dependencyID string) error
	DeleteTask(ctx context.Context, id string) error
}

var _ Repository = (*tasks.Manager)(nil)

var addTaskPrompts = []string{
	"Name",
	"Due Date (YYYY-MM-DD) [leave empty for end of today]",
	"Ticket Reference",
	"Description",
	"Status [Pending/In Progress/Completed]",
}

// Machine is the interactive session controller. It holds only view state
// and never mutates tasks except through the Repository.
type Machine struct {
	repo Repository

	mode         Mode
	selected     int
	showComments bool
	message      string
	isErr        bool

	// taskID is the task a detail view or sub-state works on.
	taskID string
	field  Field

	statusIdx int

	picks   []string
	pickIdx int

	addStep int
	draft   model.Draft

	term     string
	matches  []string
	matchIdx int
}

// New starts a session in ListView with the first task selected.
func New(repo Repository) *Machine {
	return &Machine{repo: repo, mode: ListView}
}

func (m *Machine) Mode() Mode {
	return m.mode
}

func (m *Machine) Selected() int {
	return m.selected
}

func (m *Machine) ShowComments() bool {
	return m.showComments
}

// SetShowComments sets the comment preview flag, e.g. from saved session
// state.
func (m *Machine) SetShowComments(show bool) {
	m.showComments = show
}

// SelectedID returns the id of the task under the cursor, if any.
func (m *Machine) SelectedID() string {
	if t, ok := m.repo.GetByIndex(m.selected); ok {
		return t.ID
	}
	return ""
}

// SelectID moves the cursor to the task with the given id. Unknown ids
// leave the selection alone.
func (m *Machine) SelectID(id string) {
	if i := m.repo.IndexOf(id); i >= 0 {
		m.selected = i
	}
}

// Done reports whether the session has terminated.
func (m *Machine) Done() bool {
	return m.mode == Terminated
}

// Handle processes one input event to completion, including any store
// write it triggers.
func (m *Machine) Handle(ctx context.Context, in Input) {
	m.message, m.isErr = "", false

	if m.mode == Terminated {
		return
	}
	if in.Key == KeyEscape && m.mode != ListView && m.mode != ConfirmDelete {
		m.toList()
		return
	}

	switch m.mode {
	case ListView:
		m.handleList(in)
	case DetailView:
		m.handleDetail(in)
	case EditField:
		m.handleEditField(ctx, in)
	case AddTask:
		m.handleAddTask(ctx, in)
	case ChangeStatus:
		m.handleChangeStatus(ctx, in)
	case AddComment:
		m.handleAddComment(ctx, in)
	case AddDependency:
		m.handleAddDependency(ctx, in)
	case RemoveDependency:
		m.handleRemoveDependency(ctx, in)
	case Search:
		m.handleSearch(in)
	case SearchResults:
		m.handleSearchResults(in)
	case ConfirmDelete:
		m.handleConfirmDelete(ctx, in)
	}
}

func (m *Machine) handleList(in Input) {
	switch in.Key {
	case KeyUp:
		if m.selected > 0 {
			m.selected--
		}
	case KeyDown:
		if m.selected < m.repo.Len()-1 {
			m.selected++
		}
	case KeyEnter:
		if t, ok := m.repo.GetByIndex(m.selected); ok {
			m.openDetail(t.ID)
		}
	case KeyRune:
		m.handleCommand(in.Rune)
	}
}

func (m *Machine) handleCommand(r rune) {
	switch r {
	case CmdAdd:
		m.mode = AddTask
		m.addStep = 0
		m.draft = model.Draft{}
	case CmdToggleComments:
		m.showComments = !m.showComments
	case CmdSearch:
		m.mode = Search
		m.term = ""
	case CmdQuit:
		m.mode = Terminated
	case CmdStatus, CmdComment, CmdDependency, CmdDelete:
		t, ok := m.repo.GetByIndex(m.selected)
		if !ok {
			m.info("No task selected.")
			return
		}
		m.taskID = t.ID
		switch r {
		case CmdStatus:
			m.enterChangeStatus(t)
		case CmdComment:
			m.mode = AddComment
		case CmdDependency:
			m.enterAddDependency(t)
		case CmdDelete:
			m.mode = ConfirmDelete
		}
	}
}

func (m *Machine) openDetail(id string) {
	m.mode = DetailView
	m.taskID = id
	m.field = FieldName
}

func (m *Machine) handleDetail(in Input) {
	t, ok := m.repo.Get(m.taskID)
	if !ok {
		m.toList()
		return
	}
	switch in.Key {
	case KeyUp:
		if m.field > 0 {
			m.field--
		}
	case KeyDown:
		if int(m.field) < len(Fields)-1 {
			m.field++
		}
	case KeyEnter:
		switch m.field {
		case FieldStatus:
			m.enterChangeStatus(t)
		case FieldDependencies:
			m.enterRemoveDependency(t)
		default:
			m.mode = EditField
		}
	case KeyRune:
		switch in.Rune {
		case CmdComment:
			m.mode = AddComment
		case CmdDependency:
			m.enterRemoveDependency(t)
		}
	}
}

func (m *Machine) handleEditField(ctx context.Context, in Input) {
	if in.Key != KeyText {
		return
	}
	if in.Text == "" {
		m.toList()
		return
	}
	if err := m.repo.EditTask(ctx, m.taskID, m.field.patch(in.Text)); err != nil {
		m.fail(err)
		return
	}
	m.toList()
	m.info(fmt.Sprintf("%s updated successfully!", m.field.Label()))
}

func (m *Machine) handleAddTask(ctx context.Context, in Input) {
	if in.Key != KeyText {
		return
	}
	switch m.addStep {
	case 0:
		if strings.TrimSpace(in.Text) == "" {
			m.fail(tasks.ErrEmptyName)
			m.mode = AddTask
			return
		}
		m.draft.Name = in.Text
	case 1:
		m.draft.DueDate = in.Text
	case 2:
		m.draft.TicketRef = in.Text
	case 3:
		m.draft.Description = in.Text
	case 4:
		m.draft.Status = in.Text
	}
	m.addStep++
	if m.addStep < len(addTaskPrompts) {
		return
	}

	_, err := m.repo.AddTask(ctx, m.draft)
	if err != nil {
		m.fail(err)
		return
	}
	m.toList()
	m.info("Task added successfully!")
}

func (m *Machine) enterChangeStatus(t *model.Task) {
	m.mode = ChangeStatus
	m.taskID = t.ID
	m.statusIdx = t.StatusIndex()
}

func (m *Machine) handleChangeStatus(ctx context.Context, in Input) {
	switch in.Key {
	case KeyLeft:
		if m.statusIdx > 0 {
			m.statusIdx--
		}
	case KeyRight:
		if m.statusIdx < len(model.Statuses)-1 {
			m.statusIdx++
		}
	case KeyEnter:
		err := m.repo.EditTask(ctx, m.taskID, model.Patch{Status: model.Statuses[m.statusIdx]})
		if err != nil {
			m.fail(err)
			return
		}
		m.toList()
		m.info("Status updated successfully!")
	}
}

func (m *Machine) handleAddComment(ctx context.Context, in Input) {
	if in.Key != KeyText {
		return
	}
	if in.Text == "" {
		m.toList()
		return
	}
	if err := m.repo.AddComment(ctx, m.taskID, in.Text); err != nil {
		m.fail(err)
		return
	}
	m.toList()
	m.info("Comment added successfully!")
}

func (m *Machine) enterAddDependency(t *model.Task) {
	var picks []string
	for _, other := range m.repo.Tasks() {
		if other.ID != t.ID {
			picks = append(picks, other.ID)
		}
	}
	if len(picks) == 0 {
		m.toList()
		m.info("No other tasks available to add as dependency.")
		return
	}
	m.mode = AddDependency
	m.picks = picks
	m.pickIdx = 0
}

func (m *Machine) enterRemoveDependency(t *model.Task) {
	var picks []string
	for _, dep := range m.repo.Resolve(t.Dependencies) {
		picks = append(picks, dep.ID)
	}
	if len(picks) == 0 {
		m.toList()
		m.info("No dependencies to remove.")
		return
	}
	m.mode = RemoveDependency
	m.taskID = t.ID
	m.picks = picks
	m.pickIdx = 0
}

func (m *Machine) movePick(k Key) {
	switch k {
	case KeyUp:
		if m.pickIdx > 0 {
			m.pickIdx--
		}
	case KeyDown:
		if m.pickIdx < len(m.picks)-1 {
			m.pickIdx++
		}
	}
}

func (m *Machine) handleAddDependency(ctx context.Context, in Input) {
	if in.Key != KeyEnter {
		m.movePick(in.Key)
		return
	}
	err := m.repo.AddDependency(ctx, m.taskID, m.picks[m.pickIdx])
	if errors.Is(err, tasks.ErrDuplicateDependency) {
		m.toList()
		m.info("Task already depends on it.")
		return
	}
	if err != nil {
		m.fail(err)
		return
	}
	m.toList()
	m.info("Dependency added successfully!")
}

func (m *Machine) handleRemoveDependency(ctx context.Context, in Input) {
	if in.Key != KeyEnter {
		m.movePick(in.Key)
		return
	}
	if err := m.repo.RemoveDependency(ctx, m.taskID, m.picks[m.pickIdx]); err != nil {
		m.fail(err)
		return
	}
	m.toList()
	m.info("Dependency removed successfully!")
}

func (m *Machine) handleSearch(in Input) {
	if in.Key != KeyText {
		return
	}
	if in.Text == "" {
		m.toList()
		return
	}
	found := m.repo.Search(in.Text)
	if len(found) == 0 {
		m.toList()
		m.info("No matching tasks found.")
		return
	}
	m.mode = SearchResults
	m.term = in.Text
	m.matches = m.matches[:0]
	for _, t := range found {
		m.matches = append(m.matches, t.ID)
	}
	m.matchIdx = 0
}

func (m *Machine) handleSearchResults(in Input) {
	switch in.Key {
	case KeyUp:
		if m.matchIdx > 0 {
			m.matchIdx--
		}
	case KeyDown:
		if m.matchIdx < len(m.matches)-1 {
			m.matchIdx++
		}
	case KeyEnter:
		id := m.matches[m.matchIdx]
		m.SelectID(id)
		m.openDetail(id)
	case KeyRune:
		if in.Rune == CmdSelect {
			m.SelectID(m.matches[m.matchIdx])
			m.toList()
		}
	}
}

func (m *Machine) handleConfirmDelete(ctx context.Context, in Input) {
	if in.Key != KeyRune || (in.Rune != 'y' && in.Rune != 'Y') {
		m.toList()
		return
	}
	err := m.repo.DeleteTask(ctx, m.taskID)
	m.clampSelection()
	if err != nil {
		m.fail(err)
		return
	}
	m.toList()
	m.info("Task deleted successfully!")
}

func (m *Machine) clampSelection() {
	if n := m.repo.Len(); m.selected > n-1 {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Machine) toList() {
	m.mode = ListView
	m.picks = nil
	m.matches = nil
	m.term = ""
	m.clampSelection()
}

func (m *Machine) info(msg string) {
	m.message, m.isErr = msg, false
}

// fail reports err as a transient error message and returns to the list.
// Store failures are labelled so the operator knows disk and memory differ.
func (m *Machine) fail(err error) {
	m.toList()
	if errors.Is(err, store.ErrFailure) {
		m.message = "Storage error: " + err.Error()
	} else {
		m.message = err.Error()
	}
	m.isErr = true
}
