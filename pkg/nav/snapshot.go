package nav

import "github.com/harrisonrobin/taskdeck/pkg/model"

// Snapshot is the read-only view of the session handed to the presentation
// layer. Task pointers are shared with the repository and must not be
// modified.
type Snapshot struct {
	Mode         Mode
	Tasks        []*model.Task
	Selected     int
	ShowComments bool
	Message      string
	IsError      bool

	// Task is the subject of the detail view or of the active sub-state.
	Task         *model.Task
	Dependencies []*model.Task
	Field        Field

	// Prompt labels the line being typed in text modes.
	Prompt string

	StatusChoice int

	// Choices are the picker candidates of AddDependency and RemoveDependency.
	Choices     []*model.Task
	ChoiceIndex int

	SearchTerm string
	Matches    []*model.Task
	MatchIndex int

	// Dependents are the tasks that depend on a task pending deletion.
	Dependents []*model.Task
}

// Snapshot captures the current state for rendering.
func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		Mode:         m.mode,
		Tasks:        m.repo.Tasks(),
		Selected:     m.selected,
		ShowComments: m.showComments,
		Message:      m.message,
		IsError:      m.isErr,
		Field:        m.field,
		StatusChoice: m.statusIdx,
		ChoiceIndex:  m.pickIdx,
		SearchTerm:   m.term,
		MatchIndex:   m.matchIdx,
	}

	if m.mode != ListView && m.mode != Terminated {
		if t, ok := m.repo.Get(m.taskID); ok {
			s.Task = t
			s.Dependencies = m.repo.Resolve(t.Dependencies)
		}
	}

	switch m.mode {
	case AddTask:
		s.Prompt = addTaskPrompts[m.addStep]
	case AddComment:
		s.Prompt = "Comment"
	case Search:
		s.Prompt = "Search (name, ticket ref, description)"
	case EditField:
		s.Prompt = "New " + m.field.Label()
	case AddDependency, RemoveDependency:
		s.Choices = m.repo.Resolve(m.picks)
	case SearchResults:
		s.Matches = m.repo.Resolve(m.matches)
	case ConfirmDelete:
		s.Dependents = m.repo.Dependents(m.taskID)
	}
	return s
}
