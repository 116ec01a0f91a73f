package nav

import "github.com/harrisonrobin/taskdeck/pkg/model"

// Mode is the active view of the session.
type Mode int

const (
	ListView Mode = iota
	DetailView
	EditField
	AddTask
	ChangeStatus
	AddComment
	AddDependency
	RemoveDependency
	Search
	SearchResults
	ConfirmDelete
	Terminated
)

var modeNames = [...]string{
	ListView:         "list",
	DetailView:       "detail",
	EditField:        "edit-field",
	AddTask:          "add-task",
	ChangeStatus:     "change-status",
	AddComment:       "add-comment",
	AddDependency:    "add-dependency",
	RemoveDependency: "remove-dependency",
	Search:           "search",
	SearchResults:    "search-results",
	ConfirmDelete:    "confirm-delete",
	Terminated:       "terminated",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// TakesText reports whether the mode consumes a whole line of text rather
// than single keys.
func (m Mode) TakesText() bool {
	switch m {
	case AddTask, AddComment, Search, EditField:
		return true
	}
	return false
}

// Key is an abstract input token, independent of terminal key codes.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	// KeyRune carries a single-character command in Input.Rune.
	KeyRune
	// KeyText carries a submitted line in Input.Text.
	KeyText
)

// Input is one event delivered by the presentation layer.
type Input struct {
	Key  Key
	Rune rune
	Text string
}

func Press(k Key) Input { return Input{Key: k} }

func Rune(r rune) Input { return Input{Key: KeyRune, Rune: r} }

func Text(line string) Input { return Input{Key: KeyText, Text: line} }

// Single-character commands.
const (
	CmdAdd            = 'a'
	CmdStatus         = 's'
	CmdComment        = 'c'
	CmdDependency     = 'd'
	CmdToggleComments = 'm'
	CmdSearch         = '/'
	CmdDelete         = 'x'
	CmdQuit           = 'q'
	CmdSelect         = 'v'
)

// Field is a row of the detail view.
type Field int

const (
	FieldName Field = iota
	FieldDueDate
	FieldTicketRef
	FieldDescription
	FieldStatus
	FieldDependencies
)

// Fields lists the detail view rows in display order.
var Fields = []Field{FieldName, FieldDueDate, FieldTicketRef, FieldDescription, FieldStatus, FieldDependencies}

func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldDueDate:
		return "Due Date"
	case FieldTicketRef:
		return "Ticket Ref"
	case FieldDescription:
		return "Description"
	case FieldStatus:
		return "Status"
	case FieldDependencies:
		return "Dependencies"
	}
	return ""
}

// Value returns the raw text of a scalar field.
func (f Field) Value(t *model.Task) string {
	switch f {
	case FieldName:
		return t.Name
	case FieldDueDate:
		return t.DueDate
	case FieldTicketRef:
		return t.TicketRef
	case FieldDescription:
		return t.Description
	case FieldStatus:
		return t.Status
	}
	return ""
}

func (f Field) patch(value string) model.Patch {
	switch f {
	case FieldName:
		return model.Patch{Name: value}
	case FieldDueDate:
		return model.Patch{DueDate: value}
	case FieldTicketRef:
		return model.Patch{TicketRef: value}
	case FieldDescription:
		return model.Patch{Description: value}
	case FieldStatus:
		return model.Patch{Status: value}
	}
	return model.Patch{}
}
