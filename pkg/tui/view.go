package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harrisonrobin/taskdeck/pkg/due"
	"github.com/harrisonrobin/taskdeck/pkg/model"
	"github.com/harrisonrobin/taskdeck/pkg/nav"
)

const previewComments = 3

var shortcuts = []string{
	"↑/↓ Navigate", "ENTER View", "A Add", "S Status",
	"C Comment", "D Dependency", "M Comments", "X Delete",
	"/ Search", "Q Quit",
}

type column struct {
	title string
	width int
}

func (m Model) columns() []column {
	cols := []column{
		{"#", 5},
		{"Name", 28},
		{"Due Date", 20},
		{"Ticket Ref", 12},
		{"Status", 12},
	}
	used := 0
	for _, c := range cols {
		used += c.width + 1
	}
	return append(cols, column{"Dependencies", max(12, m.width-used-2)})
}

// fit pads or truncates s to exactly w cells.
func fit(s string, w int) string {
	return lipgloss.NewStyle().Inline(true).Width(w).MaxWidth(w).Render(s)
}

func (m Model) View() string {
	s := m.machine.Snapshot()

	var b strings.Builder
	switch s.Mode {
	case nav.ListView, nav.Terminated:
		m.renderList(&b, s)
	case nav.DetailView:
		m.renderDetail(&b, s)
	case nav.EditField:
		m.renderEditField(&b, s)
	case nav.AddTask:
		m.renderPrompt(&b, "Add New Task", s)
	case nav.AddComment:
		m.renderPrompt(&b, "Add Comment to: "+taskName(s.Task), s)
	case nav.Search:
		m.renderPrompt(&b, "Search Tasks", s)
	case nav.ChangeStatus:
		m.renderStatus(&b, s)
	case nav.AddDependency:
		m.renderPicker(&b, "Add Dependency to: "+taskName(s.Task), s)
	case nav.RemoveDependency:
		m.renderPicker(&b, "Remove Dependency from: "+taskName(s.Task), s)
	case nav.SearchResults:
		m.renderSearchResults(&b, s)
	case nav.ConfirmDelete:
		m.renderConfirmDelete(&b, s)
	}

	if s.Message != "" {
		b.WriteString("\n")
		if s.IsError {
			b.WriteString(m.palette.Error.Render(s.Message))
		} else {
			b.WriteString(m.palette.Info.Render(s.Message))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func taskName(t *model.Task) string {
	if t == nil {
		return ""
	}
	return t.Name
}

func (m Model) renderList(b *strings.Builder, s nav.Snapshot) {
	b.WriteString(m.palette.Title.Render("Task Manager"))
	b.WriteString("\n\n")
	b.WriteString(m.palette.Dim.Render(strings.Join(shortcuts, " | ")))
	b.WriteString("\n\n")

	cols := m.columns()
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = fit(c.title, c.width)
	}
	b.WriteString(m.palette.Header.Render(strings.Join(headers, "│")))
	b.WriteString("\n")

	if len(s.Tasks) == 0 {
		b.WriteString(m.palette.Dim.Render("No tasks yet. Press A to add one."))
		b.WriteString("\n")
		return
	}

	now := m.now()
	for i, t := range s.Tasks {
		prefix := " "
		if i == s.Selected {
			prefix = "→"
		}
		deps := make([]string, 0, len(t.Dependencies))
		for _, id := range t.Dependencies {
			for _, other := range s.Tasks {
				if other.ID == id {
					deps = append(deps, other.Name)
					break
				}
			}
		}
		cells := []string{
			fmt.Sprintf("%s%d", prefix, i),
			t.Name,
			t.DueDate,
			t.TicketRef,
			t.Status,
			strings.Join(deps, ", "),
		}
		for j, c := range cols {
			cells[j] = fit(cells[j], c.width)
		}

		style := m.palette.Row(due.Classify(t.DueDate, now))
		if i == s.Selected {
			style = style.Bold(true).Underline(true)
		}
		b.WriteString(style.Render(strings.Join(cells, "│")))
		b.WriteString("\n")

		if s.ShowComments && i == s.Selected && len(t.Comments) > 0 {
			b.WriteString("  ")
			b.WriteString(m.palette.Section.Render("╭─ Recent Comments:"))
			b.WriteString("\n")
			recent := t.Comments[max(0, len(t.Comments)-previewComments):]
			for _, c := range recent {
				b.WriteString("  ╰→ " + c.String() + "\n")
			}
		}
	}
}

func (m Model) renderDetail(b *strings.Builder, s nav.Snapshot) {
	t := s.Task
	if t == nil {
		return
	}
	b.WriteString(m.palette.Section.Render("Task Details: " + t.Name))
	b.WriteString("\n\n")

	var rows []string
	for _, f := range nav.Fields {
		prefix := "  "
		if f == s.Field {
			prefix = "→ "
		}
		label := prefix + f.Label() + ": "
		if f == s.Field {
			label = m.palette.Selected.Render(label)
		}

		var value string
		switch f {
		case nav.FieldStatus:
			value = m.palette.Status(t.Status).Render(t.Status)
		case nav.FieldTicketRef:
			value = m.palette.Tickets.Style(t.TicketRef).Render(t.TicketRef)
		case nav.FieldDependencies:
			names := make([]string, len(s.Dependencies))
			for i, d := range s.Dependencies {
				names[i] = d.Name
			}
			value = strings.Join(names, ", ")
		default:
			value = f.Value(t)
		}
		rows = append(rows, label+value)
	}
	b.WriteString(m.palette.Border.Render(strings.Join(rows, "\n")))
	b.WriteString("\n\n")

	b.WriteString(m.palette.Section.Render("Comments"))
	b.WriteString("\n")
	if len(t.Comments) == 0 {
		b.WriteString(m.palette.Dim.Render("  (none)"))
		b.WriteString("\n")
	}
	for _, c := range t.Comments {
		b.WriteString("  • " + c.String() + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.palette.Dim.Render(strings.Join([]string{
		"↑/↓ Select field", "ENTER Edit", "C Add comment", "D Remove dependency", "ESC Back",
	}, " │ ")))
	b.WriteString("\n")
}

func (m Model) renderEditField(b *strings.Builder, s nav.Snapshot) {
	b.WriteString(m.palette.Section.Render("Edit " + s.Field.Label()))
	b.WriteString("\n\n")
	if s.Task != nil {
		b.WriteString("Current value: " + s.Field.Value(s.Task) + "\n")
	}
	m.renderInput(b, s.Prompt)
}

func (m Model) renderPrompt(b *strings.Builder, title string, s nav.Snapshot) {
	b.WriteString(m.palette.Section.Render(title))
	b.WriteString("\n\n")
	m.renderInput(b, s.Prompt)
}

func (m Model) renderInput(b *strings.Builder, prompt string) {
	b.WriteString(prompt + ":\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.palette.Dim.Render("ENTER to confirm, ESC to cancel"))
	b.WriteString("\n")
}

func (m Model) renderStatus(b *strings.Builder, s nav.Snapshot) {
	b.WriteString(m.palette.Section.Render("Change Status: " + taskName(s.Task)))
	b.WriteString("\n\n")

	choices := make([]string, len(model.Statuses))
	for i, status := range model.Statuses {
		if i == s.StatusChoice {
			choices[i] = m.palette.Selected.Render("[" + status + "]")
		} else {
			choices[i] = m.palette.Status(status).Render(" " + status + " ")
		}
	}
	b.WriteString(strings.Join(choices, "  "))
	b.WriteString("\n\n")
	b.WriteString(m.palette.Dim.Render("Use LEFT/RIGHT arrows to change status, ENTER to confirm, ESC to cancel"))
	b.WriteString("\n")
}

func (m Model) renderPicker(b *strings.Builder, title string, s nav.Snapshot) {
	b.WriteString(m.palette.Section.Render(title))
	b.WriteString("\n\n")
	m.renderChoices(b, s.Choices, s.ChoiceIndex)
	b.WriteString("\n")
	b.WriteString(m.palette.Dim.Render("Use UP/DOWN arrows to select, ENTER to confirm, ESC to cancel"))
	b.WriteString("\n")
}

func (m Model) renderChoices(b *strings.Builder, choices []*model.Task, cursor int) {
	for i, t := range choices {
		line := fmt.Sprintf("%s [%s]", t.Name, t.Status)
		if i == cursor {
			b.WriteString(m.palette.Selected.Render("→ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
}

func (m Model) renderSearchResults(b *strings.Builder, s nav.Snapshot) {
	b.WriteString(m.palette.Section.Render(fmt.Sprintf("Search results for '%s'", s.SearchTerm)))
	b.WriteString("\n\n")
	m.renderChoices(b, s.Matches, s.MatchIndex)
	b.WriteString("\n")
	b.WriteString(m.palette.Dim.Render("ENTER View details │ V Select in list │ ESC Back"))
	b.WriteString("\n")
}

func (m Model) renderConfirmDelete(b *strings.Builder, s nav.Snapshot) {
	b.WriteString(m.palette.Section.Render("Delete Task"))
	b.WriteString("\n\n")
	b.WriteString(m.palette.Warning.Render("Are you sure you want to delete task: "))
	b.WriteString(taskName(s.Task))
	b.WriteString("\n")

	if len(s.Dependents) > 0 {
		b.WriteString("\n")
		b.WriteString(m.palette.Warning.Render("Warning: Other tasks depend on this task:"))
		b.WriteString("\n")
		for _, t := range s.Dependents {
			b.WriteString("  - " + t.Name + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.palette.Dim.Render("Press Y to confirm deletion, any other key to cancel"))
	b.WriteString("\n")
}
