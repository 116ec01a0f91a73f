package colors

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/harrisonrobin/taskdeck/pkg/due"
	"github.com/harrisonrobin/taskdeck/pkg/model"
)

// ANSI color indexes used across the tracker.
const (
	Black  = lipgloss.Color("0")
	Red    = lipgloss.Color("1")
	Green  = lipgloss.Color("2")
	Yellow = lipgloss.Color("3")
	Blue   = lipgloss.Color("4")
	Cyan   = lipgloss.Color("6")
	White  = lipgloss.Color("7")
	Gray   = lipgloss.Color("8")
)

// Palette holds every style the tracker draws with.
type Palette struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Selected lipgloss.Style
	Section  lipgloss.Style
	Text     lipgloss.Style
	Dim      lipgloss.Style
	Info     lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Border   lipgloss.Style

	Tickets *TicketColors
}

func NewPalette() *Palette {
	return &Palette{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(White).Background(Blue).Padding(0, 1),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(White).Background(Blue),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(Black).Background(Cyan),
		Section:  lipgloss.NewStyle().Bold(true).Foreground(Yellow),
		Text:     lipgloss.NewStyle().Foreground(White),
		Dim:      lipgloss.NewStyle().Faint(true),
		Info:     lipgloss.NewStyle().Bold(true).Foreground(Green),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(Red),
		Warning:  lipgloss.NewStyle().Bold(true).Foreground(Red),
		Border:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Blue).Padding(0, 1),
		Tickets:  NewTicketColors(),
	}
}

// Status colors the status text. Unknown statuses stay uncolored.
func (p *Palette) Status(status string) lipgloss.Style {
	switch status {
	case model.PENDING:
		return lipgloss.NewStyle().Bold(true).Foreground(Green)
	case model.IN_PROGRESS:
		return lipgloss.NewStyle().Bold(true).Foreground(Yellow)
	case model.COMPLETED:
		return lipgloss.NewStyle().Bold(true).Foreground(Red)
	}
	return p.Text
}

// Row is the background band of a task row in the list view.
func (p *Palette) Row(c due.Class) lipgloss.Style {
	switch c {
	case due.Overdue:
		return lipgloss.NewStyle().Foreground(Black).Background(Red)
	case due.Urgent:
		return lipgloss.NewStyle().Foreground(Black).Background(Yellow)
	case due.PlentyOfTime:
		return lipgloss.NewStyle().Foreground(Black).Background(Green)
	}
	return p.Text
}
