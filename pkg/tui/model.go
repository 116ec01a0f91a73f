package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harrisonrobin/taskdeck/pkg/colors"
	"github.com/harrisonrobin/taskdeck/pkg/nav"
)

// Model adapts a nav.Machine to bubbletea. All decisions are made by the
// machine; the model only translates keys and draws snapshots.
type Model struct {
	ctx     context.Context
	machine *nav.Machine
	palette *colors.Palette
	input   textinput.Model
	now     func() time.Time

	width  int
	height int
}

func New(ctx context.Context, machine *nav.Machine, palette *colors.Palette) Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60
	ti.Prompt = "> "

	return Model{
		ctx:     ctx,
		machine: machine,
		palette: palette,
		input:   ti,
		now:     time.Now,
		width:   100,
	}
}

// Run starts the interactive program and blocks until the session ends.
func Run(ctx context.Context, machine *nav.Machine, palette *colors.Palette) error {
	p := tea.NewProgram(New(ctx, machine, palette), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.machine.Mode().TakesText() {
			return m.updateText(msg)
		}
		if in, ok := Translate(msg); ok {
			return m.dispatch(in)
		}
	}
	return m, nil
}

func (m Model) updateText(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		line := m.input.Value()
		m.input.Reset()
		return m.dispatch(nav.Text(line))
	case tea.KeyEsc:
		m.input.Reset()
		return m.dispatch(nav.Press(nav.KeyEscape))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) dispatch(in nav.Input) (tea.Model, tea.Cmd) {
	m.machine.Handle(m.ctx, in)
	if m.machine.Done() {
		return m, tea.Quit
	}

	if m.machine.Mode().TakesText() {
		if !m.input.Focused() {
			m.input.Reset()
			return m, m.input.Focus()
		}
	} else {
		m.input.Blur()
	}
	return m, nil
}
