package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harrisonrobin/taskdeck/pkg/nav"
)

// Translate maps a terminal key press to a navigation input. Keys with no
// meaning to the state machine report false.
func Translate(msg tea.KeyMsg) (nav.Input, bool) {
	switch msg.Type {
	case tea.KeyUp:
		return nav.Press(nav.KeyUp), true
	case tea.KeyDown:
		return nav.Press(nav.KeyDown), true
	case tea.KeyLeft:
		return nav.Press(nav.KeyLeft), true
	case tea.KeyRight:
		return nav.Press(nav.KeyRight), true
	case tea.KeyEnter:
		return nav.Press(nav.KeyEnter), true
	case tea.KeyEsc:
		return nav.Press(nav.KeyEscape), true
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && !msg.Alt {
			return nav.Rune(msg.Runes[0]), true
		}
	}
	return nav.Input{}, false
}
