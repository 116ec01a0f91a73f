package colors

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ticketSlots are the colors handed out to ticket projects. 0 and 7 are
// left out so ticket refs stay readable on the row bands.
var ticketSlots = []int{9, 10, 11, 12, 13, 14}

type projectState struct {
	color    lipgloss.Color
	lastSeen time.Time
}

// TicketColors gives every ticket project (the part of a ticket ref before
// the first '-', e.g. "OPS" in "OPS-12") a stable color. When all slots are
// taken the least recently seen project gives up its color.
type TicketColors struct {
	projects map[string]*projectState
	now      func() time.Time
}

func NewTicketColors() *TicketColors {
	return &TicketColors{
		projects: make(map[string]*projectState),
		now:      time.Now,
	}
}

// Project extracts the project key of a ticket ref.
func Project(ticketRef string) string {
	ref := strings.TrimSpace(ticketRef)
	if i := strings.IndexByte(ref, '-'); i > 0 {
		ref = ref[:i]
	}
	return strings.ToUpper(ref)
}

// Color returns the color for the ticket's project. Empty refs are gray.
func (c *TicketColors) Color(ticketRef string) lipgloss.Color {
	project := Project(ticketRef)
	if project == "" {
		return Gray
	}

	if state, ok := c.projects[project]; ok {
		state.lastSeen = c.now()
		return state.color
	}
	return c.assign(project)
}

func (c *TicketColors) assign(project string) lipgloss.Color {
	used := make(map[lipgloss.Color]bool)
	for _, s := range c.projects {
		used[s.color] = true
	}

	for _, slot := range ticketSlots {
		color := lipgloss.Color(strconv.Itoa(slot))
		if !used[color] {
			c.projects[project] = &projectState{color: color, lastSeen: c.now()}
			return color
		}
	}

	// all slots taken, recycle the oldest
	var oldest string
	var oldestSeen time.Time
	for p, s := range c.projects {
		if oldest == "" || s.lastSeen.Before(oldestSeen) {
			oldest, oldestSeen = p, s.lastSeen
		}
	}
	color := c.projects[oldest].color
	delete(c.projects, oldest)
	c.projects[project] = &projectState{color: color, lastSeen: c.now()}
	return color
}

// Style renders a ticket ref in its project color.
func (c *TicketColors) Style(ticketRef string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c.Color(ticketRef))
}
