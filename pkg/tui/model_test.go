package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/taskdeck/pkg/colors"
	"github.com/harrisonrobin/taskdeck/pkg/model"
	"github.com/harrisonrobin/taskdeck/pkg/nav"
	"github.com/harrisonrobin/taskdeck/pkg/store"
	"github.com/harrisonrobin/taskdeck/pkg/tasks"
)

func newTestModel(t *testing.T) (Model, *tasks.Manager) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(store.Options{Path: store.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	now := func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local) }
	repo, err := tasks.Open(ctx, st, tasks.WithClock(now))
	require.NoError(t, err)

	m := New(ctx, nav.New(repo), colors.NewPalette())
	m.now = now
	return m, repo
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want nav.Input
		ok   bool
	}{
		{key(tea.KeyUp), nav.Press(nav.KeyUp), true},
		{key(tea.KeyDown), nav.Press(nav.KeyDown), true},
		{key(tea.KeyLeft), nav.Press(nav.KeyLeft), true},
		{key(tea.KeyRight), nav.Press(nav.KeyRight), true},
		{key(tea.KeyEnter), nav.Press(nav.KeyEnter), true},
		{key(tea.KeyEsc), nav.Press(nav.KeyEscape), true},
		{runes("a"), nav.Rune('a'), true},
		{runes("ab"), nav.Input{}, false},
		{key(tea.KeyTab), nav.Input{}, false},
	}
	for _, tt := range tests {
		got, ok := Translate(tt.msg)
		assert.Equal(t, tt.ok, ok, tt.msg.String())
		assert.Equal(t, tt.want, got, tt.msg.String())
	}
}

func TestAddTaskThroughKeys(t *testing.T) {
	m, repo := newTestModel(t)

	m, _ = update(t, m, runes("a"))
	require.True(t, m.input.Focused())
	assert.Contains(t, m.View(), "Add New Task")

	m, _ = update(t, m, runes("Buy milk"), key(tea.KeyEnter))
	for i := 0; i < 4; i++ {
		m, _ = update(t, m, key(tea.KeyEnter))
	}

	require.Equal(t, 1, repo.Len())
	task, _ := repo.GetByIndex(0)
	assert.Equal(t, "Buy milk", task.Name)
	assert.Equal(t, "2024-01-01 23:59:59", task.DueDate)
	assert.False(t, m.input.Focused())

	view := m.View()
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "Task added successfully!")
}

func TestListViewShowsRecentComments(t *testing.T) {
	m, repo := newTestModel(t)
	ctx := context.Background()
	id, err := repo.AddTask(ctx, model.Draft{Name: "Write docs"})
	require.NoError(t, err)
	for _, text := range []string{"one", "two", "three", "four"} {
		require.NoError(t, repo.AddComment(ctx, id, text))
	}

	assert.NotContains(t, m.View(), "Recent Comments")

	m, _ = update(t, m, runes("m"))
	view := m.View()
	assert.Contains(t, view, "Recent Comments")
	assert.NotContains(t, view, "] one")
	assert.Contains(t, view, "] four")
}

func TestConfirmDeleteWarnsAboutDependents(t *testing.T) {
	m, repo := newTestModel(t)
	ctx := context.Background()
	a, _ := repo.AddTask(ctx, model.Draft{Name: "Deploy"})
	b, _ := repo.AddTask(ctx, model.Draft{Name: "Build"})
	require.NoError(t, repo.AddDependency(ctx, a, b))

	m, _ = update(t, m, key(tea.KeyDown), runes("x"))
	view := m.View()
	assert.Contains(t, view, "Are you sure you want to delete task: Build")
	assert.Contains(t, view, "Other tasks depend on this task")
	assert.Contains(t, view, "- Deploy")

	m, _ = update(t, m, runes("y"))
	assert.Equal(t, 1, repo.Len())
	assert.Equal(t, nav.ListView, m.machine.Mode())
}

func TestEscapeLeavesTextMode(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, runes("/"), runes("abc"), key(tea.KeyEsc))
	assert.Equal(t, nav.ListView, m.machine.Mode())
	assert.Empty(t, m.input.Value())
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)

	_, cmd = update(t, m, key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	_, ok = cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
