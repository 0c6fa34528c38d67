package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tally/internal/todo"
)

func (m Model) handleTodosKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.state.Visible()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(len(visible)-1, 0)

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Toggle):
		if item, ok := m.selected(visible); ok {
			return m.dispatch(todo.Toggle(item.Index, item.Todo)), nil
		}
	case key.Matches(msg, m.keys.Remove):
		if item, ok := m.selected(visible); ok {
			return m.dispatch(todo.RemoveTodo{Index: item.Index}), nil
		}
	case key.Matches(msg, m.keys.Filter):
		return m.dispatch(todo.SetFilters{Filters: nextFilter(m.state.Filters)}), nil
	}
	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.input.Value()
		m.adding = false
		m.input.Blur()
		m.input.Reset()
		return m.dispatch(todo.AddTodo{Text: text}), nil
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) selected(visible []todo.Item) (todo.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(visible) {
		return todo.Item{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.state.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// nextFilter cycles all -> in progress -> complete -> all.
func nextFilter(current []todo.Status) []todo.Status {
	if len(current) != 1 {
		return []todo.Status{todo.InProgress}
	}
	switch current[0] {
	case todo.InProgress:
		return []todo.Status{todo.Complete}
	case todo.Complete:
		return []todo.Status{}
	}
	return []todo.Status{todo.InProgress}
}

func filterLabel(filters []todo.Status) string {
	if len(filters) == 0 {
		return "All"
	}
	names := make([]string, len(filters))
	for i, f := range filters {
		names[i] = string(f)
	}
	return strings.Join(names, "+")
}

func (m Model) todosTitle() string {
	return fmt.Sprintf("Todos [%s]", filterLabel(m.state.Filters))
}

func (m Model) renderTodos() string {
	styles := m.theme.Styles()
	w, _ := m.contentSize()
	visible := m.state.Visible()

	var b strings.Builder
	if m.adding {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if len(visible) == 0 {
		b.WriteString(styles.FaintText.Render("Nothing here. Press a to add a todo."))
		return b.String()
	}

	for i, item := range visible {
		box := "[ ]"
		if item.Status == todo.Complete {
			box = "[x]"
		}
		badge := m.theme.StatusStyle(item.Status).Render(string(item.Status))
		text := truncate(item.Text, max(w-24, 8))
		line := fmt.Sprintf("%2d %s %s %s", item.Index, box, text, badge)
		if i == m.cursor {
			line = styles.Selected.Render(line)
		} else if item.Status == todo.Complete {
			line = styles.MutedText.Render(line)
		} else {
			line = styles.Text.Render(line)
		}
		b.WriteString(line)
		if i < len(visible)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
