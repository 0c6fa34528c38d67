package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status line: logo, counts and sequence.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	done, total := m.state.Counts()

	parts := []string{
		styles.Logo.Render("tally"),
		fmt.Sprintf("Todos: %d", total),
		fmt.Sprintf("Done: %d", done),
		fmt.Sprintf("Open: %d", total-done),
		fmt.Sprintf("Seq: %d", m.seq),
		fmt.Sprintf("Kept: %d", m.store.Len()),
	}
	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	type cmd struct{ key, desc string }
	cmds := []cmd{{"tab", "View"}}
	switch m.currentView {
	case ViewTodos:
		cmds = append(cmds, cmd{"a", "Add"}, cmd{"x", "Toggle"}, cmd{"d", "Remove"}, cmd{"f", "Filter"})
	case ViewHistory:
		cmds = append(cmds, cmd{"C", "Compact"}, cmd{"g/G", "Top/Bottom"})
	case ViewLogs:
		cmds = append(cmds, cmd{"F", "Failures"}, cmd{"g/G", "Top/Bottom"})
	}
	cmds = append(cmds, cmd{"T", "Theme"}, cmd{"?", "Help"}, cmd{"q", "Quit"})

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	segments := make([]string, len(cmds))
	for i, c := range cmds {
		segments[i] = keyStyle.Render(c.key) + styles.MutedText.Render(":"+c.desc)
	}

	bar := strings.Join(segments, "  ")
	indicator := styles.FaintText.Render(fmt.Sprintf("[%s] %s", m.currentView, m.theme.Name))
	gap := m.width - lipgloss.Width(bar) - lipgloss.Width(indicator) - 2
	if gap < 1 {
		return styles.Header.Width(m.width).Render(bar)
	}
	return styles.Header.Width(m.width).Render(bar + strings.Repeat(" ", gap) + indicator)
}

// renderFooter shows the add prompt hint or the last dispatch error.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	switch {
	case m.adding:
		return styles.MutedText.Render("enter: add  esc: cancel")
	case m.lastErr != nil:
		return styles.DangerText.Render(truncate("Error: "+m.lastErr.Error(), m.width))
	default:
		return ""
	}
}

// truncate shortens s to max runes, adding an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
