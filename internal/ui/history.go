package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tally/internal/todo"
)

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Compact):
		if dropped := m.store.Trim(1); dropped > 0 {
			m.logger.Printf("dropped %d history entries", dropped)
		}
		m.updateHistoryViewport()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.historyViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.historyViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.historyViewport, cmd = m.historyViewport.Update(msg)
	return m, cmd
}

func (m *Model) updateHistoryViewport() {
	if !m.ready {
		return
	}
	m.historyViewport.SetContent(m.renderHistory())
}

// renderHistory lists entries newest first.
func (m Model) renderHistory() string {
	styles := m.theme.Styles()
	entries := m.store.History()

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		done, total := e.Snapshot.Extract().Counts()
		seq := styles.AccentText.Render(fmt.Sprintf("#%-4d", e.Seq))
		at := styles.FaintText.Render(e.At.Format("15:04:05"))
		desc := styles.Text.Render(todo.Describe(e.Action))
		count := styles.MutedText.Render(fmt.Sprintf("%d/%d done", done, total))
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s", seq, at, desc, count))
	}
	return strings.Join(lines, "\n")
}
