package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tally/internal/logtail"
)

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.FailuresOnly):
		m.failuresOnly = !m.failuresOnly
		return m, fetchLogsCmd(m.logPath, m.failuresOnly)
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	styles := m.theme.Styles()
	if len(m.logLines) == 0 {
		m.logViewport.SetContent(styles.FaintText.Render("No log entries"))
		return
	}

	// Follow the tail unless the user scrolled up.
	atBottom := m.logViewport.AtBottom()
	lines := make([]string, len(m.logLines))
	for i, line := range m.logLines {
		if strings.Contains(line, failureToken) {
			lines[i] = styles.DangerText.Render(line)
		} else {
			lines[i] = styles.Text.Render(line)
		}
	}
	m.logViewport.SetContent(strings.Join(lines, "\n"))
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m Model) logTitle() string {
	if m.failuresOnly {
		return "Logs [failures]"
	}
	return "Logs"
}

func fetchLogsCmd(path string, failuresOnly bool) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg(nil)
		}
		token := ""
		if failuresOnly {
			token = failureToken
		}
		lines, err := logtail.ReadMatching(path, logFetchLimit, token)
		if err != nil {
			return logErrMsg{err: err}
		}
		return logLinesMsg(lines)
	}
}
