package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/promptdeck/internal/logtail"
)

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg(nil)
		}
		lines, err := logtail.Read(path, logTailLines)
		if err != nil {
			return logLinesMsg([]string{"error: " + err.Error()})
		}
		return logLinesMsg(lines)
	}
}

// updateLogViewport re-renders the tail and keeps it pinned to the bottom.
func (m *Model) updateLogViewport() {
	if m.logViewport.Width == 0 {
		return
	}
	styles := m.theme.Styles()
	if len(m.logLines) == 0 {
		m.logViewport.SetContent(styles.FaintText.Render(tr(m.lang(), "no.logs")))
		return
	}
	out := make([]string, len(m.logLines))
	for i, raw := range m.logLines {
		line := logtail.Parse(raw)
		out[i] = styles.LevelStyle(line.Level).Render(logtail.Format(raw))
	}
	m.logViewport.SetContent(strings.Join(out, "\n"))
	m.logViewport.GotoBottom()
}

func (m Model) renderLogs() string {
	title := tr(m.lang(), "view.logs")
	if m.logPath != "" {
		title += "  " + m.logPath
	}
	return m.renderBox(title, m.logViewport.View(), m.width, maxInt(m.height-chromeLines, 4), true)
}
