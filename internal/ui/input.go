package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/promptdeck/internal/catalog"
	"github.com/five82/promptdeck/internal/projection"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.ToggleTheme):
		m.engine.ToggleTheme()
		m.applySnapshot(m.store.Snapshot())
		return m, nil
	case key.Matches(msg, m.keys.ToggleLang):
		m.engine.ToggleLang()
		m.applySnapshot(m.store.Snapshot())
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, refreshLikesCmd(m.ctx, m.engine)
	case key.Matches(msg, m.keys.Tab):
		m.currentView = (m.currentView + 1) % 3
		if m.currentView == ViewLogs {
			return m, readLogsCmd(m.logPath)
		}
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewList
		return m, nil
	case key.Matches(msg, m.keys.RoleFaculty):
		return m.switchRole(catalog.RoleFaculty)
	case key.Matches(msg, m.keys.RoleStudent):
		return m.switchRole(catalog.RoleStudent)
	case key.Matches(msg, m.keys.RoleShared):
		return m.switchRole(catalog.RoleShared)
	case key.Matches(msg, m.keys.RoleRequest):
		return m.switchRole(catalog.RoleRequest)
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	case ViewCharts:
		return m, nil
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) switchRole(role catalog.Role) (tea.Model, tea.Cmd) {
	m.engine.SwitchRole(role)
	m.selected = 0
	m.tagIdx = 0
	m.applySnapshot(m.store.Snapshot())
	return m, nil
}

// handleListKey processes keyboard input for the entry list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.snapshot.View.Query)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.NextCategory):
		m.store.SetCategory(nextCategory(projection.Categories(m.snapshot, m.table), m.snapshot.View.Category))
		m.selected = 0
		m.applySnapshot(m.store.Snapshot())
		return m, nil

	case key.Matches(msg, m.keys.NextTag):
		if len(m.tags) > 0 {
			m.tagIdx = (m.tagIdx + 1) % len(m.tags)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleTag):
		if m.tagIdx < len(m.tags) {
			m.store.ToggleTag(m.tags[m.tagIdx])
			m.selected = 0
			m.applySnapshot(m.store.Snapshot())
		}
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.store.ToggleSortByLikes()
		m.applySnapshot(m.store.Snapshot())
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.store.ResetFilters()
		m.selected = 0
		m.tagIdx = 0
		m.applySnapshot(m.store.Snapshot())
		return m, nil

	case key.Matches(msg, m.keys.Like):
		entry, ok := m.selectedEntry()
		if !ok {
			return m, nil
		}
		liked, _ := m.engine.ToggleLike(entry)
		if liked {
			m.setFlash(tr(m.lang(), "liked"))
		} else {
			m.setFlash(tr(m.lang(), "unliked"))
		}
		m.applySnapshot(m.store.Snapshot())
		return m, nil

	case key.Matches(msg, m.keys.CopyBody):
		entry, ok := m.selectedEntry()
		if !ok {
			return m, nil
		}
		return m, copyCmd(m.copy, entry.Body(m.lang()))

	case key.Matches(msg, m.keys.CopyShare):
		entry, ok := m.selectedEntry()
		if !ok {
			return m, nil
		}
		return m, copyCmd(m.copy, projection.ShareText(entry, m.lang(), m.siteURL))

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = len(m.visible) - 1
	case key.Matches(msg, m.keys.PageDown):
		m.detailViewport.HalfPageDown()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.detailViewport.HalfPageUp()
		return m, nil
	default:
		return m, nil
	}
	m.clampSelection()
	m.updateDetailViewport()
	return m, nil
}

// handleSearchKey edits the query; each keystroke filters immediately.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.search.Blur()
		m.store.SetQuery("")
		m.applySnapshot(m.store.Snapshot())
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.snapshot.View.Query {
		m.store.SetQuery(m.search.Value())
		m.selected = 0
		m.applySnapshot(m.store.Snapshot())
	}
	return m, cmd
}

// handleLogsKey scrolls the log pane.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.HalfPageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.HalfPageUp()
	}
	return m, nil
}

// nextCategory cycles "" -> first -> ... -> last -> "".
func nextCategory(options []projection.CategoryOption, current string) string {
	if current == "" {
		if len(options) == 0 {
			return ""
		}
		return options[0].Key
	}
	for i, opt := range options {
		if opt.Key == current {
			if i+1 < len(options) {
				return options[i+1].Key
			}
			return ""
		}
	}
	return ""
}
