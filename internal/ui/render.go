package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/promptdeck/internal/catalog"
	"github.com/five82/promptdeck/internal/projection"
)

const (
	chromeLines  = 3 // header, filter bar, footer
	sideBySideAt = 100
)

// layout computes pane sizes. When stacked the detail box sits under the list.
func (m Model) layout() (listW, detailW, listH, detailH int, stacked bool) {
	contentH := m.height - chromeLines
	if contentH < 4 {
		contentH = 4
	}
	if m.width >= sideBySideAt {
		listW = m.width * 45 / 100
		return listW, m.width - listW, contentH, contentH, false
	}
	listH = contentH / 2
	return m.width, m.width, listH, contentH - listH, true
}

func (m *Model) resizeViewports() {
	_, detailW, _, detailH, _ := m.layout()
	m.detailViewport = viewport.New(maxInt(detailW-4, 1), maxInt(detailH-2, 1))
	m.logViewport = viewport.New(maxInt(m.width-4, 1), maxInt(m.height-chromeLines-2, 1))
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	switch m.currentView {
	case ViewCharts:
		b.WriteString(m.renderChartsView())
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderListView())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader shows role tabs, like totals and refresh status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	lang := m.lang()
	snap := m.snapshot

	parts := []string{styles.Logo.Render("promptdeck")}
	for i, role := range catalog.Roles {
		label := fmt.Sprintf("%d %s (%d)", i+1, tr(lang, "role."+string(role)), snap.RoleCounts[role])
		if role == snap.View.Role {
			parts = append(parts, styles.ActiveChip.Render(label))
		} else {
			parts = append(parts, styles.MutedText.Render(label))
		}
	}
	parts = append(parts,
		styles.Text.Render(fmt.Sprintf("♥ %s %d", tr(lang, "likes.global"), projection.GlobalLikesTotal(snap))),
		styles.MutedText.Render(fmt.Sprintf("%s %d", tr(lang, "likes.tab"), projection.TabLikesTotal(snap))),
	)

	switch {
	case !m.loaded:
		parts = append(parts, styles.WarningText.Render(tr(lang, "loading")))
	case snap.IsOffline():
		parts = append(parts, styles.DangerText.Render(tr(lang, "offline")))
	default:
		parts = append(parts, styles.FaintText.Render(tr(lang, "updated")+" "+lastUpdated(snap.LastLoaded, snap.LastRefreshed, lang)))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(parts, "  "))
}

func lastUpdated(loaded, refreshed time.Time, lang string) string {
	last := loaded
	if refreshed.After(last) {
		last = refreshed
	}
	if last.IsZero() {
		return tr(lang, "never")
	}
	return last.Format("15:04:05")
}

// renderFilterBar shows the query, category, tags and sort flag.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles()
	lang := m.lang()
	v := m.snapshot.View

	var parts []string
	if m.searching {
		parts = append(parts, m.search.View())
	} else if v.Query != "" {
		parts = append(parts, styles.AccentText.Render("/ "+v.Query))
	} else {
		parts = append(parts, styles.FaintText.Render("/ "+tr(lang, "search")))
	}

	cat := tr(lang, "category.all")
	if v.Category != "" {
		cat = m.table.Label(v.Category, lang)
	}
	parts = append(parts, styles.InfoText.Render("["+cat+"]"))

	if len(m.tags) > 0 {
		chips := []string{styles.MutedText.Render(tr(lang, "tags") + ":")}
		for i, tag := range m.tags {
			selected := containsString(v.Tags, tag)
			label := tag
			if i == m.tagIdx {
				label = "›" + label
			}
			if selected {
				chips = append(chips, styles.ActiveChip.Render(label))
			} else if i == m.tagIdx {
				chips = append(chips, styles.Chip.Render(label))
			} else {
				chips = append(chips, styles.FaintText.Render(label))
			}
		}
		parts = append(parts, strings.Join(chips, " "))
	}
	if v.SortByLikes {
		parts = append(parts, styles.WarningText.Render("↓♥ "+tr(lang, "sorted")))
	}
	return lipgloss.NewStyle().Width(m.width).MaxHeight(1).Padding(0, 1).Render(strings.Join(parts, "  "))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	lang := m.lang()
	if m.flash != "" {
		return styles.Footer.Width(m.width).Render(styles.SuccessText.Render(m.flash))
	}
	hint := "footer.list"
	switch {
	case m.searching:
		hint = "footer.search"
	case m.currentView == ViewCharts:
		hint = "footer.charts"
	case m.currentView == ViewLogs:
		hint = "footer.logs"
	}
	return styles.Footer.Width(m.width).MaxHeight(1).Render(tr(lang, hint))
}

// renderListView renders the entry list with the detail pane.
func (m Model) renderListView() string {
	listW, detailW, listH, detailH, stacked := m.layout()
	list := m.renderBox(tr(m.lang(), "role."+string(m.snapshot.View.Role)), m.renderEntries(listW-4, listH-2), listW, listH, true)

	title := ""
	if entry, ok := m.selectedEntry(); ok {
		title = string(entry.ID)
	}
	detail := m.renderBox(title, m.detailViewport.View(), detailW, detailH, false)
	if stacked {
		return lipgloss.JoinVertical(lipgloss.Left, list, detail)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

// renderEntries renders rows around the selection so it stays visible.
func (m Model) renderEntries(width, height int) string {
	styles := m.theme.Styles()
	lang := m.lang()
	if len(m.visible) == 0 {
		if !m.loaded {
			return styles.MutedText.Render(tr(lang, "loading"))
		}
		return styles.MutedText.Render(tr(lang, "empty"))
	}

	start, end := windowAround(m.selected, len(m.visible), height)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		entry := m.visible[i]
		heart := "♡"
		if m.snapshot.Liked(string(entry.ID)) {
			heart = "♥"
		}
		title := entry.Title(lang)
		if title == "" {
			title = string(entry.ID)
		}
		row := fmt.Sprintf("%s %3d  %s", heart, entry.Likes, oneLine(title))
		if cat := entry.ResolvedCategory(); cat != "" {
			row += "  · " + m.table.Label(cat, lang)
		}
		style := styles.Text
		if i == m.selected {
			style = styles.Selected
		}
		rows = append(rows, style.Width(width).MaxWidth(width).Render(row))
	}
	return strings.Join(rows, "\n")
}

// windowAround returns the [start, end) range of height rows containing sel.
func windowAround(sel, total, height int) (int, int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start := sel - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}

// updateDetailViewport renders the selected entry into the detail pane.
func (m *Model) updateDetailViewport() {
	if m.detailViewport.Width == 0 {
		return
	}
	entry, ok := m.selectedEntry()
	if !ok {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.renderDetail(entry, m.detailViewport.Width))
	m.detailViewport.GotoTop()
}

func (m Model) renderDetail(entry catalog.Entry, width int) string {
	styles := m.theme.Styles()
	lang := m.lang()
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	title := entry.Title(lang)
	if title == "" {
		title = string(entry.ID)
	}
	b.WriteString(styles.Text.Bold(true).Render(wrap.Render(title)))
	b.WriteString("\n")

	meta := []string{}
	if m.snapshot.Liked(string(entry.ID)) {
		meta = append(meta, styles.DangerText.Render(fmt.Sprintf("♥ %d", entry.Likes)))
	} else {
		meta = append(meta, styles.MutedText.Render(fmt.Sprintf("♡ %d", entry.Likes)))
	}
	if cat := entry.ResolvedCategory(); cat != "" {
		meta = append(meta, styles.InfoText.Render(m.table.Label(cat, lang)))
	}
	b.WriteString(strings.Join(meta, "  "))
	b.WriteString("\n")

	if tags := projection.TagsOf(entry, lang); len(tags) > 0 {
		chips := make([]string, len(tags))
		for i, t := range tags {
			chips[i] = styles.AccentText.Render("#" + t)
		}
		b.WriteString(wrap.Render(strings.Join(chips, " ")))
		b.WriteString("\n")
	}

	section := func(labelKey, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Bold(true).Render(tr(lang, labelKey)))
		b.WriteString("\n")
		b.WriteString(wrap.Render(value))
		b.WriteString("\n")
	}
	desc := string(entry.DescriptionJP)
	if lang == "en" && entry.DescriptionEN != "" {
		desc = string(entry.DescriptionEN)
	}
	section("description", desc)
	section("position", string(entry.Position))
	section("target", string(entry.Target))
	section("model", string(entry.Model))
	section("request", string(entry.Request))
	section("prompt", entry.Body(lang))
	return b.String()
}

// renderBox draws a rounded border with a title on the top line.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	styles := m.theme.Styles()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(maxInt(width-2, 1)).
		Height(maxInt(height-2, 1)).
		MaxHeight(height)
	body := content
	if title != "" {
		body = styles.AccentText.Bold(true).Render(truncate(title, width-6)) + "\n" + content
	}
	return box.Render(body)
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
