package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/promptdeck/internal/projection"
)

const (
	chartLabelWidth = 22
	minBarWidth     = 10
)

// renderChartsView lays the role's charts out in two columns when wide.
func (m Model) renderChartsView() string {
	charts := projection.Charts(m.snapshot, m.table)
	contentH := maxInt(m.height-chromeLines, 4)

	columns := 1
	if m.width >= sideBySideAt {
		columns = 2
	}
	boxW := m.width / columns

	var rows []string
	for i := 0; i < len(charts); i += columns {
		var boxes []string
		for j := i; j < i+columns && j < len(charts); j++ {
			boxes = append(boxes, m.renderChart(charts[j], boxW))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.NewStyle().Height(contentH).MaxHeight(contentH).Render(strings.Join(rows, "\n"))
}

func (m Model) renderChart(chart projection.Chart, width int) string {
	styles := m.theme.Styles()
	inner := maxInt(width-4, minBarWidth+chartLabelWidth)
	barW := maxInt(inner-chartLabelWidth-6, minBarWidth)

	var lines []string
	switch chart.Kind {
	case projection.KindRanking:
		peak := 0
		for _, r := range chart.Ranking {
			if r.Likes > peak {
				peak = r.Likes
			}
		}
		for i, r := range chart.Ranking {
			lines = append(lines, barLine(fmt.Sprintf("%d. %s", i+1, r.Name), r.Likes, peak, barW, styles.BarStyle(i)))
		}
	default:
		peak := 0
		for _, b := range chart.Buckets {
			if b.Count > peak {
				peak = b.Count
			}
		}
		for i, b := range chart.Buckets {
			lines = append(lines, barLine(b.Label, b.Count, peak, barW, styles.BarStyle(i)))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, styles.FaintText.Render(tr(m.lang(), "empty")))
	}
	return m.renderBox(chart.Title, strings.Join(lines, "\n"), width, len(lines)+3, false)
}

// barLine renders "label ████ n" with the bar scaled against peak.
func barLine(label string, value, peak, width int, style lipgloss.Style) string {
	n := 0
	if peak > 0 {
		n = value * width / peak
	}
	if value > 0 && n == 0 {
		n = 1
	}
	name := lipgloss.NewStyle().Width(chartLabelWidth).MaxWidth(chartLabelWidth).Render(truncate(label, chartLabelWidth-1))
	return name + style.Render(strings.Repeat("█", n)) + fmt.Sprintf(" %d", value)
}
