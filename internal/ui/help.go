package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc [2]string
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	lang := m.lang()

	sections := []helpSection{
		{
			title: "help.views",
			items: []helpItem{
				{"tab", [2]string{"表示を切り替え", "Cycle views"}},
				{"1-4", [2]string{"教員/学生/共有/リクエスト", "Faculty/Student/Shared/Requests"}},
				{"esc", [2]string{"一覧に戻る", "Back to list"}},
			},
		},
		{
			title: "help.nav",
			items: []helpItem{
				{"j/k", [2]string{"上下に移動", "Move up/down"}},
				{"g/G", [2]string{"先頭/末尾", "Top/bottom"}},
				{"ctrl+d/u", [2]string{"詳細をスクロール", "Scroll detail"}},
			},
		},
		{
			title: "help.entry",
			items: []helpItem{
				{"space/+", [2]string{"いいね", "Like / unlike"}},
				{"y", [2]string{"プロンプトをコピー", "Copy prompt"}},
				{"Y", [2]string{"シェア文をコピー", "Copy share text"}},
			},
		},
		{
			title: "help.filters",
			items: []helpItem{
				{"/", [2]string{"キーワード検索", "Search"}},
				{"c", [2]string{"カテゴリを切り替え", "Cycle category"}},
				{"t/x", [2]string{"タグを選択/切り替え", "Pick/toggle tag"}},
				{"s", [2]string{"いいね順", "Sort by likes"}},
				{"r", [2]string{"絞り込みを解除", "Reset filters"}},
			},
		},
		{
			title: "help.general",
			items: []helpItem{
				{"R", [2]string{"いいね数を更新", "Refresh likes"}},
				{"T", [2]string{"テーマ切り替え", "Toggle theme"}},
				{"L", [2]string{"日本語/English", "Japanese/English"}},
				{"?", [2]string{"ヘルプ", "Toggle help"}},
				{"q/ctrl+c", [2]string{"終了", "Quit"}},
			},
		},
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(tr(lang, "help.title")))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 34)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(tr(lang, section.title)))
		b.WriteString("\n")
		for _, item := range section.items {
			desc := item.desc[0]
			if lang == "en" {
				desc = item.desc[1]
			}
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(48)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
