package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for one of the two appearance modes.
type Theme struct {
	Name string

	Background string
	Surface    string
	FocusBg    string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Bars cycles through chart series colors.
	Bars []string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		InfoText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Chip: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Info)).
			Padding(0, 1),
		ActiveChip: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Accent)).
			Bold(true).
			Padding(0, 1),
		bars: t.Bars,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header     lipgloss.Style
	Footer     lipgloss.Style
	Logo       lipgloss.Style
	Selected   lipgloss.Style
	Chip       lipgloss.Style
	ActiveChip lipgloss.Style

	bars []string
}

// BarStyle returns the color for the i-th series.
func (s Styles) BarStyle(i int) lipgloss.Style {
	if len(s.bars) == 0 {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.bars[i%len(s.bars)]))
}

// LevelStyle colors a log level name.
func (s Styles) LevelStyle(level string) lipgloss.Style {
	switch level {
	case "warn":
		return s.WarningText
	case "error", "fatal", "panic":
		return s.DangerText
	case "debug", "trace":
		return s.InfoText
	default:
		return s.Text
	}
}

// Chart series colors mirror the palette the web charts used.
var chartPalette = []string{"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF", "#FF9F40", "#8AC926", "#1982C4"}

var themes = map[string]Theme{
	"light": lightTheme(),
	"dark":  darkTheme(),
}

// GetTheme returns a theme by name, defaulting to light.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return lightTheme()
}

func lightTheme() Theme {
	return Theme{
		Name:          "light",
		Background:    "#f8fafc",
		Surface:       "#e2e8f0",
		FocusBg:       "#ffffff",
		SelectionBg:   "#c7d2fe",
		SelectionText: "#1e1b4b",
		Border:        "#cbd5e1",
		BorderFocus:   "#6366f1",
		Text:          "#334155",
		Muted:         "#475569",
		Faint:         "#94a3b8",
		Accent:        "#4f46e5",
		Success:       "#15803d",
		Warning:       "#b45309",
		Danger:        "#dc2626",
		Info:          "#0369a1",
		Bars:          chartPalette,
	}
}

func darkTheme() Theme {
	return Theme{
		Name:          "dark",
		Background:    "#0f172a",
		Surface:       "#1e293b",
		FocusBg:       "#111827",
		SelectionBg:   "#312e81",
		SelectionText: "#e0e7ff",
		Border:        "#334155",
		BorderFocus:   "#818cf8",
		Text:          "#cbd5e1",
		Muted:         "#94a3b8",
		Faint:         "#64748b",
		Accent:        "#a5b4fc",
		Success:       "#4ade80",
		Warning:       "#fbbf24",
		Danger:        "#f87171",
		Info:          "#38bdf8",
		Bars:          chartPalette,
	}
}
