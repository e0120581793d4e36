package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	ToggleTheme key.Binding
	ToggleLang  key.Binding
	Tab         key.Binding
	Escape      key.Binding
	Refresh     key.Binding

	// Roles
	RoleFaculty key.Binding
	RoleStudent key.Binding
	RoleShared  key.Binding
	RoleRequest key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Entry actions
	Like      key.Binding
	CopyBody  key.Binding
	CopyShare key.Binding

	// Filters
	Search       key.Binding
	NextCategory key.Binding
	NextTag      key.Binding
	ToggleTag    key.Binding
	Sort         key.Binding
	Reset        key.Binding

	// Search/input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Light/dark theme"),
		),
		ToggleLang: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "日本語/English"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to list"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Refresh likes"),
		),

		RoleFaculty: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "Faculty")),
		RoleStudent: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "Student")),
		RoleShared:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "Shared")),
		RoleRequest: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "Requests")),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Page down"),
		),

		Like: key.NewBinding(
			key.WithKeys(" ", "+"),
			key.WithHelp("space", "Like/unlike"),
		),
		CopyBody: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy prompt"),
		),
		CopyShare: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "Copy share text"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		NextCategory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Next category"),
		),
		NextTag: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Next tag"),
		),
		ToggleTag: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Select tag"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Sort by likes"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reset filters"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.RoleFaculty, k.RoleStudent, k.RoleShared, k.RoleRequest, k.Tab, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageDown, k.PageUp},
		{k.Like, k.CopyBody, k.CopyShare, k.Refresh},
		{k.Search, k.NextCategory, k.NextTag, k.ToggleTag, k.Sort, k.Reset},
		{k.ToggleLang, k.ToggleTheme, k.Help, k.Quit},
	}
}
