// Package ui is the promptdeck terminal interface, built on Bubble Tea.
//
// The model never owns catalog data. It holds a state.Snapshot and the
// projections derived from it (visible entries, display tags) and rebuilds
// them whenever the store signals a change. User actions go through the
// engine (likes, role, language, theme) or straight to the store (query,
// category, tags, sort), after which the model re-reads the snapshot so the
// screen reflects the action without waiting for the subscription.
//
// Three views share one header, filter bar and footer:
//
//   - List: entries of the active role with a detail pane for the selection
//   - Charts: distributions of the filtered entries and the Top 5 ranking
//   - Logs: tail of the promptdeck log file, colored by level
//
// Press ? inside the program for the key bindings.
package ui
