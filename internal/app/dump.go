package app

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/five82/promptdeck/internal/catalog"
	"github.com/five82/promptdeck/internal/category"
	"github.com/five82/promptdeck/internal/projection"
	"github.com/five82/promptdeck/internal/state"
)

// Summary is the JSON view of a snapshot printed by -dump and served on
// /debug/snapshot.
type Summary struct {
	Role        catalog.Role         `json:"role"`
	Lang        string               `json:"lang"`
	GlobalLikes int                  `json:"global_likes"`
	TabLikes    int                  `json:"tab_likes"`
	RoleCounts  map[catalog.Role]int `json:"role_counts"`
	UserLikes   []string             `json:"user_likes"`
	Offline     bool                 `json:"offline"`
	LastError   string               `json:"last_error,omitempty"`
	LastLoaded  *time.Time           `json:"last_loaded,omitempty"`
	Visible     []catalog.Entry      `json:"visible,omitempty"`
	Charts      []projection.Chart   `json:"charts"`
}

// Summarize projects snap. Visible entries are included only when withEntries is set.
func Summarize(snap state.Snapshot, table *category.Table, withEntries bool) Summary {
	s := Summary{
		Role:        snap.View.Role,
		Lang:        snap.View.Lang,
		GlobalLikes: projection.GlobalLikesTotal(snap),
		TabLikes:    projection.TabLikesTotal(snap),
		RoleCounts:  snap.RoleCounts,
		UserLikes:   snap.UserLikes,
		Offline:     snap.IsOffline(),
		Charts:      projection.Charts(snap, table),
	}
	if snap.LastError != nil {
		s.LastError = snap.LastError.Error()
	}
	if !snap.LastLoaded.IsZero() {
		loaded := snap.LastLoaded
		s.LastLoaded = &loaded
	}
	if withEntries {
		s.Visible = projection.Visible(snap)
	}
	return s
}

// Dump writes the summary of snap, visible entries included, as indented JSON.
func Dump(w io.Writer, snap state.Snapshot, table *category.Table) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Summarize(snap, table, true)); err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	return nil
}
