// Package state owns the in-memory model promptdeck renders from.
//
// # Overview
//
// A single Store holds:
//
//   - the per-role catalog (faculty, student, shared, request), already
//     normalized by the engine
//   - the likes map, the only source of truth for like counts
//   - the user's like set
//   - the view: active role, language, theme, query, category, tags, sort flag
//
// Every entry a reader sees carries Likes == likes[id] (or 0). That value is
// derived by ApplyLikes after each mutation and is never stored back.
//
// # Update flow
//
//	engine (load, refresh, toggle)      ui / projection
//	┌──────────────────────────┐       ┌─────────────────────┐
//	│ store.Replace()          │       │ <-Subscribe()       │
//	│ store.ReplaceLikes()     │──────>│ store.Snapshot()    │
//	│ store.Update(fn)         │ (mu)  │ projection.Visible()│
//	└──────────────────────────┘       └─────────────────────┘
//
// Writers take the write lock, mutate, recompute the working set of the
// active role and release the lock before notifying. Subscribers receive a
// coalesced signal and pull a Snapshot, which is deep copied.
//
// # Failure bookkeeping
//
// RecordRefreshError keeps the previous likes and counts consecutive
// failures so the UI can show an offline marker, mirroring how a failed
// poll never wipes the last good data.
package state
