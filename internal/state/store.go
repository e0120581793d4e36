package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/promptdeck/internal/catalog"
)

// View is the user's current browsing state.
type View struct {
	Role        catalog.Role
	Lang        string
	Theme       string
	Query       string
	Category    string
	Tags        []string
	SortByLikes bool
}

func (v View) clone() View {
	v.Tags = append([]string(nil), v.Tags...)
	return v
}

// DefaultView is the view before preferences are restored.
func DefaultView() View {
	return View{Role: catalog.RoleFaculty, Lang: "jp", Theme: "light"}
}

// Snapshot is an immutable copy of the store handed to readers.
type Snapshot struct {
	View       View
	Working    []catalog.Entry // active role, likes applied, insertion order
	Likes      catalog.Likes
	UserLikes  []string
	RoleCounts map[catalog.Role]int

	Loaded              bool
	LastLoaded          time.Time
	LastRefreshed       time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the likes refresh has failed repeatedly.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Liked reports whether id is in the user's like set.
func (s Snapshot) Liked(id string) bool {
	for _, v := range s.UserLikes {
		if v == id {
			return true
		}
	}
	return false
}

// Store owns the merged catalog, the likes map, the user's like set and the
// view. All mutation goes through its methods; each one recomputes the
// working set and then notifies subscribers.
type Store struct {
	mu sync.RWMutex

	data      map[catalog.Role][]catalog.Entry
	likes     catalog.Likes
	userLikes []string
	userIndex map[string]struct{}
	view      View
	working   []catalog.Entry

	loaded        bool
	lastLoaded    time.Time
	lastRefreshed time.Time
	lastError     error
	failures      int

	readyOnce sync.Once
	ready     chan struct{}

	subMu  sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

// NewStore returns an empty store showing view.
func NewStore(view View) *Store {
	s := &Store{
		data:      emptyData(),
		likes:     catalog.Likes{},
		userIndex: map[string]struct{}{},
		view:      view.clone(),
		ready:     make(chan struct{}),
		subs:      map[int]chan struct{}{},
	}
	s.recompute()
	return s
}

func emptyData() map[catalog.Role][]catalog.Entry {
	data := make(map[catalog.Role][]catalog.Entry, len(catalog.Roles))
	for _, r := range catalog.Roles {
		data[r] = []catalog.Entry{}
	}
	return data
}

// Replace installs a full load. Roles missing from data become empty.
// Readers never observe a mix of old and new data.
func (s *Store) Replace(data map[catalog.Role][]catalog.Entry, likes catalog.Likes) {
	s.ReplaceWith(data, likes, nil)
}

// ReplaceWith is Replace with likes passed through merge under the write lock.
func (s *Store) ReplaceWith(data map[catalog.Role][]catalog.Entry, likes catalog.Likes, merge func(catalog.Likes) catalog.Likes) {
	next := emptyData()
	for role, entries := range data {
		next[role] = cloneEntries(entries)
	}
	merged := likes.Clone()
	s.mu.Lock()
	if merge != nil {
		merged = merge(merged)
	}
	s.data = next
	s.likes = merged
	s.loaded = true
	s.lastLoaded = time.Now()
	s.recompute()
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
	s.notify()
}

// ReplaceLikes swaps the likes map wholesale after a successful refresh.
func (s *Store) ReplaceLikes(likes catalog.Likes) {
	s.MergeLikes(likes, nil)
}

// MergeLikes installs remote after passing it through merge, which runs under
// the write lock so no Update can interleave with it. A nil merge installs
// remote as is.
func (s *Store) MergeLikes(remote catalog.Likes, merge func(catalog.Likes) catalog.Likes) {
	likes := remote.Clone()
	s.mu.Lock()
	if merge != nil {
		likes = merge(likes)
	}
	s.likes = likes
	s.lastRefreshed = time.Now()
	s.lastError = nil
	s.failures = 0
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// RecordRefreshError keeps the previous likes and records err for display.
func (s *Store) RecordRefreshError(err error) {
	s.mu.Lock()
	s.lastError = err
	s.lastRefreshed = time.Now()
	s.failures++
	s.mu.Unlock()
	s.notify()
}

// Tx is the mutable handle passed to Update callbacks. It is only valid
// inside the callback.
type Tx struct {
	s *Store
}

// Like returns the current count for id.
func (tx *Tx) Like(id string) int { return tx.s.likes[id] }

// SetLike writes a single count. Negative values clamp to zero.
func (tx *Tx) SetLike(id string, n int) {
	if n < 0 {
		n = 0
	}
	tx.s.likes[id] = n
}

// Liked reports membership in the user's like set.
func (tx *Tx) Liked(id string) bool {
	_, ok := tx.s.userIndex[id]
	return ok
}

// AddUserLike appends id to the like set if missing.
func (tx *Tx) AddUserLike(id string) {
	if tx.Liked(id) {
		return
	}
	tx.s.userIndex[id] = struct{}{}
	tx.s.userLikes = append(tx.s.userLikes, id)
}

// RemoveUserLike drops id from the like set.
func (tx *Tx) RemoveUserLike(id string) {
	if !tx.Liked(id) {
		return
	}
	delete(tx.s.userIndex, id)
	out := tx.s.userLikes[:0]
	for _, v := range tx.s.userLikes {
		if v != id {
			out = append(out, v)
		}
	}
	tx.s.userLikes = out
}

// View returns the live view for modification.
func (tx *Tx) View() *View { return &tx.s.view }

// Update runs fn under the write lock, then recomputes the working set and
// notifies subscribers.
func (s *Store) Update(fn func(tx *Tx)) {
	s.mu.Lock()
	fn(&Tx{s: s})
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// SetUserLikes replaces the like set, typically from restored preferences.
func (s *Store) SetUserLikes(ids []string) {
	s.Update(func(tx *Tx) {
		tx.s.userLikes = nil
		tx.s.userIndex = map[string]struct{}{}
		for _, id := range ids {
			tx.AddUserLike(id)
		}
	})
}

// SetRole switches the active role and clears role scoped filters.
func (s *Store) SetRole(role catalog.Role) {
	s.Update(func(tx *Tx) {
		v := tx.View()
		v.Role = role
		v.Query, v.Category, v.Tags = "", "", nil
	})
}

// SetLang sets the display language.
func (s *Store) SetLang(lang string) {
	s.Update(func(tx *Tx) { tx.View().Lang = lang })
}

// SetTheme sets the color theme.
func (s *Store) SetTheme(theme string) {
	s.Update(func(tx *Tx) { tx.View().Theme = theme })
}

// SetQuery sets the free text search.
func (s *Store) SetQuery(q string) {
	s.Update(func(tx *Tx) { tx.View().Query = q })
}

// SetCategory selects a category key; empty clears the filter.
func (s *Store) SetCategory(key string) {
	s.Update(func(tx *Tx) { tx.View().Category = key })
}

// ToggleTag adds tag to the selection or removes it if already selected.
func (s *Store) ToggleTag(tag string) {
	s.Update(func(tx *Tx) {
		v := tx.View()
		for i, t := range v.Tags {
			if t == tag {
				v.Tags = append(v.Tags[:i:i], v.Tags[i+1:]...)
				return
			}
		}
		v.Tags = append(v.Tags, tag)
	})
}

// ResetFilters clears query, category and tags.
func (s *Store) ResetFilters() {
	s.Update(func(tx *Tx) {
		v := tx.View()
		v.Query, v.Category, v.Tags = "", "", nil
	})
}

// ToggleSortByLikes flips the sort flag.
func (s *Store) ToggleSortByLikes() {
	s.Update(func(tx *Tx) {
		v := tx.View()
		v.SortByLikes = !v.SortByLikes
	})
}

// Entries returns a copy of role's entries with likes applied.
func (s *Store) Entries(role catalog.Role) []catalog.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ApplyLikes(s.data[role], s.likes)
}

// Liked reports whether id is in the user's like set.
func (s *Store) Liked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.userIndex[id]
	return ok
}

// Likes returns a copy of the likes map.
func (s *Store) Likes() catalog.Likes {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.likes.Clone()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[catalog.Role]int, len(s.data))
	for role, entries := range s.data {
		counts[role] = len(entries)
	}
	snap := Snapshot{
		View:                s.view.clone(),
		Working:             cloneEntries(s.working),
		Likes:               s.likes.Clone(),
		UserLikes:           append([]string{}, s.userLikes...),
		RoleCounts:          counts,
		Loaded:              s.loaded,
		LastLoaded:          s.lastLoaded,
		LastRefreshed:       s.lastRefreshed,
		ConsecutiveFailures: s.failures,
	}
	if s.lastError != nil {
		snap.LastError = fmt.Errorf("%w", s.lastError)
	}
	return snap
}

// Ready is closed once the first full load has been installed.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Subscribe returns a channel signalled after every mutation. Signals
// coalesce: a slow reader sees one pending signal, not one per change.
// The returned func unsubscribes.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// recompute must be called with mu held for writing.
func (s *Store) recompute() {
	s.working = ApplyLikes(s.data[s.view.Role], s.likes)
}

// ApplyLikes returns a copy of entries whose Likes field equals likes[id],
// or zero when the id has no count. likes is never modified.
func ApplyLikes(entries []catalog.Entry, likes catalog.Likes) []catalog.Entry {
	out := make([]catalog.Entry, len(entries))
	for i, e := range entries {
		e = e.Clone()
		e.Likes = likes[string(e.ID)]
		out[i] = e
	}
	return out
}

func cloneEntries(entries []catalog.Entry) []catalog.Entry {
	out := make([]catalog.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
