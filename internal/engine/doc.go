// Package engine merges remote catalogs and like counts into state.Store and
// applies the user's mutations.
//
// LoadAll fans out to the faculty and student static catalogs and the
// community payload with an errgroup. A failing source is logged and replaced
// by its empty value, so the load never returns an error. Faculty and student
// ids lacking a "-" are rewritten to "<role>-<id>" before the data is
// installed in a single Store.Replace.
//
// RefreshLikes runs on the polling loop started by StartPolling. Under the
// default replace policy it overwrites the likes map wholesale, so a like
// registered locally but not yet counted remotely can disappear until the
// server catches up. The keep-pending policy holds such ids at their local
// count until the remote value reaches it.
//
// ToggleLike is optimistic. New likes are sent by a detached goroutine bound
// to the engine's session context and throttled by a rate limiter; the
// result is counted and logged at debug level, never returned.
package engine
