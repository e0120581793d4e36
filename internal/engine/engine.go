package engine

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/five82/promptdeck/internal/catalog"
	"github.com/five82/promptdeck/internal/config"
	"github.com/five82/promptdeck/internal/metrics"
	"github.com/five82/promptdeck/internal/prefs"
	"github.com/five82/promptdeck/internal/state"
)

// Options configure an Engine.
type Options struct {
	Fetcher catalog.Fetcher
	Store   *state.Store
	Prefs   prefs.Store // nil disables persistence
	Logger  zerolog.Logger
	Metrics *metrics.Metrics // nil disables metrics

	// MergePolicy is config.MergeReplace (default) or config.MergeKeepPending.
	MergePolicy string
	// Limiter throttles detached like registrations. Nil means unlimited.
	Limiter *rate.Limiter
}

// Engine reconciles the static catalogs, the community payload and the
// likes map into the state store and applies user mutations.
type Engine struct {
	fetcher catalog.Fetcher
	store   *state.Store
	prefs   prefs.Store
	log     zerolog.Logger
	metrics *metrics.Metrics
	merge   string
	limiter *rate.Limiter

	// session bounds detached work; it is never the caller's context.
	session context.Context
	tasks   sync.WaitGroup

	pendingMu sync.Mutex
	pending   map[string]int
}

// New builds an Engine whose detached tasks live as long as session.
func New(session context.Context, opts Options) *Engine {
	store := opts.Store
	if store == nil {
		store = state.NewStore(state.DefaultView())
	}
	merge := opts.MergePolicy
	if merge == "" {
		merge = config.MergeReplace
	}
	return &Engine{
		fetcher: opts.Fetcher,
		store:   store,
		prefs:   opts.Prefs,
		log:     opts.Logger,
		metrics: opts.Metrics,
		merge:   merge,
		limiter: opts.Limiter,
		session: session,
		pending: map[string]int{},
	}
}

// Store returns the state store the engine writes to.
func (e *Engine) Store() *state.Store { return e.store }

// NormalizeID prefixes faculty and student ids that carry no "-" with the
// role name. Other roles keep the remote id.
func NormalizeID(role catalog.Role, raw string) string {
	if !role.Static() || strings.Contains(raw, "-") {
		return raw
	}
	return string(role) + "-" + raw
}

func normalize(role catalog.Role, entries []catalog.Entry) []catalog.Entry {
	out := make([]catalog.Entry, len(entries))
	for i, entry := range entries {
		entry = entry.Clone()
		entry.ID = catalog.Text(NormalizeID(role, string(entry.ID)))
		entry.Role = role
		out[i] = entry
	}
	return out
}

// LoadAll fetches both static catalogs and the community payload
// concurrently. Each failed source degrades to its empty value; the result
// is installed in one step once all three have settled.
func (e *Engine) LoadAll(ctx context.Context) {
	var (
		faculty   []catalog.Entry
		student   []catalog.Entry
		community catalog.Community
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		faculty = e.fetchStatic(gctx, catalog.RoleFaculty)
		return nil
	})
	g.Go(func() error {
		student = e.fetchStatic(gctx, catalog.RoleStudent)
		return nil
	})
	g.Go(func() error {
		community = e.fetchCommunity(gctx)
		return nil
	})
	_ = g.Wait()

	data := map[catalog.Role][]catalog.Entry{
		catalog.RoleFaculty: normalize(catalog.RoleFaculty, faculty),
		catalog.RoleStudent: normalize(catalog.RoleStudent, student),
		catalog.RoleShared:  normalize(catalog.RoleShared, community.Shared),
		catalog.RoleRequest: normalize(catalog.RoleRequest, community.Request),
	}
	e.store.ReplaceWith(data, community.Likes, e.mergePending)

	for role, entries := range data {
		e.metrics.SetEntries(string(role), len(entries))
	}
	e.metrics.SetGlobalLikes(e.store.Likes().Total())
	e.log.Info().
		Int("faculty", len(data[catalog.RoleFaculty])).
		Int("student", len(data[catalog.RoleStudent])).
		Int("shared", len(data[catalog.RoleShared])).
		Int("request", len(data[catalog.RoleRequest])).
		Int("likes", len(community.Likes)).
		Msg("catalog loaded")
}

func (e *Engine) fetchStatic(ctx context.Context, role catalog.Role) []catalog.Entry {
	if e.fetcher == nil {
		return []catalog.Entry{}
	}
	entries, err := e.fetcher.FetchStatic(ctx, role)
	if err != nil {
		e.metrics.SourceFetch(string(role), metrics.OutcomeDegraded)
		e.log.Error().Err(err).Str("source", "static").Str("role", string(role)).Msg("source unavailable")
		return []catalog.Entry{}
	}
	e.metrics.SourceFetch(string(role), metrics.OutcomeOK)
	return entries
}

func (e *Engine) fetchCommunity(ctx context.Context) catalog.Community {
	if e.fetcher == nil {
		return catalog.EmptyCommunity()
	}
	community, err := e.fetcher.FetchCommunity(ctx)
	switch {
	case errors.Is(err, catalog.ErrUnconfigured):
		e.metrics.SourceFetch("community", metrics.OutcomeSkipped)
		e.log.Info().Str("source", "community").Msg("community endpoint not configured")
		return catalog.EmptyCommunity()
	case err != nil:
		e.metrics.SourceFetch("community", metrics.OutcomeDegraded)
		e.log.Error().Err(err).Str("source", "community").Msg("source unavailable")
		return catalog.EmptyCommunity()
	}
	e.metrics.SourceFetch("community", metrics.OutcomeOK)
	return community
}

// RefreshLikes replaces the likes map with the remote copy. On failure the
// current map stays in place and the error is recorded on the store.
func (e *Engine) RefreshLikes(ctx context.Context) {
	if e.fetcher == nil || !e.fetcher.Configured() {
		e.metrics.LikesRefresh(metrics.OutcomeSkipped)
		return
	}
	likes, err := e.fetcher.FetchLikes(ctx)
	if err != nil {
		e.metrics.LikesRefresh(metrics.OutcomeError)
		e.log.Warn().Err(err).Msg("likes refresh failed")
		e.store.RecordRefreshError(err)
		return
	}
	e.store.MergeLikes(likes, e.mergePending)
	total := e.store.Likes().Total()
	e.metrics.LikesRefresh(metrics.OutcomeOK)
	e.metrics.SetGlobalLikes(total)
	e.log.Debug().Int("ids", len(likes)).Int("total", total).Msg("likes refreshed")
}

// mergePending applies the keep-pending policy: ids liked locally whose
// remote count is still behind keep the local count. Once the remote count
// catches up the id leaves the pending set. Under the replace policy remote
// is returned unchanged. Callers hold the store lock so toggles and merges
// see the pending set in the same order as the likes map.
func (e *Engine) mergePending(remote catalog.Likes) catalog.Likes {
	if remote == nil {
		remote = catalog.Likes{}
	}
	if e.merge != config.MergeKeepPending {
		return remote
	}
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	if len(e.pending) == 0 {
		return remote
	}
	merged := remote.Clone()
	for id, local := range e.pending {
		if merged[id] >= local {
			delete(e.pending, id)
			continue
		}
		merged[id] = local
	}
	return merged
}

func (e *Engine) markPending(id string, count int) {
	if e.merge != config.MergeKeepPending {
		return
	}
	e.pendingMu.Lock()
	e.pending[id] = count
	e.pendingMu.Unlock()
}

func (e *Engine) clearPending(id string) {
	e.pendingMu.Lock()
	delete(e.pending, id)
	e.pendingMu.Unlock()
}

// Wait blocks until every detached registration has finished.
func (e *Engine) Wait() {
	e.tasks.Wait()
}
