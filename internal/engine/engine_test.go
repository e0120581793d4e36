package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/five82/promptdeck/internal/catalog"
	"github.com/five82/promptdeck/internal/config"
	"github.com/five82/promptdeck/internal/metrics"
	"github.com/five82/promptdeck/internal/prefs"
	"github.com/five82/promptdeck/internal/state"
)

type fakeFetcher struct {
	mu sync.Mutex

	static       map[catalog.Role][]catalog.Entry
	staticErr    map[catalog.Role]error
	community    catalog.Community
	communityErr error
	likes        catalog.Likes
	likesErr     error
	registerErr  error
	unconfigured bool

	likesCalls int
	registered []catalog.LikeRequest
}

func (f *fakeFetcher) FetchStatic(_ context.Context, role catalog.Role) ([]catalog.Entry, error) {
	if err := f.staticErr[role]; err != nil {
		return nil, err
	}
	return f.static[role], nil
}

func (f *fakeFetcher) FetchCommunity(context.Context) (catalog.Community, error) {
	if f.unconfigured {
		return catalog.Community{}, catalog.ErrUnconfigured
	}
	if f.communityErr != nil {
		return catalog.Community{}, f.communityErr
	}
	return f.community, nil
}

func (f *fakeFetcher) FetchLikes(context.Context) (catalog.Likes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likesCalls++
	if f.likesErr != nil {
		return nil, f.likesErr
	}
	return f.likes.Clone(), nil
}

func (f *fakeFetcher) RegisterLike(_ context.Context, req catalog.LikeRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, req)
	return f.registerErr
}

func (f *fakeFetcher) Configured() bool { return !f.unconfigured }

func (f *fakeFetcher) calls() (int, []catalog.LikeRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.likesCalls, append([]catalog.LikeRequest(nil), f.registered...)
}

type memPrefs struct {
	mu    sync.Mutex
	p     prefs.Prefs
	saves int
}

func (m *memPrefs) Load() prefs.Prefs {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.p
}

func (m *memPrefs) Save(p prefs.Prefs) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p = p
	m.saves++
	return nil
}

func newTestEngine(t *testing.T, f catalog.Fetcher, opts Options) *Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	opts.Fetcher = f
	opts.Logger = zerolog.Nop()
	e := New(ctx, opts)
	t.Cleanup(func() {
		cancel()
		e.Wait()
	})
	return e
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		role catalog.Role
		raw  string
		want string
	}{
		{catalog.RoleFaculty, "12", "faculty-12"},
		{catalog.RoleFaculty, "faculty-12", "faculty-12"},
		{catalog.RoleStudent, "7", "student-7"},
		{catalog.RoleStudent, "x-7", "x-7"},
		{catalog.RoleShared, "42", "42"},
		{catalog.RoleRequest, "r1", "r1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeID(tt.role, tt.raw), "%s/%s", tt.role, tt.raw)
	}
}

func TestLoadAll_EndToEndToggleScenario(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := &fakeFetcher{
		static: map[catalog.Role][]catalog.Entry{
			catalog.RoleFaculty: {{ID: "1", TitleJP: "A"}},
		},
		community: catalog.Community{
			Shared:  []catalog.Entry{},
			Request: []catalog.Entry{},
			Likes:   catalog.Likes{"faculty-1": 3},
		},
	}
	p := &memPrefs{p: prefs.Defaults()}
	e := newTestEngine(t, f, Options{Prefs: p})

	e.LoadAll(context.Background())
	select {
	case <-e.Store().Ready():
	default:
		t.Fatal("Ready not closed after LoadAll")
	}

	snap := e.Store().Snapshot()
	require.Len(t, snap.Working, 1)
	entry := snap.Working[0]
	assert.Equal(t, catalog.Text("faculty-1"), entry.ID)
	assert.Equal(t, 3, entry.Likes)

	liked, count := e.ToggleLike(entry)
	assert.True(t, liked)
	assert.Equal(t, 4, count)
	assert.True(t, e.IsLiked("faculty-1"))
	assert.Equal(t, 4, e.Store().Snapshot().Working[0].Likes)
	assert.Equal(t, []string{"faculty-1"}, p.Load().Likes)

	liked, count = e.ToggleLike(entry)
	assert.False(t, liked)
	assert.Equal(t, 3, count)
	assert.False(t, e.IsLiked("faculty-1"))
	assert.Empty(t, e.Store().Snapshot().UserLikes)
	assert.Empty(t, p.Load().Likes)

	e.Wait()
	_, registered := f.calls()
	require.Len(t, registered, 1, "unlike must not call the endpoint")
	assert.Equal(t, catalog.LikeRequest{ID: "faculty-1", Title: "A", Source: catalog.RoleFaculty}, registered[0])
}

func TestLoadAll_PartialSourceResilience(t *testing.T) {
	m := metrics.New()
	f := &fakeFetcher{
		static: map[catalog.Role][]catalog.Entry{
			catalog.RoleFaculty: {{ID: "1"}, {ID: "2"}},
			catalog.RoleStudent: {{ID: "student-9"}},
		},
		communityErr: errors.New("gas fetch failed"),
	}
	e := newTestEngine(t, f, Options{Metrics: m})

	e.LoadAll(context.Background())

	s := e.Store()
	assert.Len(t, s.Entries(catalog.RoleFaculty), 2)
	assert.Equal(t, catalog.Text("student-9"), s.Entries(catalog.RoleStudent)[0].ID)
	assert.Empty(t, s.Entries(catalog.RoleShared))
	assert.Empty(t, s.Entries(catalog.RoleRequest))
	assert.Empty(t, s.Likes())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues("community", metrics.OutcomeDegraded)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Entries.WithLabelValues("faculty")))
}

func TestLoadAll_StaticFailureKeepsOthers(t *testing.T) {
	f := &fakeFetcher{
		staticErr: map[catalog.Role]error{catalog.RoleFaculty: errors.New("404")},
		static: map[catalog.Role][]catalog.Entry{
			catalog.RoleStudent: {{ID: "3"}},
		},
		community: catalog.Community{
			Shared: []catalog.Entry{{ID: "s1", TitleJP: "共有"}},
			Likes:  catalog.Likes{"s1": 2},
		},
	}
	e := newTestEngine(t, f, Options{})
	e.LoadAll(context.Background())

	s := e.Store()
	assert.Empty(t, s.Entries(catalog.RoleFaculty))
	assert.Equal(t, catalog.Text("student-3"), s.Entries(catalog.RoleStudent)[0].ID)
	shared := s.Entries(catalog.RoleShared)
	require.Len(t, shared, 1)
	assert.Equal(t, catalog.RoleShared, shared[0].Role)
	assert.Equal(t, 2, shared[0].Likes)
}

func TestLoadAll_IsIdempotent(t *testing.T) {
	f := &fakeFetcher{
		static: map[catalog.Role][]catalog.Entry{
			catalog.RoleFaculty: {{ID: "1"}, {ID: "faculty-2"}},
		},
		community: catalog.Community{Likes: catalog.Likes{"faculty-1": 1}},
	}
	e := newTestEngine(t, f, Options{})

	e.LoadAll(context.Background())
	first := e.Store().Snapshot()
	e.LoadAll(context.Background())
	second := e.Store().Snapshot()

	assert.Equal(t, first.Working, second.Working)
	assert.Equal(t, first.Likes, second.Likes)
}

func TestLoadAll_UnconfiguredSkipsCommunity(t *testing.T) {
	m := metrics.New()
	f := &fakeFetcher{unconfigured: true}
	e := newTestEngine(t, f, Options{Metrics: m})

	e.LoadAll(context.Background())
	e.RefreshLikes(context.Background())

	likesCalls, _ := f.calls()
	assert.Zero(t, likesCalls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues("community", metrics.OutcomeSkipped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LikesRefreshes.WithLabelValues(metrics.OutcomeSkipped)))

	entry := catalog.Entry{ID: "shared-1"}
	e.ToggleLike(entry)
	e.Wait()
	_, registered := f.calls()
	assert.Empty(t, registered)
}

func TestRefreshLikes_ReplaceAndFailure(t *testing.T) {
	f := &fakeFetcher{
		static:    map[catalog.Role][]catalog.Entry{catalog.RoleFaculty: {{ID: "1"}}},
		community: catalog.Community{Likes: catalog.Likes{"faculty-1": 3}},
		likes:     catalog.Likes{"faculty-1": 5},
	}
	e := newTestEngine(t, f, Options{})
	e.LoadAll(context.Background())

	e.RefreshLikes(context.Background())
	assert.Equal(t, 5, e.Store().Snapshot().Working[0].Likes)

	f.mu.Lock()
	f.likesErr = errors.New("timeout")
	f.mu.Unlock()
	e.RefreshLikes(context.Background())
	e.RefreshLikes(context.Background())

	snap := e.Store().Snapshot()
	assert.Equal(t, 5, snap.Working[0].Likes, "failed refresh must keep the previous map")
	assert.True(t, snap.IsOffline())
	require.Error(t, snap.LastError)
}

func TestRefreshLikes_ReplaceOverwritesOptimisticLike(t *testing.T) {
	f := &fakeFetcher{
		static:    map[catalog.Role][]catalog.Entry{catalog.RoleFaculty: {{ID: "1", TitleJP: "A"}}},
		community: catalog.Community{Likes: catalog.Likes{"faculty-1": 3}},
		likes:     catalog.Likes{"faculty-1": 3},
	}
	e := newTestEngine(t, f, Options{MergePolicy: config.MergeReplace})
	e.LoadAll(context.Background())

	e.ToggleLike(e.Store().Snapshot().Working[0])
	e.RefreshLikes(context.Background())
	assert.Equal(t, 3, e.Store().Likes()["faculty-1"])
	assert.True(t, e.IsLiked("faculty-1"))
}

func TestRefreshLikes_KeepPendingHoldsLocalCount(t *testing.T) {
	f := &fakeFetcher{
		static:    map[catalog.Role][]catalog.Entry{catalog.RoleFaculty: {{ID: "1"}}},
		community: catalog.Community{Likes: catalog.Likes{"faculty-1": 3}},
		likes:     catalog.Likes{"faculty-1": 3, "other": 1},
	}
	e := newTestEngine(t, f, Options{MergePolicy: config.MergeKeepPending})
	e.LoadAll(context.Background())

	e.ToggleLike(e.Store().Snapshot().Working[0])
	e.RefreshLikes(context.Background())
	assert.Equal(t, catalog.Likes{"faculty-1": 4, "other": 1}, e.Store().Likes())

	// server catches up and then moves past the local value
	f.mu.Lock()
	f.likes = catalog.Likes{"faculty-1": 6}
	f.mu.Unlock()
	e.RefreshLikes(context.Background())
	assert.Equal(t, 6, e.Store().Likes()["faculty-1"])

	f.mu.Lock()
	f.likes = catalog.Likes{"faculty-1": 2}
	f.mu.Unlock()
	e.RefreshLikes(context.Background())
	assert.Equal(t, 2, e.Store().Likes()["faculty-1"], "id should have left the pending set")
}

func TestToggleLike_ZeroFloorAndTitleFallback(t *testing.T) {
	f := &fakeFetcher{}
	e := newTestEngine(t, f, Options{})
	e.Store().SetUserLikes([]string{"request-1"})
	e.SwitchRole(catalog.RoleRequest)

	liked, count := e.ToggleLike(catalog.Entry{ID: "request-1"})
	assert.False(t, liked)
	assert.Equal(t, 0, count)

	liked, count = e.ToggleLike(catalog.Entry{ID: "request-1", Request: "please add"})
	assert.True(t, liked)
	assert.Equal(t, 1, count)
	e.Wait()
	e.ToggleLike(catalog.Entry{ID: "request-2"})

	e.Wait()
	_, registered := f.calls()
	require.Len(t, registered, 2)
	assert.Equal(t, "please add", registered[0].Title)
	assert.Equal(t, catalog.RoleRequest, registered[0].Source)
	assert.Equal(t, "Unknown", registered[1].Title)
}

func TestToggleLike_RegistrationFailureIsSwallowed(t *testing.T) {
	m := metrics.New()
	f := &fakeFetcher{registerErr: errors.New("500")}
	e := newTestEngine(t, f, Options{Metrics: m})

	liked, count := e.ToggleLike(catalog.Entry{ID: "x"})
	assert.True(t, liked)
	assert.Equal(t, 1, count)
	e.Wait()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LikeRegistrations.WithLabelValues(metrics.OutcomeError)))
	assert.Equal(t, 1, e.Store().Likes()["x"])
}

func TestRestoreAndViewToggles(t *testing.T) {
	p := &memPrefs{p: prefs.Prefs{Theme: "dark", Lang: "en", Role: "shared", Likes: []string{"a", "b"}}}
	e := newTestEngine(t, &fakeFetcher{}, Options{Prefs: p})

	e.Restore()
	snap := e.Store().Snapshot()
	assert.Equal(t, catalog.RoleShared, snap.View.Role)
	assert.Equal(t, "en", snap.View.Lang)
	assert.Equal(t, "dark", snap.View.Theme)
	assert.Equal(t, []string{"a", "b"}, snap.UserLikes)

	e.ToggleLang()
	e.ToggleTheme()
	e.Store().SetQuery("essay")
	e.SwitchRole(catalog.RoleStudent)

	saved := p.Load()
	assert.Equal(t, prefs.Prefs{Theme: "light", Lang: "jp", Role: "student", Likes: []string{"a", "b"}}, saved)
	assert.Empty(t, e.Store().Snapshot().View.Query)
}

func TestRestore_UnknownRoleFallsBack(t *testing.T) {
	p := &memPrefs{p: prefs.Prefs{Theme: "light", Lang: "jp", Role: "admin"}}
	e := newTestEngine(t, &fakeFetcher{}, Options{Prefs: p})
	e.Restore()
	assert.Equal(t, catalog.RoleFaculty, e.Store().Snapshot().View.Role)
}

func TestStartPolling_RefreshesAndStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := &fakeFetcher{likes: catalog.Likes{"a": 1}}
	e := newTestEngine(t, f, Options{})

	stop := e.StartPolling(context.Background(), 5*time.Millisecond)
	require.Eventually(t, func() bool {
		n, _ := f.calls()
		return n >= 2
	}, 2*time.Second, 5*time.Millisecond)
	stop()
	stop()

	n, _ := f.calls()
	time.Sleep(20 * time.Millisecond)
	after, _ := f.calls()
	assert.Equal(t, n, after, "polling continued after stop")
	assert.Equal(t, 1, e.Store().Likes()["a"])
}

func TestStartPolling_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	e := newTestEngine(t, &fakeFetcher{}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	stop := e.StartPolling(ctx, time.Hour)
	cancel()
	stop()
}

func TestNew_DefaultsStore(t *testing.T) {
	e := New(context.Background(), Options{Logger: zerolog.Nop()})
	require.NotNil(t, e.Store())
	e.LoadAll(context.Background())
	assert.Equal(t, state.DefaultView().Role, e.Store().Snapshot().View.Role)
}

func TestToggleLike_PendingVisibleToRefreshTriggeredByChange(t *testing.T) {
	f := &fakeFetcher{
		static:    map[catalog.Role][]catalog.Entry{catalog.RoleFaculty: {{ID: "1"}}},
		community: catalog.Community{Likes: catalog.Likes{"faculty-1": 3}},
		likes:     catalog.Likes{"faculty-1": 3},
	}
	e := newTestEngine(t, f, Options{MergePolicy: config.MergeKeepPending})
	e.LoadAll(context.Background())

	changes, unsubscribe := e.Store().Subscribe()
	defer unsubscribe()

	// A refresh that starts as soon as the toggle is published must already
	// see the id as pending.
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-changes
		e.RefreshLikes(context.Background())
	}()

	_, count := e.ToggleLike(e.Store().Snapshot().Working[0])
	require.Equal(t, 4, count)
	<-done

	assert.Equal(t, 4, e.Store().Likes()["faculty-1"])
	assert.True(t, e.IsLiked("faculty-1"))
}
