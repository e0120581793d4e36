package engine

import (
	"errors"

	"github.com/five82/promptdeck/internal/catalog"
	"github.com/five82/promptdeck/internal/metrics"
	"github.com/five82/promptdeck/internal/prefs"
	"github.com/five82/promptdeck/internal/state"
)

// ToggleLike flips the user's like on entry and returns the new membership
// and count. A new like is reported upstream by a detached task; an unlike
// only changes local state. Preferences are saved before returning.
func (e *Engine) ToggleLike(entry catalog.Entry) (liked bool, count int) {
	id := string(entry.ID)
	var source catalog.Role

	e.store.Update(func(tx *state.Tx) {
		source = tx.View().Role
		if tx.Liked(id) {
			tx.RemoveUserLike(id)
			tx.SetLike(id, tx.Like(id)-1)
			liked = false
		} else {
			tx.AddUserLike(id)
			tx.SetLike(id, tx.Like(id)+1)
			liked = true
		}
		count = tx.Like(id)
		if liked {
			e.markPending(id, count)
		} else {
			e.clearPending(id)
		}
	})

	if liked && e.fetcher != nil && e.fetcher.Configured() {
		req := catalog.LikeRequest{ID: id, Title: likeTitle(entry), Source: source}
		e.tasks.Add(1)
		go e.registerLike(req)
	}

	e.persist()
	e.metrics.SetGlobalLikes(e.store.Likes().Total())
	return liked, count
}

// IsLiked reports whether id is in the user's like set.
func (e *Engine) IsLiked(id string) bool {
	return e.store.Liked(id)
}

func likeTitle(entry catalog.Entry) string {
	switch {
	case entry.TitleJP != "":
		return string(entry.TitleJP)
	case entry.Request != "":
		return string(entry.Request)
	default:
		return "Unknown"
	}
}

// registerLike runs detached. Its error is dropped on purpose: a failed
// registration is not retried and never reaches the user.
func (e *Engine) registerLike(req catalog.LikeRequest) {
	defer e.tasks.Done()

	ctx := e.session
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			e.metrics.LikeRegistration(metrics.OutcomeLimited)
			e.log.Debug().Err(err).Str("id", req.ID).Msg("like registration dropped")
			return
		}
	}
	err := e.fetcher.RegisterLike(ctx, req)
	switch {
	case err == nil:
		e.metrics.LikeRegistration(metrics.OutcomeOK)
	case errors.Is(err, catalog.ErrUnconfigured):
		e.metrics.LikeRegistration(metrics.OutcomeSkipped)
	default:
		e.metrics.LikeRegistration(metrics.OutcomeError)
		e.log.Debug().Err(err).Str("id", req.ID).Msg("like registration failed")
	}
}

// Restore applies stored preferences to the view and like set.
func (e *Engine) Restore() {
	if e.prefs == nil {
		return
	}
	p := e.prefs.Load()
	role, ok := catalog.ParseRole(p.Role)
	if !ok {
		role = catalog.RoleFaculty
	}
	e.store.Update(func(tx *state.Tx) {
		v := tx.View()
		v.Role = role
		v.Lang = p.Lang
		v.Theme = p.Theme
	})
	e.store.SetUserLikes(p.Likes)
	e.log.Debug().Str("role", string(role)).Str("lang", p.Lang).Int("likes", len(p.Likes)).Msg("preferences restored")
}

// SwitchRole makes role active and clears the filters.
func (e *Engine) SwitchRole(role catalog.Role) {
	e.store.SetRole(role)
	e.persist()
}

// ToggleLang flips between jp and en.
func (e *Engine) ToggleLang() {
	e.store.Update(func(tx *state.Tx) {
		v := tx.View()
		if v.Lang == "en" {
			v.Lang = "jp"
		} else {
			v.Lang = "en"
		}
	})
	e.persist()
}

// ToggleTheme flips between light and dark.
func (e *Engine) ToggleTheme() {
	e.store.Update(func(tx *state.Tx) {
		v := tx.View()
		if v.Theme == "dark" {
			v.Theme = "light"
		} else {
			v.Theme = "dark"
		}
	})
	e.persist()
}

func (e *Engine) persist() {
	if e.prefs == nil {
		return
	}
	snap := e.store.Snapshot()
	p := prefs.Prefs{
		Theme: snap.View.Theme,
		Lang:  snap.View.Lang,
		Role:  string(snap.View.Role),
		Likes: snap.UserLikes,
	}
	if err := e.prefs.Save(p); err != nil {
		e.log.Warn().Err(err).Msg("save preferences failed")
	}
}
