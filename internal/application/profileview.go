package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/efindlay/devfinder/internal/domain/model"
	"github.com/efindlay/devfinder/internal/domain/port/driven"
)

// ViewState is the renderable state of one mounted profile view.
// Profile and Loading are independent signals: the loading phase ends on
// its own timer whether or not the fetch has settled, so renderers must
// tolerate either order. Render priority is Loading first, then Profile,
// then the not-found placeholder.
type ViewState struct {
	// Username is the login the view currently shows or is fetching.
	Username string

	// Profile is the settled fetch result, nil until a fetch succeeds and
	// nil again after every fetch failure.
	Profile *model.Profile

	// FilterText narrows the rendered repository list. It survives a
	// username switch.
	FilterText string

	// Loading reports whether the fixed-length loading phase is running.
	Loading bool

	// FetchPending reports whether the current fetch has not settled yet.
	FetchPending bool
}

// ProfileView holds the state behind one mounted profile page. A mutex
// serializes every transition, so updates from the loading timer and the
// fetch goroutine apply in the order they settle.
//
// Each fetch cycle carries a sequence number. A settle whose sequence is
// stale (the username changed meanwhile) is discarded, so the view never
// shows data for a username it no longer targets. Switching usernames does
// not cancel the in-flight fetch; only Unmount cancels the view's lifetime
// context.
type ProfileView struct {
	token  string
	source driven.ProfileSource
	delay  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     ViewState
	seq       uint64
	timer     *time.Timer
	unmounted bool
}

func newProfileView(token string, source driven.ProfileSource, delay time.Duration, username string) *ProfileView {
	ctx, cancel := context.WithCancel(context.Background())
	v := &ProfileView{
		token:  token,
		source: source,
		delay:  delay,
		ctx:    ctx,
		cancel: cancel,
	}

	v.mu.Lock()
	v.beginFetchLocked(username)
	v.mu.Unlock()

	return v
}

// Token returns the opaque identifier the web layer uses to address this view.
func (v *ProfileView) Token() string { return v.token }

// Snapshot returns a copy of the current view state.
func (v *ProfileView) Snapshot() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// SetFilter records the repository filter text for subsequent renders.
func (v *ProfileView) SetFilter(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmounted {
		return
	}
	v.state.FilterText = text
}

// SetUsername switches the view to another user. The old profile is
// cleared immediately so it can never render under the new username, the
// loading phase restarts, and exactly one new fetch is issued. Setting the
// current username again is a no-op.
func (v *ProfileView) SetUsername(username string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmounted || username == "" || username == v.state.Username {
		return
	}
	v.beginFetchLocked(username)
}

// Unmount tears the view down. The loading timer is stopped and the
// lifetime context canceled, so neither the timer nor a late fetch settle
// can touch state afterwards.
func (v *ProfileView) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmounted {
		return
	}
	v.unmounted = true
	if v.timer != nil {
		v.timer.Stop()
	}
	v.cancel()
}

// beginFetchLocked starts a fetch cycle for username: bumps the sequence,
// resets the renderable state, arms the loading timer, and launches the
// fetch goroutine. Callers must hold v.mu.
func (v *ProfileView) beginFetchLocked(username string) {
	v.seq++
	seq := v.seq

	v.state = ViewState{
		Username:     username,
		FilterText:   v.state.FilterText,
		Loading:      true,
		FetchPending: true,
	}

	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(v.delay, func() { v.endLoading(seq) })

	go v.fetch(seq, username)
}

// endLoading finishes the loading phase armed by cycle seq. Fires from the
// loading timer; ignored once the view is unmounted or a newer cycle has
// restarted the phase.
func (v *ProfileView) endLoading(seq uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmounted || seq != v.seq {
		return
	}
	v.state.Loading = false
}

// fetch issues the single profile request for cycle seq and applies the
// outcome. Failures degrade to an absent profile with one log entry; they
// never propagate further.
func (v *ProfileView) fetch(seq uint64, username string) {
	profile, err := v.source.Fetch(v.ctx, username)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.unmounted || seq != v.seq {
		slog.Debug("discarding stale profile fetch", "view", v.token, "username", username)
		return
	}

	v.state.FetchPending = false

	switch {
	case errors.Is(err, driven.ErrProfileNotFound):
		slog.Warn("profile not found", "view", v.token, "username", username)
		v.state.Profile = nil
	case err != nil:
		slog.Warn("profile fetch failed", "view", v.token, "username", username, "error", err)
		v.state.Profile = nil
	default:
		v.state.Profile = profile
	}
}
