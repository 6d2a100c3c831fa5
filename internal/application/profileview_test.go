package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efindlay/devfinder/internal/application"
	"github.com/efindlay/devfinder/internal/domain/model"
	"github.com/efindlay/devfinder/internal/domain/port/driven"
)

// stubSource is a scriptable ProfileSource. A login with a gate channel
// blocks in Fetch until the gate closes or the context is canceled, which
// lets tests control settle order.
type stubSource struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
	errs     map[string]error
	gates    map[string]chan struct{}
	calls    []string
}

func (s *stubSource) Fetch(ctx context.Context, login string) (*model.Profile, error) {
	s.mu.Lock()
	s.calls = append(s.calls, login)
	gate := s.gates[login]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs[login]; err != nil {
		return nil, err
	}
	if p, ok := s.profiles[login]; ok {
		return p, nil
	}
	return nil, driven.ErrProfileNotFound
}

func (s *stubSource) loginCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func octocatProfile() *model.Profile {
	return &model.Profile{
		Login:      "octocat",
		Name:       "The Octocat",
		Bio:        "GitHub mascot",
		AvatarURL:  "https://avatars.githubusercontent.com/u/583231",
		ProfileURL: "https://github.com/octocat",
		Followers:  8000,
		Following:  9,
		Repositories: []model.Repository{
			{ID: "MDEwOlJlcG9zaXRvcnkxMjk2MjY5", Name: "Hello-World", URL: "https://github.com/octocat/Hello-World"},
			{ID: "MDEwOlJlcG9zaXRvcnkxMzAwMTky", Name: "Spoon-Knife", URL: "https://github.com/octocat/Spoon-Knife"},
		},
	}
}

func settled(view *application.ProfileView) func() bool {
	return func() bool {
		s := view.Snapshot()
		return !s.Loading && !s.FetchPending
	}
}

func TestProfileView_MountFetchesAndRendersProfile(t *testing.T) {
	source := &stubSource{profiles: map[string]*model.Profile{"octocat": octocatProfile()}}
	views := application.NewViewRegistry(source, 40*time.Millisecond, time.Minute)

	view, err := views.Mount("octocat")
	require.NoError(t, err)

	state := view.Snapshot()
	assert.Equal(t, "octocat", state.Username)
	assert.True(t, state.Loading)

	require.Eventually(t, settled(view), 2*time.Second, 5*time.Millisecond)

	state = view.Snapshot()
	require.NotNil(t, state.Profile)
	assert.Equal(t, "octocat", state.Profile.Login)
	assert.Equal(t, "The Octocat", state.Profile.Name)
	assert.Equal(t, "GitHub mascot", state.Profile.Bio)
	assert.Equal(t, 8000, state.Profile.Followers)
	assert.Len(t, state.Profile.Repositories, 2)
	assert.Equal(t, "Hello-World", state.Profile.Repositories[0].Name)
	assert.Equal(t, "Spoon-Knife", state.Profile.Repositories[1].Name)
	assert.Equal(t, []string{"octocat"}, source.loginCalls())
}

func TestProfileView_FailedFetchLeavesProfileAbsent(t *testing.T) {
	tests := []struct {
		name   string
		source *stubSource
	}{
		{
			name:   "unknown user",
			source: &stubSource{},
		},
		{
			name:   "source error",
			source: &stubSource{errs: map[string]error{"ghost": errors.New("api unreachable")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views := application.NewViewRegistry(tt.source, 20*time.Millisecond, time.Minute)

			view, err := views.Mount("ghost")
			require.NoError(t, err)

			require.Eventually(t, settled(view), 2*time.Second, 5*time.Millisecond)

			state := view.Snapshot()
			assert.Nil(t, state.Profile)
			assert.Equal(t, "ghost", state.Username)
		})
	}
}

func TestProfileView_LoadingOutlastsFastFetch(t *testing.T) {
	source := &stubSource{profiles: map[string]*model.Profile{"octocat": octocatProfile()}}
	views := application.NewViewRegistry(source, 150*time.Millisecond, time.Minute)

	start := time.Now()
	view, err := views.Mount("octocat")
	require.NoError(t, err)

	// The fetch settles almost instantly; the loading phase must keep
	// running on its own clock.
	require.Eventually(t, func() bool {
		return !view.Snapshot().FetchPending
	}, 2*time.Second, time.Millisecond)

	state := view.Snapshot()
	assert.True(t, state.Loading)
	require.NotNil(t, state.Profile)

	require.Eventually(t, func() bool {
		return !view.Snapshot().Loading
	}, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestProfileView_SlowFetchSettlesAfterLoading(t *testing.T) {
	gate := make(chan struct{})
	source := &stubSource{
		profiles: map[string]*model.Profile{"octocat": octocatProfile()},
		gates:    map[string]chan struct{}{"octocat": gate},
	}
	views := application.NewViewRegistry(source, 20*time.Millisecond, time.Minute)

	view, err := views.Mount("octocat")
	require.NoError(t, err)

	// Loading ends while the fetch is still in flight.
	require.Eventually(t, func() bool {
		return !view.Snapshot().Loading
	}, 2*time.Second, 5*time.Millisecond)

	state := view.Snapshot()
	assert.Nil(t, state.Profile)
	assert.True(t, state.FetchPending)

	close(gate)

	require.Eventually(t, func() bool {
		return view.Snapshot().Profile != nil
	}, 2*time.Second, 5*time.Millisecond)
	assert.False(t, view.Snapshot().FetchPending)
}

func TestProfileView_StaleFetchDiscarded(t *testing.T) {
	aliceGate := make(chan struct{})
	bobGate := make(chan struct{})
	source := &stubSource{
		profiles: map[string]*model.Profile{
			"alice": {Login: "alice", Name: "Alice"},
			"bob":   {Login: "bob", Name: "Bob"},
		},
		gates: map[string]chan struct{}{"alice": aliceGate, "bob": bobGate},
	}
	views := application.NewViewRegistry(source, 10*time.Millisecond, time.Minute)

	view, err := views.Mount("alice")
	require.NoError(t, err)

	// Make sure alice's fetch is in flight before switching away from her.
	require.Eventually(t, func() bool {
		return len(source.loginCalls()) == 1
	}, 2*time.Second, time.Millisecond)

	view.SetUsername("bob")

	// Bob settles first.
	close(bobGate)
	require.Eventually(t, settled(view), 2*time.Second, 5*time.Millisecond)
	require.NotNil(t, view.Snapshot().Profile)
	assert.Equal(t, "bob", view.Snapshot().Profile.Login)

	// Alice settles late; her result must be dropped.
	close(aliceGate)
	time.Sleep(50 * time.Millisecond)

	state := view.Snapshot()
	require.NotNil(t, state.Profile)
	assert.Equal(t, "bob", state.Profile.Login)
	assert.Equal(t, "bob", state.Username)
	assert.Equal(t, []string{"alice", "bob"}, source.loginCalls())
}

func TestProfileView_SetUsernameClearsPreviousProfile(t *testing.T) {
	hubotGate := make(chan struct{})
	defer close(hubotGate)
	source := &stubSource{
		profiles: map[string]*model.Profile{
			"octocat": octocatProfile(),
			"hubot":   {Login: "hubot"},
		},
		gates: map[string]chan struct{}{"hubot": hubotGate},
	}
	views := application.NewViewRegistry(source, 10*time.Millisecond, time.Minute)

	view, err := views.Mount("octocat")
	require.NoError(t, err)
	require.Eventually(t, settled(view), 2*time.Second, 5*time.Millisecond)

	view.SetUsername("hubot")

	state := view.Snapshot()
	assert.Equal(t, "hubot", state.Username)
	assert.Nil(t, state.Profile)
	assert.True(t, state.Loading)
	assert.True(t, state.FetchPending)
}

func TestProfileView_SetUsernameSameIsNoOp(t *testing.T) {
	source := &stubSource{profiles: map[string]*model.Profile{"octocat": octocatProfile()}}
	views := application.NewViewRegistry(source, 10*time.Millisecond, time.Minute)

	view, err := views.Mount("octocat")
	require.NoError(t, err)
	require.Eventually(t, settled(view), 2*time.Second, 5*time.Millisecond)

	view.SetUsername("octocat")
	view.SetUsername("")

	state := view.Snapshot()
	assert.False(t, state.Loading)
	assert.NotNil(t, state.Profile)
	assert.Equal(t, []string{"octocat"}, source.loginCalls())
}

func TestProfileView_FilterSurvivesUsernameSwitch(t *testing.T) {
	source := &stubSource{profiles: map[string]*model.Profile{
		"octocat": octocatProfile(),
		"hubot":   {Login: "hubot"},
	}}
	views := application.NewViewRegistry(source, 10*time.Millisecond, time.Minute)

	view, err := views.Mount("octocat")
	require.NoError(t, err)

	view.SetFilter("Hello")
	assert.Equal(t, "Hello", view.Snapshot().FilterText)

	view.SetUsername("hubot")
	state := view.Snapshot()
	assert.Equal(t, "hubot", state.Username)
	assert.Equal(t, "Hello", state.FilterText)
}

func TestProfileView_UnmountFreezesState(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	source := &stubSource{
		profiles: map[string]*model.Profile{"octocat": octocatProfile()},
		gates:    map[string]chan struct{}{"octocat": gate},
	}
	views := application.NewViewRegistry(source, 20*time.Millisecond, time.Minute)

	view, err := views.Mount("octocat")
	require.NoError(t, err)

	view.Unmount()

	// Unmount cancels the fetch context and stops the loading timer, so
	// the state stays exactly as it was. Waiting past the loading delay
	// proves the timer no longer fires.
	time.Sleep(60 * time.Millisecond)

	state := view.Snapshot()
	assert.True(t, state.Loading)
	assert.True(t, state.FetchPending)
	assert.Nil(t, state.Profile)

	view.SetFilter("ignored")
	view.SetUsername("hubot")
	state = view.Snapshot()
	assert.Equal(t, "", state.FilterText)
	assert.Equal(t, "octocat", state.Username)
	assert.Equal(t, []string{"octocat"}, source.loginCalls())
}
