package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/efindlay/devfinder/internal/domain/port/driven"
)

// ViewRegistry owns the mounted profile views. Each page load mounts one
// view under a fresh opaque token, fragment requests look the view up and
// touch its last-access time, and a janitor loop unmounts views that have
// been idle longer than the TTL. Eviction is the server-side equivalent of
// the browser leaving the page.
type ViewRegistry struct {
	source driven.ProfileSource
	delay  time.Duration
	ttl    time.Duration

	mu    sync.Mutex
	views map[string]*viewEntry
}

type viewEntry struct {
	view     *ProfileView
	lastSeen time.Time
}

// NewViewRegistry creates a registry that mounts views against source with
// the given loading-phase duration and idle TTL.
func NewViewRegistry(source driven.ProfileSource, loadingDelay, idleTTL time.Duration) *ViewRegistry {
	return &ViewRegistry{
		source: source,
		delay:  loadingDelay,
		ttl:    idleTTL,
		views:  make(map[string]*viewEntry),
	}
}

// Mount creates a profile view for username and returns it. The view
// enters its loading phase and issues its fetch immediately.
func (r *ViewRegistry) Mount(username string) (*ProfileView, error) {
	if username == "" {
		return nil, fmt.Errorf("mount: username must not be empty")
	}

	view := newProfileView(uuid.NewString(), r.source, r.delay, username)

	r.mu.Lock()
	r.views[view.Token()] = &viewEntry{view: view, lastSeen: time.Now()}
	r.mu.Unlock()

	slog.Debug("profile view mounted", "view", view.Token(), "username", username)
	return view, nil
}

// Get returns the mounted view for token and marks it recently used.
func (r *ViewRegistry) Get(token string) (*ProfileView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.views[token]
	if !ok {
		return nil, false
	}
	entry.lastSeen = time.Now()
	return entry.view, true
}

// Len returns the number of mounted views.
func (r *ViewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Start runs the eviction janitor until ctx is canceled, then unmounts
// every remaining view. It blocks; run it in its own goroutine.
func (r *ViewRegistry) Start(ctx context.Context) {
	interval := r.ttl / 4
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("view registry started", "ttl", r.ttl)

	for {
		select {
		case <-ctx.Done():
			r.unmountAll()
			slog.Info("view registry stopped")
			return
		case <-ticker.C:
			r.evictIdle(time.Now())
		}
	}
}

// evictIdle unmounts and forgets views idle past the TTL.
func (r *ViewRegistry) evictIdle(now time.Time) {
	r.mu.Lock()
	var expired []*ProfileView
	for token, entry := range r.views {
		if now.Sub(entry.lastSeen) >= r.ttl {
			expired = append(expired, entry.view)
			delete(r.views, token)
		}
	}
	r.mu.Unlock()

	for _, view := range expired {
		view.Unmount()
	}
	if len(expired) > 0 {
		slog.Debug("evicted idle profile views", "count", len(expired))
	}
}

func (r *ViewRegistry) unmountAll() {
	r.mu.Lock()
	views := make([]*ProfileView, 0, len(r.views))
	for token, entry := range r.views {
		views = append(views, entry.view)
		delete(r.views, token)
	}
	r.mu.Unlock()

	for _, view := range views {
		view.Unmount()
	}
}
