// Package web implements the HTML GUI driving adapter. Full pages render
// on navigation; htmx fragments drive the loading poll and the repository
// filter.
package web

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/efindlay/devfinder/internal/application"
)

// Handler is the web GUI driving adapter that serves profile pages and
// their fragments.
type Handler struct {
	views       *application.ViewRegistry
	renderer    Renderer
	defaultUser string
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(views *application.ViewRegistry, renderer Renderer, defaultUser string, logger *slog.Logger) *Handler {
	return &Handler{
		views:       views,
		renderer:    renderer,
		defaultUser: defaultUser,
		logger:      logger,
	}
}

// Index redirects the bare root to the configured default profile.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+h.defaultUser, http.StatusFound)
}

// ProfilePage mounts a view for the username in the path and renders the
// full page in its initial loading state. The fragments under /views/
// carry it forward from there.
func (h *Handler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	view, err := h.views.Mount(username)
	if err != nil {
		http.Error(w, "username required", http.StatusBadRequest)
		return
	}

	page := toPage(view.Token(), view.Snapshot())
	h.writeHTML(w, func(buf *bytes.Buffer) error {
		return h.renderer.RenderPage(buf, page)
	})
}

// Content renders the swap target for a view: the spinner, the not-found
// placeholder, or the profile. A username query parameter switches the
// view to another user first (the page's search form).
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	view, ok := h.views.Get(r.PathValue("view"))
	if !ok {
		refreshExpiredView(w)
		return
	}

	if username := r.URL.Query().Get("username"); username != "" {
		view.SetUsername(username)
	}

	content := toContent(view.Token(), view.Snapshot())
	h.writeHTML(w, func(buf *bytes.Buffer) error {
		return h.renderer.RenderContent(buf, content)
	})
}

// RepoList records the filter text on the view and renders the repository
// list fragment. The filter input fires this on every keystroke.
func (h *Handler) RepoList(w http.ResponseWriter, r *http.Request) {
	view, ok := h.views.Get(r.PathValue("view"))
	if !ok {
		refreshExpiredView(w)
		return
	}

	view.SetFilter(r.URL.Query().Get("filter"))

	list := toRepoList(view.Token(), view.Snapshot())
	h.writeHTML(w, func(buf *bytes.Buffer) error {
		return h.renderer.RenderRepoList(buf, list)
	})
}

// writeHTML renders through fn into a buffer before writing, so a template
// failure turns into a clean 500 instead of a torn page.
func (h *Handler) writeHTML(w http.ResponseWriter, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// refreshExpiredView tells htmx to reload the whole page, which remounts a
// fresh view in place of one the registry has evicted.
func refreshExpiredView(w http.ResponseWriter) {
	w.Header().Set("HX-Refresh", "true")
	w.WriteHeader(http.StatusOK)
}
