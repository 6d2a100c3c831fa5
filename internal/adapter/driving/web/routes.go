package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Profile pages live at /{username}; the fragments a mounted page polls
// live under /views/{view}/. Static assets are served from the embedded
// filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))
	mux.Handle("GET /favicon.ico", http.RedirectHandler("/static/favicon.svg", http.StatusMovedPermanently))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /{username}", h.ProfilePage)

	// Fragment routes polled by a mounted page.
	mux.HandleFunc("GET /views/{view}/content", h.Content)
	mux.HandleFunc("GET /views/{view}/repos", h.RepoList)
}
