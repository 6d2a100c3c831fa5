package httphandler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/efindlay/devfinder/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	source driven.ProfileSource
	logger *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(source driven.ProfileSource, logger *slog.Logger) *Handler {
	return &Handler{
		source: source,
		logger: logger,
	}
}

// RegisterAPIRoutes registers the JSON API routes on the given mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/users/{username}", h.GetUser)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// GetUser fetches a profile by login and returns it as JSON.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if !isValidLogin(username) {
		writeError(w, http.StatusBadRequest, "invalid username")
		return
	}

	profile, err := h.source.Fetch(r.Context(), username)
	if err != nil {
		if errors.Is(err, driven.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("failed to fetch profile", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(*profile))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// isValidLogin validates that login looks like a GitHub username: 1-39
// characters, only alphanumerics and hyphens.
func isValidLogin(login string) bool {
	if login == "" || len(login) > 39 {
		return false
	}

	for _, ch := range login {
		if !isValidLoginChar(ch) {
			return false
		}
	}

	return true
}

// isValidLoginChar returns true if the rune is allowed in a GitHub username.
func isValidLoginChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-'
}
