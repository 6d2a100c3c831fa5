package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/efindlay/devfinder/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// ProfileResponse is the JSON representation of a fetched profile.
type ProfileResponse struct {
	Login        string               `json:"login"`
	Name         string               `json:"name"`
	Bio          string               `json:"bio"`
	AvatarURL    string               `json:"avatar_url"`
	ProfileURL   string               `json:"profile_url"`
	Followers    int                  `json:"followers"`
	Following    int                  `json:"following"`
	Repositories []RepositoryResponse `json:"repositories"`
}

// RepositoryResponse is one entry in a profile's repository list.
type RepositoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toProfileResponse converts a domain Profile to its JSON response
// representation. Repositories is always a JSON array, never null.
func toProfileResponse(p model.Profile) ProfileResponse {
	repos := make([]RepositoryResponse, 0, len(p.Repositories))
	for _, repo := range p.Repositories {
		repos = append(repos, RepositoryResponse{
			ID:   repo.ID,
			Name: repo.Name,
			URL:  repo.URL,
		})
	}

	return ProfileResponse{
		Login:        p.Login,
		Name:         p.Name,
		Bio:          p.Bio,
		AvatarURL:    p.AvatarURL,
		ProfileURL:   p.ProfileURL,
		Followers:    p.Followers,
		Following:    p.Following,
		Repositories: repos,
	}
}
