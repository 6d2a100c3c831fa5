package application

import (
	"strings"

	"github.com/efindlay/devfinder/internal/domain/model"
)

// FilterRepositories returns the repositories whose name contains filter as
// a case-insensitive substring, preserving input order. An empty filter
// returns the input unchanged.
func FilterRepositories(repos []model.Repository, filter string) []model.Repository {
	if filter == "" {
		return repos
	}

	needle := strings.ToLower(filter)
	matched := make([]model.Repository, 0, len(repos))
	for _, repo := range repos {
		if strings.Contains(strings.ToLower(repo.Name), needle) {
			matched = append(matched, repo)
		}
	}
	return matched
}
