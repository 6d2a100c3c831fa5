// Package github implements the ProfileSource port against the GitHub API:
// a GraphQL source for authenticated use and a REST source that also works
// without credentials.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/efindlay/devfinder/internal/domain/model"
	"github.com/efindlay/devfinder/internal/domain/port/driven"
)

// repoPageSize is the fixed number of repositories fetched alongside a
// profile. Both sources request exactly one page of this size; anything
// beyond it is out of scope for the profile page.
const repoPageSize = 50

// Compile-time interface satisfaction check.
var _ driven.ProfileSource = (*RESTSource)(nil)

// RESTSource implements the driven.ProfileSource port using the go-github
// library. It needs no credentials (anonymous rate limits apply), which
// makes it the fallback when no token is configured.
type RESTSource struct {
	gh *gh.Client
}

// NewRESTSource creates a REST-backed profile source with the following
// transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, PAT auth when a token is given)
func NewRESTSource(token string) *RESTSource {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &RESTSource{gh: client}
}

// NewRESTSourceWithHTTPClient creates a RESTSource with a custom http.Client
// and base URL. This constructor is intended for testing, allowing injection
// of an httptest server.
func NewRESTSourceWithHTTPClient(httpClient *http.Client, baseURL string) (*RESTSource, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &RESTSource{gh: client}, nil
}

// Fetch retrieves login's profile, one page of owned repositories, and the
// profile README in three REST calls. The GraphQL source does the same in
// one request; this is the shape the REST API forces.
func (s *RESTSource) Fetch(ctx context.Context, login string) (*model.Profile, error) {
	user, resp, err := s.gh.Users.Get(ctx, login)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, driven.ErrProfileNotFound
		}
		return nil, fmt.Errorf("fetching user %s: %w", login, err)
	}
	logRateLimit(resp, "users/"+login)

	opts := &gh.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: gh.ListOptions{PerPage: repoPageSize},
	}
	repos, resp, err := s.gh.Repositories.ListByUser(ctx, login, opts)
	if err != nil {
		return nil, fmt.Errorf("listing repositories for %s: %w", login, err)
	}
	logRateLimit(resp, "users/"+login+"/repos")

	profile := mapUser(user, repos)
	profile.ReadmeMarkdown = s.fetchProfileReadme(ctx, login)

	return profile, nil
}

// fetchProfileReadme loads the README of the login/login repository. Most
// users do not have one, and the page renders without it, so every failure
// path degrades to empty.
func (s *RESTSource) fetchProfileReadme(ctx context.Context, login string) string {
	readme, _, err := s.gh.Repositories.GetReadme(ctx, login, login, nil)
	if err != nil || readme == nil {
		return ""
	}

	content, err := readme.GetContent()
	if err != nil {
		slog.Warn("profile readme decode failed", "login", login, "error", err)
		return ""
	}
	return content
}

// mapUser converts go-github types to a domain Profile. It uses GetXxx()
// helper methods exclusively to avoid nil pointer panics on sparse API
// responses.
func mapUser(user *gh.User, repos []*gh.Repository) *model.Profile {
	list := make([]model.Repository, 0, len(repos))
	for _, repo := range repos {
		list = append(list, model.Repository{
			ID:   strconv.FormatInt(repo.GetID(), 10),
			Name: repo.GetName(),
			URL:  repo.GetHTMLURL(),
		})
	}

	return &model.Profile{
		Login:        user.GetLogin(),
		Name:         user.GetName(),
		Bio:          user.GetBio(),
		AvatarURL:    user.GetAvatarURL(),
		ProfileURL:   user.GetHTMLURL(),
		Followers:    user.GetFollowers(),
		Following:    user.GetFollowing(),
		Repositories: list,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	// Proportional threshold: the anonymous quota is only 60/hour, so a
	// fixed floor would warn on every call.
	if resp.Rate.Limit > 0 && resp.Rate.Remaining*10 < resp.Rate.Limit {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"limit", resp.Rate.Limit,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
