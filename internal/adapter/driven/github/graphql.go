package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/efindlay/devfinder/internal/domain/model"
	"github.com/efindlay/devfinder/internal/domain/port/driven"
)

// defaultGraphQLURL is the production GitHub GraphQL endpoint.
const defaultGraphQLURL = "https://api.github.com/graphql"

// profileQuery fetches everything the profile page needs in one request:
// the user, one page of their owned repositories, and the profile README
// (the README.md blob of the login/login repository). The login and page
// size are bound as variables; user input is never spliced into the query
// text.
const profileQuery = `query($login: String!, $repoCount: Int!) {
	user(login: $login) {
		login
		name
		bio
		avatarUrl
		url
		followers {
			totalCount
		}
		following {
			totalCount
		}
		repositories(first: $repoCount, ownerAffiliations: OWNER) {
			nodes {
				id
				name
				url
			}
		}
		repository(name: $login) {
			object(expression: "HEAD:README.md") {
				... on Blob {
					text
				}
			}
		}
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// profileResponse represents the expected shape of the profile query
// response. A null user means the login does not exist; other absent
// nested fields decode to zero values and render as empty downstream.
type profileResponse struct {
	Data struct {
		User *struct {
			Login     string `json:"login"`
			Name      string `json:"name"`
			Bio       string `json:"bio"`
			AvatarURL string `json:"avatarUrl"`
			URL       string `json:"url"`
			Followers struct {
				TotalCount int `json:"totalCount"`
			} `json:"followers"`
			Following struct {
				TotalCount int `json:"totalCount"`
			} `json:"following"`
			Repositories struct {
				Nodes []struct {
					ID   string `json:"id"`
					Name string `json:"name"`
					URL  string `json:"url"`
				} `json:"nodes"`
			} `json:"repositories"`
			Repository *struct {
				Object *struct {
					Text string `json:"text"`
				} `json:"object"`
			} `json:"repository"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Compile-time interface satisfaction check.
var _ driven.ProfileSource = (*GraphQLSource)(nil)

// GraphQLSource implements the driven.ProfileSource port against the GitHub
// GraphQL API. GraphQL rejects anonymous requests, so the composition root
// only selects this source when a token is configured.
type GraphQLSource struct {
	httpClient *http.Client
	url        string
	token      string
}

// NewGraphQLSource creates a GraphQL-backed profile source. The HTTP client
// enforces a 30-second timeout as a safety net alongside context
// cancellation.
func NewGraphQLSource(token string) *GraphQLSource {
	return &GraphQLSource{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        defaultGraphQLURL,
		token:      token,
	}
}

// NewGraphQLSourceWithHTTPClient creates a GraphQLSource against a custom
// endpoint. This constructor is intended for testing, allowing injection of
// an httptest server.
func NewGraphQLSourceWithHTTPClient(httpClient *http.Client, graphqlURL, token string) *GraphQLSource {
	return &GraphQLSource{
		httpClient: httpClient,
		url:        graphqlURL,
		token:      token,
	}
}

// Fetch issues the single profile query for login.
func (s *GraphQLSource) Fetch(ctx context.Context, login string) (*model.Profile, error) {
	if s.token == "" {
		return nil, fmt.Errorf("graphql: a GitHub token is required")
	}

	reqBody := graphqlRequest{
		Query: profileQuery,
		Variables: map[string]any{
			"login":     login,
			"repoCount": repoPageSize,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("graphql: marshaling profile query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("graphql: creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("bearer %s", s.token))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("graphql: profile query for %s: %w", login, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graphql: profile query for %s: HTTP %d", login, resp.StatusCode)
	}

	var gqlResp profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("graphql: decoding profile response for %s: %w", login, err)
	}

	user := gqlResp.Data.User
	if user == nil {
		// Unknown logins come back as a null user plus a NOT_FOUND entry
		// in errors. Anything else alongside a null user is a real failure.
		if len(gqlResp.Errors) > 0 && gqlResp.Errors[0].Type != "NOT_FOUND" {
			return nil, fmt.Errorf("graphql: profile query for %s: %s", login, gqlResp.Errors[0].Message)
		}
		return nil, driven.ErrProfileNotFound
	}

	// With a non-null user, partial errors only concern optional fields
	// (typically the missing login/login README repository) and are
	// tolerated.

	repos := make([]model.Repository, 0, len(user.Repositories.Nodes))
	for _, node := range user.Repositories.Nodes {
		repos = append(repos, model.Repository{
			ID:   node.ID,
			Name: node.Name,
			URL:  node.URL,
		})
	}

	profile := &model.Profile{
		Login:        user.Login,
		Name:         user.Name,
		Bio:          user.Bio,
		AvatarURL:    user.AvatarURL,
		ProfileURL:   user.URL,
		Followers:    user.Followers.TotalCount,
		Following:    user.Following.TotalCount,
		Repositories: repos,
	}

	if user.Repository != nil && user.Repository.Object != nil {
		profile.ReadmeMarkdown = user.Repository.Object.Text
	}

	return profile, nil
}
