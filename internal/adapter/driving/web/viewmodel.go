package web

import (
	"fmt"
	"html/template"

	vm "github.com/efindlay/devfinder/internal/adapter/driving/web/viewmodel"
	"github.com/efindlay/devfinder/internal/application"
)

// toPage assembles the full-page model for a mounted view.
func toPage(token string, state application.ViewState) vm.Page {
	return vm.Page{
		Title:     state.Username + " · devfinder",
		Username:  state.Username,
		ViewToken: token,
		Content:   toContent(token, state),
	}
}

// toContent maps a view snapshot onto the swap target. The loading phase
// masks everything else; a profile that arrives early renders only after
// the phase ends.
func toContent(token string, state application.ViewState) vm.Content {
	content := vm.Content{
		ViewToken:  token,
		Username:   state.Username,
		Loading:    state.Loading,
		Refreshing: state.Loading || (state.Profile == nil && state.FetchPending),
		ContentURL: fmt.Sprintf("/views/%s/content", token),
	}

	if !state.Loading && state.Profile != nil {
		profile := toProfile(token, state)
		content.Profile = &profile
	}

	return content
}

// toProfile maps the fetched profile. state.Profile must be non-nil.
func toProfile(token string, state application.ViewState) vm.Profile {
	p := state.Profile

	displayName := p.Name
	if displayName == "" {
		displayName = p.Login
	}

	return vm.Profile{
		Login:       p.Login,
		DisplayName: displayName,
		Bio:         p.Bio,
		AvatarURL:   p.AvatarURL,
		ProfileURL:  p.ProfileURL,
		Followers:   p.Followers,
		Following:   p.Following,
		ReadmeHTML:  template.HTML(RenderMarkdown(p.ReadmeMarkdown)),
		Repos:       toRepoList(token, state),
	}
}

// toRepoList applies the view's filter text to the repository list. With
// no profile it yields an empty list so the fragment still renders.
func toRepoList(token string, state application.ViewState) vm.RepoList {
	list := vm.RepoList{
		ViewToken: token,
		Filter:    state.FilterText,
		ReposURL:  fmt.Sprintf("/views/%s/repos", token),
		Cards:     []vm.RepositoryCard{},
	}

	if state.Profile == nil {
		return list
	}

	list.Total = len(state.Profile.Repositories)
	for _, repo := range application.FilterRepositories(state.Profile.Repositories, state.FilterText) {
		list.Cards = append(list.Cards, vm.RepositoryCard{
			ID:   repo.ID,
			Name: repo.Name,
			URL:  repo.URL,
		})
	}

	return list
}
