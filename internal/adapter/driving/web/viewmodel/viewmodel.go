// Package viewmodel defines presentation-ready structs for the HTML
// templates. View models decouple template rendering from domain model
// types.
package viewmodel

import "html/template"

// Page holds the data for a full profile page load.
type Page struct {
	Title     string
	Username  string
	ViewToken string
	Content   Content
}

// Content models the swap target that cycles through the spinner, the
// not-found placeholder, and the profile. Exactly one branch renders:
// Loading wins over everything, then a present Profile, then the
// placeholder.
type Content struct {
	ViewToken string
	Username  string
	Loading   bool

	// Refreshing keeps the fragment polling for its replacement: while
	// the loading phase runs, and while a not-found placeholder may still
	// be superseded by a fetch that has not settled.
	Refreshing bool

	// ContentURL is the fragment endpoint this content reloads itself from.
	ContentURL string

	// Profile is nil while loading and after failed fetches.
	Profile *Profile
}

// Profile holds the settled profile ready for rendering.
type Profile struct {
	Login       string
	DisplayName string
	Bio         string
	AvatarURL   string
	ProfileURL  string
	Followers   int
	Following   int

	// ReadmeHTML is sanitized markdown output and safe to inject.
	ReadmeHTML template.HTML

	Repos RepoList
}

// RepoList is the filterable repository list fragment.
type RepoList struct {
	ViewToken string
	Filter    string

	// ReposURL is the fragment endpoint the filter input targets.
	ReposURL string

	// Total counts the repositories before filtering.
	Total int

	Cards []RepositoryCard
}

// RepositoryCard is the fixed-shape model for one repository: the name as
// a heading and the URL as an outbound link.
type RepositoryCard struct {
	ID   string
	Name string
	URL  string
}
