package model

// Profile is an immutable snapshot of one GitHub user, fetched together
// with a single page of their repositories. Optional fields (Name, Bio,
// ReadmeMarkdown) are empty when the user has not set them.
type Profile struct {
	Login      string
	Name       string
	Bio        string
	AvatarURL  string
	ProfileURL string
	Followers  int
	Following  int

	// ReadmeMarkdown is the raw markdown of the user's profile README
	// (the README of the login/login repository), empty when absent.
	ReadmeMarkdown string

	Repositories []Repository
}

// Repository is one entry in a profile's repository list.
type Repository struct {
	ID   string
	Name string
	URL  string
}
