package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	vm "github.com/efindlay/devfinder/internal/adapter/driving/web/viewmodel"
)

//go:embed templates/*.html
var templatesFS embed.FS

// CardRenderer renders a single repository card. It is split from Renderer
// so the card's fixed shape can be exercised and mocked on its own.
type CardRenderer interface {
	RenderCard(w io.Writer, card vm.RepositoryCard) error
}

// Renderer renders the profile page and its htmx fragments.
type Renderer interface {
	CardRenderer

	RenderPage(w io.Writer, page vm.Page) error
	RenderContent(w io.Writer, content vm.Content) error
	RenderRepoList(w io.Writer, list vm.RepoList) error
}

// Compile-time interface satisfaction check.
var _ Renderer = (*TemplateRenderer)(nil)

// TemplateRenderer implements Renderer over the embedded html/template set.
// html/template's contextual escaping keeps hostile profile data (names,
// bios, URLs) inert wherever it lands in the markup.
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &TemplateRenderer{templates: t}, nil
}

// RenderPage writes the full profile page.
func (r *TemplateRenderer) RenderPage(w io.Writer, page vm.Page) error {
	return r.templates.ExecuteTemplate(w, "page", page)
}

// RenderContent writes the spinner / not-found / profile swap target.
func (r *TemplateRenderer) RenderContent(w io.Writer, content vm.Content) error {
	return r.templates.ExecuteTemplate(w, "content", content)
}

// RenderRepoList writes the filtered repository list fragment.
func (r *TemplateRenderer) RenderRepoList(w io.Writer, list vm.RepoList) error {
	return r.templates.ExecuteTemplate(w, "repo_list", list)
}

// RenderCard writes one repository card.
func (r *TemplateRenderer) RenderCard(w io.Writer, card vm.RepositoryCard) error {
	return r.templates.ExecuteTemplate(w, "repo_card", card)
}
