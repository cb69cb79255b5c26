package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
)

// Renderer draws named templates. Handlers hold one so tests can record
// view models instead of executing templates.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, name string, data any)
	RenderSnippet(w http.ResponseWriter, name string, data any)
}

// Templates renders through the booted waffle template engine.
type Templates struct{}

// Render renders a full page.
func (Templates) Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	templates.Render(w, r, name, data)
}

// RenderSnippet renders a partial without the layout.
func (Templates) RenderSnippet(w http.ResponseWriter, name string, data any) {
	templates.RenderSnippet(w, name, data)
}
