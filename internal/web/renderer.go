// Package web renders the site's HTML pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"
)

// Template names accepted by Renderer
const (
	TemplatePage     = "page"
	TemplateDonate   = "donate"
	TemplateNotFound = "notfound"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Renderer implements gin's render.HTMLRender over the embedded templates.
// Every page is its own template set cloned from the layout.
type Renderer struct {
	templates map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// NewRenderer parses the embedded layout and page templates
func NewRenderer() (*Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	layout, err := template.New(path.Base(layoutFile)).ParseFS(fsys, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout: %w", err)
		}
		if _, err := t.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		r.templates[strings.TrimSuffix(path.Base(file), ".html")] = t
	}

	for _, name := range []string{TemplatePage, TemplateDonate, TemplateNotFound} {
		if _, ok := r.templates[name]; !ok {
			return nil, fmt.Errorf("missing template %q", name)
		}
	}

	return r, nil
}

// Instance implements render.HTMLRender. Unknown names render the not found page.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.templates[name]
	if !ok {
		t = r.templates[TemplateNotFound]
	}
	return render.HTML{
		Template: t,
		Name:     "layout",
		Data:     data,
	}
}
