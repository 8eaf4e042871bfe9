// Package view renders HTML pages from templates.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/go-chi/render"
	"github.com/tdewolff/minify"
	"github.com/tdewolff/minify/html"
)

const (
	layout    = "templates/layout.html"
	pagesGlob = "templates/pages/*.html"
	mediaType = "text/html"
)

// Renderer executes page templates wrapped in the shared layout. A page is
// addressed by its file name, e.g. "articles.html".
type Renderer struct {
	pages    map[string]*template.Template
	minifier *minify.M
}

// New parses every page under templates/pages in fsys. With minifyHTML the
// output is minified before it is written.
func New(fsys fs.FS, minifyHTML bool) (*Renderer, error) {
	names, err := fs.Glob(fsys, pagesGlob)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("view: no templates match %s", pagesGlob)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		t, err := template.New(path.Base(layout)).Funcs(Funcs).ParseFS(fsys, layout, name)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		r.pages[path.Base(name)] = t
	}

	if minifyHTML {
		r.minifier = minify.New()
		r.minifier.AddFunc(mediaType, html.Minify)
	}

	return r, nil
}

// Render writes page name with data and the given status.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("view: execute %s: %w", name, err)
	}

	out := buf.String()
	if v.minifier != nil {
		if m, err := v.minifier.String(mediaType, out); err == nil {
			out = m
		}
	}

	render.Status(r, status)
	render.HTML(w, r, out)

	return nil
}

// Funcs are available to every template.
var Funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"mul": func(a, b int) int { return a * b },
	"articleURL": func(id int64, slug string) string {
		return "/article/" + strconv.FormatInt(id, 10) + "/" + url.PathEscape(slug)
	},
	"pageURL": func(page int, search string) string {
		u := "/GetArticles/" + strconv.Itoa(page)
		if search != "" {
			u += "?search=" + url.QueryEscape(search)
		}

		return u
	},
}
