package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
)

//go:embed tpl/**/*.tmpl
//go:embed tpl/*.tmpl
var tplFS embed.FS

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"nowUTC": func() time.Time { return time.Now().UTC() },
	}
	root := template.New("root").Funcs(funcs).Funcs(sprig.FuncMap())
	if _, err := root.ParseFS(tplFS, "tpl/base.tmpl", "tpl/partials/*.tmpl"); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(tplFS, "tpl/pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".tmpl")
		t, err := root.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(tplFS, f); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}
	return t.ExecuteTemplate(w, name, data)
}
