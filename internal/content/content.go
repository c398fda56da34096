// Package content holds the site's static pages. Pages are markdown files
// with a YAML front matter block, rendered once at load time and sanitized.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed pages/*.md
var pagesFS embed.FS

var ErrNotFound = errors.New("page not found")

type Page struct {
	Slug        string
	Title       string
	Description string
	Body        template.HTML
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Library struct {
	pages map[string]Page
}

// Load parses the embedded pages.
func Load() (*Library, error) {
	return LoadFS(pagesFS, "pages")
}

// LoadFS parses every *.md file in dir of fsys.
func LoadFS(fsys fs.FS, dir string) (*Library, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read pages dir: %w", err)
	}
	md := goldmark.New()
	policy := bluemonday.UGCPolicy()

	lib := &Library{pages: make(map[string]Page)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read page %s: %w", e.Name(), err)
		}
		p, err := parse(md, policy, strings.TrimSuffix(e.Name(), ".md"), raw)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", e.Name(), err)
		}
		lib.pages[p.Slug] = p
	}
	return lib, nil
}

func parse(md goldmark.Markdown, policy *bluemonday.Policy, slug string, raw []byte) (Page, error) {
	var fm frontMatter
	body := raw
	if rest, ok := bytes.CutPrefix(raw, []byte("---\n")); ok {
		head, tail, found := bytes.Cut(rest, []byte("\n---\n"))
		if !found {
			return Page{}, errors.New("unterminated front matter")
		}
		if err := yaml.Unmarshal(head, &fm); err != nil {
			return Page{}, fmt.Errorf("front matter: %w", err)
		}
		body = tail
	}
	if fm.Title == "" {
		return Page{}, errors.New("missing title")
	}

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return Page{}, fmt.Errorf("markdown: %w", err)
	}
	return Page{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		Body:        template.HTML(policy.SanitizeBytes(buf.Bytes())),
	}, nil
}

func (l *Library) Get(slug string) (Page, error) {
	p, ok := l.pages[slug]
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return p, nil
}
