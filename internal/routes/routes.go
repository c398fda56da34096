// Package routes is the named route table. Each route is a zero-argument
// generator returning a path under the configured base path.
package routes

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Home    = "home"
	About   = "about"
	Contact = "contact"
)

var ErrUnknownRoute = errors.New("unknown route")

// patterns are relative to the base path.
var patterns = map[string]string{
	Home:    "/",
	About:   "/about",
	Contact: "/contact",
}

type Table struct {
	base string
}

// New builds a table rooted at basePath ("" or "/blog").
func New(basePath string) *Table {
	return &Table{base: strings.TrimRight(strings.TrimSpace(basePath), "/")}
}

func (t *Table) Home() string    { return t.MustPath(Home) }
func (t *Table) About() string   { return t.MustPath(About) }
func (t *Table) Contact() string { return t.MustPath(Contact) }

// Path resolves a route name.
func (t *Table) Path(name string) (string, error) {
	p, ok := patterns[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	if t == nil || t.base == "" {
		return p, nil
	}
	if p == "/" {
		return t.base + "/", nil
	}
	return t.base + p, nil
}

// MustPath is Path for names known at compile time. It panics on an unknown
// name; during a page render that panic lands in the recover boundary.
func (t *Table) MustPath(name string) string {
	p, err := t.Path(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Names lists every route name.
func Names() []string {
	return []string{Home, About, Contact}
}

// Base returns the base path the table was built with.
func (t *Table) Base() string {
	if t == nil {
		return ""
	}
	return t.base
}
