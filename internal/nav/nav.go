// Package nav builds the header's tab strip.
package nav

import (
	"strings"

	"blogweb/internal/routes"
)

// Tab pairs a display label with a path generator. Path is invoked on every
// render and never cached.
type Tab struct {
	Label string
	Path  func() string
}

// Tabs is ordered; display order is slice order.
type Tabs []Tab

// Item is a resolved tab, ready for the template.
type Item struct {
	Label  string
	Href   string
	Active bool
}

// DefaultLabel is the tab marked active when no tab matches the current path.
const DefaultLabel = "Home"

// BlogLabels is the header's fixed label list.
var BlogLabels = []string{"Home", "About", "Contact"}

// FromLabels builds tabs from a static label list and a pure label->path
// function.
func FromLabels(labels []string, path func(label string) string) Tabs {
	tabs := make(Tabs, 0, len(labels))
	for _, l := range labels {
		tabs = append(tabs, Tab{Label: l, Path: func() string { return path(l) }})
	}
	return tabs
}

// Blog is the Home/About/Contact strip over the route table. Labels map to
// route names by lower-casing.
func Blog(t *routes.Table) Tabs {
	return FromLabels(BlogLabels, func(label string) string {
		return t.MustPath(strings.ToLower(label))
	})
}

// Resolve produces exactly one item per tab, in order. A panic from a Path
// function is not recovered here.
func (ts Tabs) Resolve(currentPath string) []Item {
	items := make([]Item, len(ts))
	matched := false
	for i, t := range ts {
		items[i] = Item{Label: t.Label, Href: t.Path()}
		if !matched && items[i].Href == currentPath {
			items[i].Active = true
			matched = true
		}
	}
	if !matched {
		for i := range items {
			if items[i].Label == DefaultLabel {
				items[i].Active = true
				break
			}
		}
	}
	return items
}
