package web

import (
	"strings"

	"blogweb/internal/nav"
	"blogweb/internal/users"
)

// Meta is what a page contributes to the document head.
type Meta struct {
	Title       string
	Description string
}

// HeaderData is rendered by the shared header partial on every page.
type HeaderData struct {
	Brand           string
	IsAuthenticated bool
	User            *users.User
	Tabs            []nav.Item
	State           HeaderState
	Menu            []MenuSection

	BurgerHref    string
	MenuHref      string
	MenuCloseHref string
}

// ShowUserMenu is false unless there is both a session and a loaded user.
func (h HeaderData) ShowUserMenu() bool {
	return h.IsAuthenticated && h.User != nil
}

func (h HeaderData) UserName() string { return h.User.Name() }

// Page wraps shared Header + page-specific Content.
type Page[T any] struct {
	AppTitle  string
	HeadTitle string
	Base      string
	Meta      Meta
	Header    HeaderData
	Content   T
}

// Title applies a "%PageTitle | %AppTitle" style template. An empty page
// title yields the app title alone.
func Title(tmpl, pageTitle, appTitle string) string {
	if pageTitle == "" {
		return appTitle
	}
	if tmpl == "" {
		return pageTitle
	}
	r := strings.NewReplacer("%PageTitle", pageTitle, "%AppTitle", appTitle)
	return r.Replace(tmpl)
}
