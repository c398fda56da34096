package web

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogweb/internal/nav"
	"blogweb/internal/users"
)

type staticContent struct {
	Body template.HTML
}

func render(t *testing.T, header HeaderData) string {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)

	page := Page[staticContent]{
		AppTitle:  "Blog",
		HeadTitle: "About | Blog",
		Meta:      Meta{Title: "About", Description: "About page"},
		Header:    header,
		Content:   staticContent{Body: "<p>hello</p>"},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "static", page))
	return buf.String()
}

func TestRenderHead(t *testing.T) {
	out := render(t, HeaderData{Brand: "Blog"})
	assert.Contains(t, out, "<title>About | Blog</title>")
	assert.Contains(t, out, `<meta name="description" content="About page">`)
	assert.Contains(t, out, `<meta property="og:title" content="About">`)
	assert.Contains(t, out, "<p>hello</p>")
}

func TestRenderTabs(t *testing.T) {
	out := render(t, HeaderData{Tabs: []nav.Item{
		{Label: "One", Href: "/1", Active: true},
		{Label: "Two", Href: "/2"},
	}})
	assert.Equal(t, 2, strings.Count(out, `data-testid="tab"`))
	assert.Less(t, strings.Index(out, `href="/1">One`), strings.Index(out, `href="/2">Two`))
	assert.Contains(t, out, `data-testid="tab" data-active><a href="/1">`)
}

func TestRenderUserMenuHiddenWithoutUser(t *testing.T) {
	out := render(t, HeaderData{IsAuthenticated: true})
	assert.NotContains(t, out, "user-menu")

	out = render(t, HeaderData{User: &users.User{DisplayName: "Ada"}})
	assert.NotContains(t, out, "user-menu")
	assert.NotContains(t, out, "Ada")
}

func TestRenderUserMenu(t *testing.T) {
	h := HeaderData{IsAuthenticated: true, User: &users.User{DisplayName: "Ada"}, Menu: UserMenu(), MenuHref: "/?menu=open"}
	out := render(t, h)
	assert.Contains(t, out, `data-testid="user-menu-trigger"`)
	assert.Contains(t, out, `<span class="user-name">Ada</span>`)
	assert.NotContains(t, out, "user-menu-dropdown")
	assert.NotContains(t, out, "user-active")

	h.State = h.State.OpenUserMenu()
	out = render(t, h)
	assert.Contains(t, out, "user-active")
	assert.Contains(t, out, "user-menu-dropdown")
	assert.Contains(t, out, "Delete account")
	assert.Contains(t, out, `class="menu-item menu-item-red"`)
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	assert.Error(t, r.Render(&bytes.Buffer{}, "nope", nil))
}
