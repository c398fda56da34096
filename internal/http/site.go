package http

import (
	"bytes"
	"fmt"
	"net/http"

	"blogweb/internal/config"
	"blogweb/internal/http/middleware"
	"blogweb/internal/logging"
	"blogweb/internal/nav"
	"blogweb/internal/routes"
	"blogweb/internal/web"
)

// Site is the layout shared by every page: head metadata, the header and
// the error fallback.
type Site struct {
	TPL    *web.Renderer
	Routes *routes.Table
	// Tabs is resolved on every render.
	Tabs nav.Tabs
	Meta config.SiteConfig
}

// header derives the header from the session and the URL's toggle state.
func (s *Site) header(r *http.Request) web.HeaderData {
	sess := middleware.Session(r)
	state := web.HeaderStateFrom(r.URL.Query())

	menuNext := state.OpenUserMenu()
	if state.UserMenuOpen {
		menuNext = state.CloseUserMenu()
	}
	return web.HeaderData{
		Brand:           s.Meta.Title,
		IsAuthenticated: sess.IsAuthenticated(),
		User:            sess.CurrentUser(),
		Tabs:            s.Tabs.Resolve(r.URL.Path),
		State:           state,
		Menu:            web.UserMenu(),
		BurgerHref:      state.ToggleBurger().Href(r.URL),
		MenuHref:        menuNext.Href(r.URL),
		MenuCloseHref:   state.CloseUserMenu().Href(r.URL),
	}
}

func (s *Site) headTitle(pageTitle string) string {
	return web.Title(s.Meta.TitleTemplate, pageTitle, s.Meta.Title)
}

// writePage renders a full page into a buffer and only then writes it, so a
// failure anywhere in the render ends up on the fatal page.
func writePage[T any](s *Site, w http.ResponseWriter, r *http.Request, status int, name string, meta web.Meta, content T) {
	if meta.Description == "" {
		meta.Description = s.Meta.Description
	}
	page := web.Page[T]{
		AppTitle:  s.Meta.Title,
		HeadTitle: s.headTitle(meta.Title),
		Base:      s.Routes.Base(),
		Meta:      meta,
		Header:    s.header(r),
		Content:   content,
	}
	var buf bytes.Buffer
	if err := s.TPL.Render(&buf, name, page); err != nil {
		logging.From(r.Context()).Error("page.render", "page", name, "err", err)
		s.Fatal(w, r, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

type fatalContent struct {
	RequestID string
}

// Fatal is the fallback page. It does not render the header, which may be
// what failed.
func (s *Site) Fatal(w http.ResponseWriter, r *http.Request, _ error) {
	page := web.Page[fatalContent]{
		AppTitle:  s.Meta.Title,
		HeadTitle: s.headTitle("Error"),
		Base:      s.Routes.Base(),
		Meta:      web.Meta{Title: "Error"},
		Content:   fatalContent{RequestID: middleware.RequestID(r)},
	}
	var buf bytes.Buffer
	if err := s.TPL.Render(&buf, "fatal", page); err != nil {
		logging.From(r.Context()).Error("page.fatal_render", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(buf.Bytes())
}

type notFoundContent struct {
	Path string
}

func (s *Site) NotFound(w http.ResponseWriter, r *http.Request) {
	writePage(s, w, r, http.StatusNotFound, "notfound",
		web.Meta{Title: "Not found", Description: "Page not found"},
		notFoundContent{Path: r.URL.Path})
}
