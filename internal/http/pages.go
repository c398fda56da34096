package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"blogweb/internal/content"
	"blogweb/internal/http/middleware"
	"blogweb/internal/logging"
	"blogweb/internal/notify"
	"blogweb/internal/web"
)

// StaticPageHandler serves one markdown page from the content library.
type StaticPageHandler struct {
	Site  *Site
	Pages *content.Library
	Slug  string
}

func (h *StaticPageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, err := h.Pages.Get(h.Slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			h.Site.NotFound(w, r)
			return
		}
		h.Site.Fatal(w, r, err)
		return
	}
	writePage(h.Site, w, r, http.StatusOK, "static",
		web.Meta{Title: p.Title, Description: p.Description}, p)
}

const (
	maxContactName    = 100
	maxContactEmail   = 254
	maxContactMessage = 4000
)

type ContactHandler struct {
	Site     *Site
	Pages    *content.Library
	Notifier notify.Notifier
	Limiter  *middleware.RateLimiter
}

type contactContent struct {
	Body       template.HTML
	Action     string
	Status     string
	Name       string
	Email      string
	MaxName    int
	MaxEmail   int
	MaxMessage int
}

var contactStatuses = map[string]bool{"sent": true, "missing": true, "limited": true, "error": true, "invalid": true}

func (h *ContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.render(w, r)
	case http.MethodPost:
		h.submit(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ContactHandler) render(w http.ResponseWriter, r *http.Request) {
	p, err := h.Pages.Get("contact")
	if err != nil {
		h.Site.Fatal(w, r, err)
		return
	}
	status := r.URL.Query().Get("status")
	if !contactStatuses[status] {
		status = ""
	}
	c := contactContent{
		Body:       p.Body,
		Action:     h.Site.Routes.Contact(),
		Status:     status,
		MaxName:    maxContactName,
		MaxEmail:   maxContactEmail,
		MaxMessage: maxContactMessage,
	}
	if sess := middleware.Session(r); sess.CurrentUser() != nil {
		c.Name = sess.CurrentUser().Name()
	}
	writePage(h.Site, w, r, http.StatusOK, "contact",
		web.Meta{Title: p.Title, Description: p.Description}, c)
}

func (h *ContactHandler) submit(w http.ResponseWriter, r *http.Request) {
	if ok, _ := h.Limiter.TakeRequest(r); !ok {
		h.redirect(w, r, "limited")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "error")
		return
	}
	name := strings.TrimSpace(r.PostForm.Get("name"))
	email := strings.TrimSpace(r.PostForm.Get("email"))
	message := strings.TrimSpace(r.PostForm.Get("message"))
	if name == "" || email == "" || message == "" {
		h.redirect(w, r, "missing")
		return
	}
	if utf8.RuneCountInString(name) > maxContactName ||
		len(email) > maxContactEmail ||
		utf8.RuneCountInString(message) > maxContactMessage {
		h.redirect(w, r, "error")
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		h.redirect(w, r, "invalid")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	msg := fmt.Sprintf("New contact message from %s <%s>:\n\n%s", name, addr.Address, message)
	h.Notifier.NotifyAdmins(ctx, msg)
	logging.From(r.Context()).Info("contact.sent", "from", addr.Address)
	h.redirect(w, r, "sent")
}

func (h *ContactHandler) redirect(w http.ResponseWriter, r *http.Request, status string) {
	http.Redirect(w, r, h.Site.Routes.Contact()+"?status="+url.QueryEscape(status), http.StatusSeeOther)
}
