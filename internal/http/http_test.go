package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogweb/internal/auth"
	"blogweb/internal/config"
	"blogweb/internal/logging"
	"blogweb/internal/nav"
	"blogweb/internal/theme"
	"blogweb/internal/users"
)

const aboutText = "This site was created to demo my masery of Redwood: Look on my works, ye mighty, and despair!"

type fakeStore struct {
	users  map[string]*users.User
	hashes map[string]string
}

func (f *fakeStore) ByID(_ context.Context, id string) (*users.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, users.ErrNotFound
}

func (f *fakeStore) Credentials(_ context.Context, username string) (*users.User, string, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, f.hashes[u.ID], nil
		}
	}
	return nil, "", users.ErrNotFound
}

type recordingNotifier struct {
	msgs []string
}

func (n *recordingNotifier) NotifyAdmins(_ context.Context, msg string) {
	n.msgs = append(n.msgs, msg)
}

type testEnv struct {
	app      *App
	handler  http.Handler
	store    *fakeStore
	notifier *recordingNotifier
}

func newEnv(t *testing.T, cfgYAML string) *testEnv {
	t.Helper()
	auth.SetSecret("http-test-secret")

	cfg, err := config.FromReader(strings.NewReader(cfgYAML))
	require.NoError(t, err)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	store := &fakeStore{
		users: map[string]*users.User{
			"u-ada": {ID: "u-ada", Username: "ada", DisplayName: "Ada", Role: users.RoleAdmin},
		},
		hashes: map[string]string{"u-ada": hash},
	}
	n := &recordingNotifier{}

	app, err := New(Deps{
		Config:   cfg,
		Data:     store,
		Notifier: n,
		Logger:   logging.Discard(),
		Theme:    theme.Default(),
	})
	require.NoError(t, err)
	return &testEnv{app: app, handler: app.Handler(), store: store, notifier: n}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	req = req.WithContext(logging.WithLogger(req.Context(), logging.Discard()))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec.Result()
}

func (e *testEnv) get(t *testing.T, target, userID string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID != "" {
		tok, err := auth.IssueToken(userID)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tok})
	}
	resp := e.do(t, req)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

var burgerHref = regexp.MustCompile(`class="burger[^"]*" href="([^"]*)"`)

func TestAboutPage(t *testing.T) {
	env := newEnv(t, "")
	resp, body := env.get(t, "/about", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "<title>About | Blog</title>")
	assert.Contains(t, body, `<meta property="og:title" content="About">`)
	assert.Contains(t, body, `<meta name="description" content="About page">`)
	assert.Contains(t, body, "<p>"+aboutText+"</p>")
}

func TestHeaderTabsInOrder(t *testing.T) {
	env := newEnv(t, "")
	_, body := env.get(t, "/contact", "")

	assert.Equal(t, 3, strings.Count(body, `data-testid="tab"`))
	home := strings.Index(body, `<a href="/">Home</a>`)
	about := strings.Index(body, `<a href="/about">About</a>`)
	contact := strings.Index(body, `data-testid="tab" data-active><a href="/contact">Contact</a>`)
	require.True(t, home > 0 && about > 0 && contact > 0, body)
	assert.Less(t, home, about)
	assert.Less(t, about, contact)
}

func TestTabPathsResolvedEachRender(t *testing.T) {
	env := newEnv(t, "")
	n := 0
	env.app.Site.Tabs = nav.Tabs{{Label: "Counter", Path: func() string {
		n++
		return "/count/" + strings.Repeat("x", n)
	}}}

	_, body := env.get(t, "/about", "")
	assert.Contains(t, body, `href="/count/x">Counter`)
	_, body = env.get(t, "/about", "")
	assert.Contains(t, body, `href="/count/xx">Counter`)
}

func TestAnonymousHasNoUserMenu(t *testing.T) {
	env := newEnv(t, "")
	_, body := env.get(t, "/", "")
	assert.NotContains(t, body, "user-menu-trigger")
	assert.NotContains(t, body, "Liked posts")
}

func TestSessionWithoutUserHasNoUserMenu(t *testing.T) {
	env := newEnv(t, "")
	_, body := env.get(t, "/", "u-deleted")
	assert.NotContains(t, body, "user-menu-trigger")
}

func TestAuthenticatedUserMenu(t *testing.T) {
	env := newEnv(t, "")
	_, body := env.get(t, "/", "u-ada")

	assert.Contains(t, body, `data-testid="user-menu-trigger"`)
	assert.Contains(t, body, "Ada")
	assert.NotContains(t, body, "user-active")
	assert.NotContains(t, body, "user-menu-dropdown")
	assert.Contains(t, body, `href="/?menu=open"`)
}

func TestUserMenuOpenAndClose(t *testing.T) {
	env := newEnv(t, "")

	_, body := env.get(t, "/?menu=open", "u-ada")
	assert.Contains(t, body, `class="user user-active"`)
	assert.Contains(t, body, `data-testid="user-menu-dropdown"`)
	assert.Contains(t, body, "Delete account")
	assert.Contains(t, body, `<a class="menu-close" href="/"`)

	_, body = env.get(t, "/", "u-ada")
	assert.NotContains(t, body, "user-active")
}

func TestBurgerToggles(t *testing.T) {
	env := newEnv(t, "")

	_, body := env.get(t, "/about?menu=open", "u-ada")
	assert.NotContains(t, body, "burger-open")
	m := burgerHref.FindStringSubmatch(body)
	require.Len(t, m, 2)
	next, err := url.Parse(strings.ReplaceAll(m[1], "&amp;", "&"))
	require.NoError(t, err)
	assert.Equal(t, "open", next.Query().Get("burger"))
	assert.Equal(t, "open", next.Query().Get("menu"), "menu state untouched")

	_, body = env.get(t, next.String(), "u-ada")
	assert.Contains(t, body, "burger-open")
	assert.Contains(t, body, `data-testid="burger-drawer"`)
	assert.Contains(t, body, "user-active", "menu still open")
	m = burgerHref.FindStringSubmatch(body)
	require.Len(t, m, 2)
	assert.Equal(t, "/about?menu=open", m[1])

	_, body = env.get(t, m[1], "u-ada")
	assert.NotContains(t, body, "burger-open")
	assert.Contains(t, body, "user-active")
}

func TestBurgerHrefKeepsEscapedPath(t *testing.T) {
	env := newEnv(t, "")
	resp, body := env.get(t, "/a%2Fb", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	m := burgerHref.FindStringSubmatch(body)
	require.Len(t, m, 2)
	assert.Equal(t, "/a%2Fb?burger=open", m[1])
}

func TestSiteDescriptionFallback(t *testing.T) {
	env := newEnv(t, "site:\n  description: Notes on things\n")

	_, body := env.get(t, "/", "")
	assert.Contains(t, body, `<meta name="description" content="Notes on things">`)

	_, body = env.get(t, "/about", "")
	assert.Contains(t, body, `<meta name="description" content="About page">`)
	assert.NotContains(t, body, "Notes on things")
}

func TestPanickingTabShowsFatalPage(t *testing.T) {
	env := newEnv(t, "")
	env.app.Site.Tabs = nav.Tabs{
		{Label: "Home", Path: env.app.Site.Routes.Home},
		{Label: "Broken", Path: func() string { panic("route resolution failed") }},
	}

	var resp *http.Response
	var body string
	require.NotPanics(t, func() { resp, body = env.get(t, "/about", "") })
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, `data-testid="fatal-error"`)
	assert.Contains(t, body, "<title>Error | Blog</title>")
	assert.NotContains(t, body, aboutText)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestNotFound(t *testing.T) {
	env := newEnv(t, "")
	resp, body := env.get(t, "/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page not found")
	assert.Contains(t, body, `data-testid="tab"`)
}

func TestThemeCSS(t *testing.T) {
	env := newEnv(t, "")
	resp, body := env.get(t, "/theme.css", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/css; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "--blog-primary: #43A047;")

	req := httptest.NewRequest(http.MethodGet, "/theme.css", nil)
	req.Header.Set("If-None-Match", resp.Header.Get("ETag"))
	assert.Equal(t, http.StatusNotModified, env.do(t, req).StatusCode)
}

func TestStaticAssets(t *testing.T) {
	env := newEnv(t, "")
	resp, body := env.get(t, "/static/site.css", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, ".menu-dropdown")
}

func TestSecurityHeaders(t *testing.T) {
	env := newEnv(t, "")
	resp, _ := env.get(t, "/", "")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

func postForm(t *testing.T, env *testEnv, target string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return env.do(t, req)
}

func TestContactSubmit(t *testing.T) {
	env := newEnv(t, "")

	resp := postForm(t, env, "/contact", url.Values{
		"name":    {"Grace"},
		"email":   {"grace@example.org"},
		"message": {"Nice blog"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/contact?status=sent", resp.Header.Get("Location"))
	require.Len(t, env.notifier.msgs, 1)
	assert.Contains(t, env.notifier.msgs[0], "grace@example.org")
	assert.Contains(t, env.notifier.msgs[0], "Nice blog")

	_, body := env.get(t, "/contact?status=sent", "")
	assert.Contains(t, body, "your message was sent")
}

func TestContactMissingFields(t *testing.T) {
	env := newEnv(t, "")
	resp := postForm(t, env, "/contact", url.Values{"name": {"Grace"}})
	assert.Equal(t, "/contact?status=missing", resp.Header.Get("Location"))
	assert.Empty(t, env.notifier.msgs)
}

func TestContactInvalidEmail(t *testing.T) {
	env := newEnv(t, "")
	resp := postForm(t, env, "/contact", url.Values{
		"name":    {"Grace"},
		"email":   {"not-an-email"},
		"message": {"hi"},
	})
	assert.Equal(t, "/contact?status=invalid", resp.Header.Get("Location"))
	assert.Empty(t, env.notifier.msgs)

	_, body := env.get(t, "/contact?status=invalid", "")
	assert.Contains(t, body, "email address does not look right")
	assert.NotContains(t, body, "fill in every field")
}

func TestContactIgnoresUnknownStatus(t *testing.T) {
	env := newEnv(t, "")
	_, body := env.get(t, "/contact?status=%3Cscript%3E", "")
	assert.NotContains(t, body, "contact-status")
}

func TestContactRateLimited(t *testing.T) {
	env := newEnv(t, "")
	form := url.Values{"name": {"a"}, "email": {"a@b.c"}, "message": {"m"}}
	var last *http.Response
	for i := 0; i < 6; i++ {
		last = postForm(t, env, "/contact", form)
	}
	assert.Equal(t, "/contact?status=limited", last.Header.Get("Location"))
	assert.Len(t, env.notifier.msgs, 5)
}

func TestLoginLogoutMe(t *testing.T) {
	env := newEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"ada","password":"correct horse"}`))
	resp := env.do(t, req)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)

	me := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	me.AddCookie(cookies[0])
	resp = env.do(t, me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got meResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, meResp{ID: "u-ada", Username: "ada", DisplayName: "Ada", Role: users.RoleAdmin}, got)

	out := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	out.AddCookie(cookies[0])
	resp = env.do(t, out)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	require.Len(t, resp.Cookies(), 1)
	assert.Equal(t, "", resp.Cookies()[0].Value)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"ada","password":"nope"}`))
	assert.Equal(t, http.StatusUnauthorized, env.do(t, req).StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{`))
	assert.Equal(t, http.StatusBadRequest, env.do(t, req).StatusCode)
}

func TestLoginRateLimitIgnoresForwardedFor(t *testing.T) {
	env := newEnv(t, "")
	var resp *http.Response
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"username":"ada","password":"nope"}`))
		req.Header.Set("X-Forwarded-For", "198.51.100."+strconv.Itoa(i))
		resp = env.do(t, req)
	}
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestLoginRateLimitHonorsTrustedProxy(t *testing.T) {
	env := newEnv(t, "http:\n  trusted_proxies: [\"192.0.2.0/24\"]\n")
	var resp *http.Response
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"username":"ada","password":"nope"}`))
		req.Header.Set("X-Forwarded-For", "198.51.100."+strconv.Itoa(i))
		resp = env.do(t, req)
	}
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMeRequiresAuth(t *testing.T) {
	env := newEnv(t, "")
	resp, _ := env.get(t, "/api/v1/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBasePath(t *testing.T) {
	env := newEnv(t, "base_url: https://example.org/blog\n")

	resp, body := env.get(t, "/blog/about", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<a href="/blog/">Home</a>`)
	assert.Contains(t, body, `href="/blog/theme.css"`)

	resp, _ = env.get(t, "/blog/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthAndReady(t *testing.T) {
	env := newEnv(t, "")
	resp, body := env.get(t, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	cfg, err := config.FromReader(strings.NewReader(""))
	require.NoError(t, err)
	app, err := New(Deps{
		Config: cfg,
		Data:   env.store,
		Logger: logging.Discard(),
		Theme:  theme.Default(),
		Ready:  func(context.Context) error { return errors.New("db down") },
	})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewRejectsInvalidTheme(t *testing.T) {
	cfg, err := config.FromReader(strings.NewReader(""))
	require.NoError(t, err)
	th := theme.Default()
	th.PrimaryColor = "missing"
	_, err = New(Deps{Config: cfg, Theme: th})
	assert.Error(t, err)
}
