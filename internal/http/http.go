package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"blogweb/internal/config"
	"blogweb/internal/content"
	"blogweb/internal/data"
	"blogweb/internal/http/middleware"
	"blogweb/internal/nav"
	"blogweb/internal/notify"
	"blogweb/internal/routes"
	"blogweb/internal/theme"
	"blogweb/internal/web"
	"blogweb/resources"
)

// Deps are the collaborators the web client is composed from.
type Deps struct {
	Config   *config.Config
	Data     data.Client
	Notifier notify.Notifier
	Logger   *slog.Logger
	Theme    theme.Theme
	// Ready reports whether backing services are reachable; nil means always ready.
	Ready func(ctx context.Context) error
}

// App is the application shell: the route table plus everything wrapped
// around it.
type App struct {
	Site *Site
	Mux  *http.ServeMux
	deps Deps
}

func New(d Deps) (*App, error) {
	if d.Notifier == nil {
		d.Notifier = notify.Noop{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if err := d.Theme.Validate(); err != nil {
		return nil, err
	}

	rend, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	pages, err := content.Load()
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}

	proxies, err := middleware.ParseTrustedProxies(d.Config.HTTP.TrustedProxies)
	if err != nil {
		return nil, err
	}

	rt := routes.New(d.Config.BasePath())
	site := &Site{
		TPL:    rend,
		Routes: rt,
		Tabs:   nav.Blog(rt),
		Meta:   d.Config.Site,
	}
	base := rt.Base()

	mux := http.NewServeMux()
	mux.Handle("GET "+rt.Home()+"{$}", &StaticPageHandler{Site: site, Pages: pages, Slug: "home"})
	mux.Handle("GET "+rt.About(), &StaticPageHandler{Site: site, Pages: pages, Slug: "about"})
	contactLimiter := middleware.NewRateLimiter(5, 10*time.Minute)
	contactLimiter.Proxies = proxies
	contact := &ContactHandler{
		Site:     site,
		Pages:    pages,
		Notifier: d.Notifier,
		Limiter:  contactLimiter,
	}
	mux.Handle("GET "+rt.Contact(), contact)
	mux.Handle("POST "+rt.Contact(), contact)

	mux.Handle("GET "+base+"/theme.css", &ThemeHandler{Theme: d.Theme})
	mux.Handle("GET "+base+"/static/", http.StripPrefix(base+"/static/", http.FileServerFS(resources.FS)))

	mux.HandleFunc("GET "+base+"/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET "+base+"/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	loginLimiter.Proxies = proxies
	ah := &AuthHandler{
		Users:         d.Data,
		Table:         rt,
		LoginLimiter:  loginLimiter,
		SecureCookies: d.Config.Security.SecureCookies,
	}
	ah.Routes(mux, base)

	mux.HandleFunc("/", site.NotFound)

	return &App{Site: site, Mux: mux, deps: d}, nil
}

// Handler composes the shell around the routes: request logging, the error
// boundary, security headers, then the data and auth contexts.
func (a *App) Handler() http.Handler {
	var h http.Handler = a.Mux
	h = middleware.WithAuth(h)
	h = middleware.WithData(a.deps.Data)(h)
	h = securityHeaders(h)
	h = middleware.Boundary(a.Site.Fatal)(h)
	h = middleware.RequestLogger(a.deps.Logger)(h)
	return h
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
