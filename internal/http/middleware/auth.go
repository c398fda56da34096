package middleware

import (
	"context"
	"errors"
	"net/http"

	"blogweb/internal/auth"
	"blogweb/internal/data"
	"blogweb/internal/logging"
	"blogweb/internal/users"
)

type ctxKey string

const CtxSession ctxKey = "session"

// WithAuth resolves the session cookie into an auth.Session. The user is
// loaded through the data client, so this must sit inside WithData.
func WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess auth.Session
		if c, err := r.Cookie(auth.CookieName); err == nil && c.Value != "" {
			if uid, err := auth.ParseToken(c.Value); err == nil && uid != "" {
				sess = auth.Session{Authenticated: true, UserID: uid}
				sess.User = loadUser(r.Context(), uid)
			}
		}
		ctx := context.WithValue(r.Context(), CtxSession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loadUser(ctx context.Context, uid string) *users.User {
	client := data.From(ctx)
	if client == nil {
		return nil
	}
	u, err := client.ByID(ctx, uid)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			logging.From(ctx).Warn("auth.load_user", "err", err)
		}
		return nil
	}
	return u
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid := UserID(r); uid != "" {
			next.ServeHTTP(w, r)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// Session returns the request's session; the zero Session when anonymous.
func Session(r *http.Request) auth.Session {
	s, _ := r.Context().Value(CtxSession).(auth.Session)
	return s
}

func UserID(r *http.Request) string {
	return Session(r).UserID
}
