package auth

import (
	"net/http"
	"time"

	"blogweb/internal/users"
)

// CookieName is the session cookie.
const CookieName = "session"

// Session is the visitor's authentication state for one request.
// Authenticated can be true with a nil User when the token is valid but the
// account could not be loaded.
type Session struct {
	Authenticated bool
	UserID        string
	User          *users.User
}

func (s Session) IsAuthenticated() bool { return s.Authenticated }

func (s Session) CurrentUser() *users.User { return s.User }

// LogOut ends the session by expiring the cookie.
func (s Session) LogOut(w http.ResponseWriter, secure bool) {
	ClearCookie(w, secure)
}

func SetCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(TokenTTL),
	})
}

func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
