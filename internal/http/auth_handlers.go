package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"blogweb/internal/auth"
	"blogweb/internal/http/middleware"
	"blogweb/internal/logging"
	"blogweb/internal/routes"
	"blogweb/internal/users"
)

// AuthHandler is the authentication collaborator's HTTP surface: login,
// the LogOut action and the current user.
type AuthHandler struct {
	Users         users.Store
	Table         *routes.Table
	LoginLimiter  *middleware.RateLimiter
	SecureCookies bool
}

func (h *AuthHandler) Routes(mux *http.ServeMux, base string) {
	mux.Handle("POST "+base+"/api/v1/auth/login", h.LoginLimiter.Limit(http.HandlerFunc(h.Login)))
	mux.HandleFunc("POST "+base+"/api/v1/auth/logout", h.Logout)
	mux.Handle("GET "+base+"/api/v1/auth/me", middleware.RequireAuth(http.HandlerFunc(h.Me)))
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type meResp struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		http.Error(w, "missing credentials", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, passHash, err := h.Users.Credentials(ctx, req.Username)
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		logging.From(ctx).Error("auth.login_lookup", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err != nil || !auth.CheckPassword(req.Password, passHash) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.IssueToken(u.ID)
	if err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}
	auth.SetCookie(w, token, h.SecureCookies)
	logging.From(ctx).Info("auth.login", "user_id", u.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.Session(r).LogOut(w, h.SecureCookies)
	http.Redirect(w, r, h.Table.Home(), http.StatusSeeOther)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := middleware.Session(r).CurrentUser()
	if u == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(meResp{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	})
}
