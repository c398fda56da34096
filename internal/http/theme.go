package http

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sync"

	"blogweb/internal/theme"
)

// ThemeHandler serves the stylesheet generated from the theme.
type ThemeHandler struct {
	Theme theme.Theme

	once sync.Once
	css  []byte
	etag string
}

func (h *ThemeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(func() {
		h.css = []byte(h.Theme.CSS())
		sum := sha256.Sum256(h.css)
		h.etag = `"` + hex.EncodeToString(sum[:8]) + `"`
	})
	w.Header().Set("ETag", h.etag)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if r.Header.Get("If-None-Match") == h.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(h.css)
}
