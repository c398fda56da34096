package middleware

import (
	"net/http"

	"blogweb/internal/data"
)

// WithData makes client available to everything below it via data.From.
func WithData(client data.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(data.WithClient(r.Context(), client)))
		})
	}
}
