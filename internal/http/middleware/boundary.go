package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"blogweb/internal/logging"
)

// Fallback renders the page shown instead of a failed one.
type Fallback func(w http.ResponseWriter, r *http.Request, cause error)

// Boundary recovers any panic raised below it and hands it to fallback.
// Handlers buffer their output, so nothing has been written when a render
// panics. http.ErrAbortHandler is re-raised.
func Boundary(fallback Fallback) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				cause, ok := rec.(error)
				if !ok {
					cause = fmt.Errorf("panic: %v", rec)
				}
				logging.From(r.Context()).Error("boundary.recovered",
					"err", cause,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				fallback(w, r, cause)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
