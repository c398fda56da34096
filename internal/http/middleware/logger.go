package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"blogweb/internal/logging"
)

const RequestIDHeader = "X-Request-ID"

type ctxRequestID struct{}

// RequestLogger attaches a request id and a request-scoped logger, then logs
// one line per request.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			l := base.With("request_id", id)
			ctx := logging.WithLogger(r.Context(), l)
			ctx = contextWithRequestID(ctx, id)

			ww := &wrapWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r.WithContext(ctx))
			l.Info("http.request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.status,
				"size", ww.size,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type wrapWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *wrapWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *wrapWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}
