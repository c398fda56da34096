package middleware

import (
	"context"
	"net/http"
)

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID{}, id)
}

// RequestID is the id RequestLogger assigned, or "".
func RequestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxRequestID{}).(string)
	return id
}
