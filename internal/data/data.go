// Package data carries the request's data client through the context, so
// anything below the shell can reach the store without it being threaded
// through every handler.
package data

import (
	"context"

	"blogweb/internal/users"
)

// Client is what the web layer may read.
type Client interface {
	users.Store
}

type ctxKey struct{}

func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// From returns the client attached to ctx, or nil.
func From(ctx context.Context) Client {
	c, _ := ctx.Value(ctxKey{}).(Client)
	return c
}
