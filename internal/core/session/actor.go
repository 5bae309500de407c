// Package session carries the authenticated viewer through a request context.
// Authentication itself happens upstream; this package only transports the result.
package session

import (
	"context"
	"errors"
)

// ErrUnauthenticated indicates an operation needs a viewer and none is present.
var ErrUnauthenticated = errors.New("authentication required")

type contextKey string

const actorIDKey contextKey = "actor_id"

// WithActor returns a context carrying actorID. An empty ID leaves ctx unchanged.
func WithActor(ctx context.Context, actorID string) context.Context {
	if actorID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorIDKey, actorID)
}

// ActorID returns the viewer stored in ctx, if any.
func ActorID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actorIDKey).(string)
	return id, ok && id != ""
}

// RequireActor returns the viewer or ErrUnauthenticated.
func RequireActor(ctx context.Context) (string, error) {
	id, ok := ActorID(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	return id, nil
}
