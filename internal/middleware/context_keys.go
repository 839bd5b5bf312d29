package middleware

import (
	"context"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
)

// contextKey is a private type for context keys to prevent collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	actorCtxKey  = contextKey("actor")
)

// GetActorFromCtx retrieves the authenticated actor from the request context.
// It returns the actor and a boolean indicating if it was found.
func GetActorFromCtx(ctx context.Context) (domain.Actor, bool) {
	actorVal := ctx.Value(actorCtxKey)
	if actorVal == nil {
		return domain.Actor{}, false
	}
	actor, ok := actorVal.(domain.Actor)
	return actor, ok
}

// WithActor returns a context carrying the authenticated actor.
// Exposed for tests that exercise handlers without the auth middleware.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey, actor)
}
