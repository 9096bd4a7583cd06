package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/guild/pkg/jwtx"
	"github.com/aussiebroadwan/guild/pkg/slogx"
)

type ctxKey string

const (
	ctxKeyActor ctxKey = "actor"
)

// Actor is the authenticated caller behind a request.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == jwtx.RoleAdmin }

// WithActor stores the actor on ctx.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, a)
}

// ActorFrom returns the actor set by AuthnMiddleware, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKeyActor).(Actor)
	return a, ok && a.UserID != ""
}

func loggerFrom(r *http.Request) *slog.Logger {
	return slogx.FromContext(r.Context())
}
