package middleware

import (
	"context"

	"github.com/urbandrive/storefront/internal/session"
)

type contextKey string

const ctxSession contextKey = "session"

// sessionContainer pairs the mutable state with the id it was loaded under.
// An empty id means the browser has no session yet; Save mints one.
type sessionContainer struct {
	state *session.State
	id    string
}

func withSession(ctx context.Context, container *sessionContainer) context.Context {
	return context.WithValue(ctx, ctxSession, container)
}

func sessionFromContext(ctx context.Context) *sessionContainer {
	if ctx == nil {
		return nil
	}
	if container, ok := ctx.Value(ctxSession).(*sessionContainer); ok {
		return container
	}
	return nil
}

// SessionState returns the request's session state. Handlers behind the
// session loader always get a non-nil state.
func SessionState(ctx context.Context) *session.State {
	if container := sessionFromContext(ctx); container != nil {
		return container.state
	}
	return &session.State{}
}
