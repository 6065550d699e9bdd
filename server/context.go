package server

import (
	"context"

	"github.com/localrivet/storefront/types"
)

type sessionKey struct{}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session types.ClientSession) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session handling the current request, if any.
func SessionFromContext(ctx context.Context) (types.ClientSession, bool) {
	session, ok := ctx.Value(sessionKey{}).(types.ClientSession)
	return session, ok && session != nil
}

// SessionIDFromContext returns the current session id, or "" outside a request.
func SessionIDFromContext(ctx context.Context) string {
	if session, ok := SessionFromContext(ctx); ok {
		return session.SessionID()
	}
	return ""
}
