package session

import "context"

type ctxKey string

const (
	userKey ctxKey = "synapse.session.user"
	sidKey  ctxKey = "synapse.session.id"
)

// WithUser stores the signed-in user and its session id in context.
func WithUser(ctx context.Context, sid string, s UserSession) context.Context {
	ctx = context.WithValue(ctx, sidKey, sid)
	return context.WithValue(ctx, userKey, s)
}

// FromContext returns the signed-in user if present.
func FromContext(ctx context.Context) (UserSession, bool) {
	s, ok := ctx.Value(userKey).(UserSession)
	return s, ok && s.valid()
}

// IDFromContext returns the session id if present.
func IDFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sidKey).(string)
	return sid, ok && sid != ""
}
