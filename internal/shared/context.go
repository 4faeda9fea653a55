package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// PrincipalFromContext extracts the authenticated principal from the
// request session, or nil when anonymous.
func PrincipalFromContext(ctx context.Context) *Principal {
	sess := SessionFromContext(ctx)
	if sess == nil {
		return nil
	}
	return sess.Principal()
}

// TokenFromContext extracts the upstream bearer token from the request
// session, or "" when anonymous.
func TokenFromContext(ctx context.Context) string {
	sess := SessionFromContext(ctx)
	if sess == nil {
		return ""
	}
	return sess.Token()
}

// ActorIDFromContext returns the principal's identifier for audit entries,
// or "" when anonymous.
func ActorIDFromContext(ctx context.Context) string {
	p := PrincipalFromContext(ctx)
	if p == nil {
		return ""
	}
	return p.ID
}
