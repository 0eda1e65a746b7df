package auth

import "context"

// Principal identifies the authenticated caller of a request.
type Principal struct {
	// Sub is the identity-provider subject claim.
	Sub string
	// Token is the raw bearer token the caller presented.
	Token string
}

type ctxKey struct{}

// WithPrincipal stores the authenticated principal on the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok && p.Sub != ""
}
