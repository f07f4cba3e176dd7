package httpx

import (
	"context"
	"slices"
)

// Principal is the authenticated identity established for a single request.
// It lives only in the request context and is discarded when the request
// completes. Roles are derived from the store at validation time, not taken
// from token claims.
type Principal struct {
	UserID   string
	Username string
	Roles    []string
}

// HasRole reports whether the principal carries the given authority.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

// ContextWithPrincipal attaches an authenticated principal to the request
// context for downstream handlers.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// PrincipalFromContext returns the principal established for this request,
// if any. A request that passed the gate unauthenticated yields ok=false.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok
}
