package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/kinotes/kinotes/pkg/slogx"
)

// Authenticator turns a raw bearer token into a Principal. Implementations
// verify the token and load the identity from durable storage; any failure
// returns an error and no principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}

// OptionalAuthn is the per-request authentication gate. It never rejects a
// request: a missing, malformed, expired or forged token simply leaves the
// request unauthenticated, and downstream authorization decides whether the
// resource requires a principal. Failures are logged so silent token problems
// stay observable.
func OptionalAuthn(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			// A principal may already be established by an outer gate.
			if _, ok := PrincipalFromContext(ctx); ok {
				next.ServeHTTP(w, r)
				return
			}

			p, err := a.Authenticate(ctx, raw)
			if err != nil {
				log.Warn("bearer token rejected, continuing unauthenticated", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx = ContextWithPrincipal(ctx, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
