package auth

import (
	"context"
	"net/http"

	"funnel/internal/scope"
)

type identityKey struct{}

// WithIdentity stores the resolved acting identity on the context.
func WithIdentity(ctx context.Context, id scope.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the acting identity placed on the request by
// RequireAuth. ok is false on unguarded routes.
func IdentityFrom(r *http.Request) (scope.Identity, bool) {
	id, ok := r.Context().Value(identityKey{}).(scope.Identity)
	return id, ok
}
