package auth

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"funnel/internal/models"
	"funnel/internal/scope"
)

// RequireAuth checks Authorization: Bearer <token>, resolves the acting
// identity and puts it on the context. Anything less is 401 before any
// domain query runs.
func RequireAuth(store UserStore, tokens *TokenIssuer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const p = "Bearer "
			raw := r.Header.Get("Authorization")
			if !strings.HasPrefix(raw, p) {
				models.WriteProblem(w, http.StatusUnauthorized,
					"Unauthorized", "missing bearer token", nil)
				return
			}
			userID, err := tokens.Parse(strings.TrimPrefix(raw, p))
			if err != nil {
				models.WriteProblem(w, http.StatusUnauthorized,
					"Unauthorized", "invalid or expired token", nil)
				return
			}
			id, err := store.FindIdentity(r.Context(), userID)
			if err != nil || id == nil {
				models.WriteProblem(w, http.StatusUnauthorized,
					"Unauthorized", "unknown identity", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *id)))
		})
	}
}

// RequireOrganisor is RequireAuth plus the organisor-role gate used by all
// tenant-administration operations.
func RequireOrganisor(store UserStore, tokens *TokenIssuer) mux.MiddlewareFunc {
	authed := RequireAuth(store, tokens)
	return func(next http.Handler) http.Handler {
		return authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r)
			if !ok || id.Role != scope.RoleOrganisor {
				models.WriteProblem(w, http.StatusForbidden,
					"Forbidden", "organisor role required", nil)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
