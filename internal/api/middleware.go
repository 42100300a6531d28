// Package api implements the mindcare REST API using chi.
package api

import (
	"net/http"
	"strings"

	"github.com/starford/mindcare/internal/auth"
)

// AuthMiddleware returns middleware that resolves the caller's identity.
// With a nil verifier every request runs as auth.LocalIdentity (disabled mode).
// Otherwise requests must carry a valid "Authorization: Bearer <jwt>" header.
func AuthMiddleware(v *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil {
				next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), auth.LocalIdentity)))
				return
			}
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody("Access denied. No token provided."))
				return
			}
			id, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody("Invalid token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// identity returns the caller resolved by AuthMiddleware.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}
