package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/blogem/time-tracker/models"
	"github.com/blogem/time-tracker/userctx"
)

// TokenParser verifies API bearer tokens
type TokenParser interface {
	Parse(token string) (*models.Identity, error)
}

// RequireToken authenticates API requests from the Authorization header
func RequireToken(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			identity, err := parser.Parse(strings.TrimSpace(token))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := userctx.SetIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdminToken rejects API callers without the admin role
func RequireAdminToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !userctx.GetIdentity(r.Context()).IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
