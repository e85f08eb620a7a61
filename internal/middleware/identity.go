// Package middleware provides HTTP middlewares for identity and logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/moodkeeper/MoodKeeper/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// publicPaths are reachable without an identity header so new users can
// sign up and confirm.
var publicPaths = map[string]bool{
	"/api/register": true,
	"/api/confirm":  true,
	"/api/resend":   true,
	"/api/login":    true,
}

// Identity enforces the X-User-Email header set by the upstream auth
// provider (an external collaborator with a fixed session contract). The
// email is normalized to an identifier-safe user key and stored in the
// request context for downstream handlers.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		email := r.Header.Get("X-User-Email")
		if email == "" {
			http.Error(w, "user identity required", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, models.UserKey(email))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserKeyFromContext extracts the normalized user key from the request
// context. Returns an empty string if not found.
func GetUserKeyFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
