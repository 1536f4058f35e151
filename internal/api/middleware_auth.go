package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/daylog/daylog-backend/internal/api/respond"
	"github.com/daylog/daylog-backend/internal/auth"
	"github.com/daylog/daylog-backend/internal/services"
)

type ctxKey int

const userIDKey ctxKey = 0

// UserID returns the authenticated user's ID stored by the auth middleware.
// The second return is false on unauthenticated requests.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// authMiddleware resolves the bearer token to a user and stores the user ID
// in the request context. Unknown tokens get 401; tokens for accounts that
// no longer exist get 401 as well.
func authMiddleware(az auth.Authorizer, users *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			email, err := az.Authorize(r.Context(), token)
			if err != nil {
				respond.WriteUnauthorized(w, "invalid or missing token")
				return
			}
			u, err := users.GetByEmail(r.Context(), email)
			if err != nil {
				respond.WriteUnauthorized(w, "unknown account")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, u.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if strings.HasPrefix(h, prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
