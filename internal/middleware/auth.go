package middleware

import (
	"context"
	"net/http"
	"strings"

	"bankweb/internal/auth"
	"bankweb/internal/domain"
	"bankweb/internal/service"
)

type ctxKey string

const userKey ctxKey = "user"

// GetUser extracts the authenticated user from context. It is nil on
// unauthenticated requests.
func GetUser(ctx context.Context) *domain.User {
	u, ok := ctx.Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return u
}

// WithUser returns a context carrying the user. Exported for handler tests.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// Auth returns middleware that verifies the bearer token and loads the
// authenticated user into the request context.
func Auth(tokens *auth.TokenManager, users *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr := strings.TrimPrefix(header, "Bearer ")
			if header == "" || tokenStr == header {
				http.Error(w, "authorization required", http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
