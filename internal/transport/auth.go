package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type userKey struct{}

// UserResolver resolves a user ID from a bearer token.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (string, error)
}

// UserFromContext returns the user ID from context, if present.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userKey{}).(string)
	return userID, ok
}

// WithUser returns a context carrying userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				writeErrorBody(w, http.StatusUnauthorized, apiError{Code: "UNAUTHORIZED", Message: "missing bearer token"})
				return
			}

			userID, err := resolver.ResolveUser(r.Context(), token)
			if err != nil || userID == "" {
				writeErrorBody(w, http.StatusUnauthorized, apiError{Code: "UNAUTHORIZED", Message: "invalid bearer token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}

// StaticUserMiddleware attributes every request to userID. It is used when
// authentication is disabled.
func StaticUserMiddleware(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}
