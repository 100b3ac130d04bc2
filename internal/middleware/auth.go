package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/flashdeck/flashdeck/internal/models"
	apierrors "github.com/flashdeck/flashdeck/internal/pkg/errors"
	"github.com/flashdeck/flashdeck/internal/pkg/response"
	"github.com/flashdeck/flashdeck/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserKey is the context key for the authenticated user.
const UserKey contextKey = "user"

// RequireAuth returns a middleware that resolves the Bearer token to a
// user and rejects the request when it can't.
func RequireAuth(auth service.AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Error(w, apierrors.ErrUnauthorized)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				response.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns a middleware that attempts authentication but
// doesn't require it. Routes behind it see an anonymous request when no
// valid token is presented.
func OptionalAuth(auth service.AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if user, err := auth.Authenticate(r.Context(), token); err == nil {
					ctx := context.WithValue(r.Context(), UserKey, user)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser retrieves the authenticated user from context, or nil for an
// anonymous request.
func GetUser(ctx context.Context) *models.User {
	if v := ctx.Value(UserKey); v != nil {
		return v.(*models.User)
	}
	return nil
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}
