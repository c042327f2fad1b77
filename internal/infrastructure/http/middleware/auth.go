package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lista-app/lista/internal/application/auth"
	"github.com/lista-app/lista/internal/infrastructure/http/response"
)

type contextKey string

const userIDKey contextKey = "auth.user_id"

// UserID extracts the authenticated user id from the request context.
// Returns "" when the request skipped the auth middleware.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID injects a user id into the context. Exposed for handler tests.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Auth is HTTP middleware for bearer-token authentication.
type Auth struct {
	authService *auth.Service
}

// NewAuth creates a new auth middleware.
func NewAuth(authService *auth.Service) *Auth {
	return &Auth{authService: authService}
}

// Validate is a Chi middleware that validates session tokens from the
// Authorization header. Expects format: "Authorization: Bearer <token>".
func (a *Auth) Validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			slog.WarnContext(r.Context(), "authentication failed: missing Authorization header",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "missing Authorization header")
			return
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			slog.WarnContext(r.Context(), "authentication failed: invalid Authorization header format",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "invalid Authorization header format, expected: Bearer <token>")
			return
		}

		userID, err := a.authService.Authenticate(r.Context(), token)
		if err != nil {
			slog.WarnContext(r.Context(), "authentication failed: invalid or expired token",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}
