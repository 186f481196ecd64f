package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskmaster/taskmaster-api/internal/api/shared"
	"github.com/taskmaster/taskmaster-api/internal/platform/logger"
	"github.com/taskmaster/taskmaster-api/internal/service/auth"
)

// AuthMiddleware handles authentication for protected routes.
type AuthMiddleware struct {
	tokenService auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given token service.
func NewAuthMiddleware(tokenService auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService}
}

// Authenticate validates the bearer token on incoming requests and stores
// the authenticated user's ID in the request context. Requests without a
// valid "Authorization: Token <key>" header are rejected with 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContextOrDefault(ctx, nil)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Debug("authentication failed: missing authorization header",
				"path", r.URL.Path)
			shared.RespondWithError(w, r, http.StatusUnauthorized,
				"Authentication credentials were not provided.")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || scheme != "Token" || token == "" {
			log.Debug("authentication failed: malformed authorization header",
				"path", r.URL.Path)
			shared.RespondWithError(w, r, http.StatusUnauthorized,
				"Invalid token header.")
			return
		}

		userID, err := m.tokenService.ValidateToken(ctx, token)
		if err != nil {
			log.Debug("authentication failed: invalid token",
				"error", err,
				"path", r.URL.Path)
			shared.RespondWithError(w, r, http.StatusUnauthorized,
				"Invalid token.")
			return
		}

		ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
