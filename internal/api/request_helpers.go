package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskmaster/taskmaster-api/internal/api/shared"
	"github.com/taskmaster/taskmaster-api/internal/domain"
)

// getUserIDFromContext extracts the authenticated user's ID from the
// request context. The auth middleware guarantees its presence on
// protected routes; a missing value indicates a routing bug.
func getUserIDFromContext(r *http.Request) (uuid.UUID, error) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in request context: %w", domain.ErrUnauthorized)
	}
	return userID, nil
}

// getPathUUID parses the named URL parameter as a UUID.
func getPathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s %q", domain.ErrInvalidID, param, raw)
	}
	return id, nil
}
