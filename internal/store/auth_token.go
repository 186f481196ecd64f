package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskmaster/taskmaster-api/internal/domain"
)

// AuthTokenStore defines the interface for opaque bearer token persistence.
// A user holds at most one token at a time.
type AuthTokenStore interface {
	// Create saves a new token for a user.
	// Returns ErrDuplicate if the user already holds a token.
	Create(ctx context.Context, token *domain.AuthToken) error

	// GetByToken retrieves a token record by its opaque key.
	// Returns ErrTokenNotFound if the token is unknown.
	GetByToken(ctx context.Context, token string) (*domain.AuthToken, error)

	// GetByUserID retrieves the token held by the given user.
	// Returns ErrTokenNotFound if the user holds no token.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AuthToken, error)

	// DeleteByUserID removes the user's token if one exists. Deleting a
	// token that does not exist is not an error; logout is idempotent.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
