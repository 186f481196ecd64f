package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for AuthToken
var (
	ErrEmptyAuthToken       = fmt.Errorf("%w: auth token cannot be empty", ErrValidation)
	ErrEmptyAuthTokenUserID = fmt.Errorf("%w: auth token user ID cannot be empty", ErrValidation)
)

// AuthToken is the opaque bearer credential mapped 1:1 to a user. Its
// presence in the store is the sole proof of authorization; logging out
// deletes it, and a later login issues a fresh one.
type AuthToken struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks if the AuthToken has valid data.
func (t *AuthToken) Validate() error {
	if t.Token == "" {
		return ErrEmptyAuthToken
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyAuthTokenUserID
	}

	return nil
}
