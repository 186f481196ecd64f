package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskmaster/taskmaster-api/internal/domain"
)

// TagStore defines the interface for tag data persistence.
// Every operation is scoped to the owning user.
type TagStore interface {
	// Create saves a new tag to the store.
	// Returns ErrTagNameExists if the user already owns a tag with that name.
	// Returns validation errors from the domain Tag if data is invalid.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByID retrieves one of the user's tags by ID.
	// Returns ErrTagNotFound if it does not exist or is not theirs.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error)

	// GetByIDs retrieves the subset of ids that are tags owned by the user.
	// Callers use a length mismatch to detect references to foreign or
	// unknown tags.
	GetByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.Tag, error)

	// List returns the user's tags ordered by name.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error)

	// Update saves changes to one of the user's tags.
	// Returns ErrTagNotFound if it does not exist or is not theirs.
	// Returns ErrTagNameExists when renaming to a name the user already uses.
	Update(ctx context.Context, tag *domain.Tag) error

	// Delete removes one of the user's tags together with its task
	// association rows. The tasks themselves are untouched.
	// Returns ErrTagNotFound if it does not exist or is not theirs.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
