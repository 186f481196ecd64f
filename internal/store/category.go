package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskmaster/taskmaster-api/internal/domain"
)

// CategoryListOptions narrows and orders a category listing.
type CategoryListOptions struct {
	// Search filters by case-insensitive substring match on the name.
	Search string

	// Ordering is one of "name" or "created_at", optionally prefixed with
	// "-" for descending order. Empty means name ascending.
	Ordering string
}

// CategoryStore defines the interface for category data persistence.
// Every operation is scoped to the owning user; a category owned by someone
// else behaves exactly like a missing one.
type CategoryStore interface {
	// Create saves a new category to the store.
	// Returns validation errors from the domain Category if data is invalid.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves one of the user's categories by ID.
	// Returns ErrCategoryNotFound if it does not exist or is not theirs.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error)

	// List returns the user's categories, filtered and ordered per opts.
	List(ctx context.Context, userID uuid.UUID, opts CategoryListOptions) ([]*domain.Category, error)

	// Update saves changes to one of the user's categories.
	// Returns ErrCategoryNotFound if it does not exist or is not theirs.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes one of the user's categories. Tasks referencing it get
	// their category reference cleared in the same transaction; the tasks
	// themselves are never deleted.
	// Returns ErrCategoryNotFound if it does not exist or is not theirs.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
