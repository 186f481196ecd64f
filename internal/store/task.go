package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskmaster/taskmaster-api/internal/domain"
)

// TaskFilter narrows and orders a task listing. Nil pointer fields are
// ignored; zero-length TagIDs means no tag filtering.
type TaskFilter struct {
	// Status matches tasks with exactly this status.
	Status *domain.TaskStatus

	// Priority matches tasks with exactly this priority.
	Priority *domain.TaskPriority

	// CategoryID matches tasks referencing exactly this category.
	CategoryID *uuid.UUID

	// TagIDs matches tasks carrying at least one of these tags (logical OR).
	// A task matching several of them still appears once.
	TagIDs []uuid.UUID

	// Search filters by case-insensitive substring match on title or
	// description.
	Search string

	// Ordering is one of "title", "due_date", "priority", "status" or
	// "created_at", optionally prefixed with "-" for descending order.
	// Empty means the natural ordering: priority high→low, then due date
	// ascending with unset dates last, then title.
	Ordering string
}

// TaskStore defines the interface for task data persistence.
// Every operation is scoped to the owning user; a task owned by someone
// else behaves exactly like a missing one.
type TaskStore interface {
	// Create saves a new task together with its tag associations in one
	// transaction. The task's TagIDs must already be verified as owned by
	// the user.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves one of the user's tasks by ID, including its tag IDs
	// and category annotations.
	// Returns ErrTaskNotFound if it does not exist or is not theirs.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// List returns the user's tasks matching the filter, each at most once.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Update saves changes to one of the user's tasks and replaces its tag
	// associations wholesale with the task's TagIDs, all in one transaction.
	// Returns ErrTaskNotFound if it does not exist or is not theirs.
	Update(ctx context.Context, task *domain.Task) error

	// UpdateStatus updates the status of one of the user's tasks and bumps
	// its updated_at timestamp. The status must already be validated.
	// Returns ErrTaskNotFound if it does not exist or is not theirs.
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// Delete removes one of the user's tasks and its association rows.
	// Returns ErrTaskNotFound if it does not exist or is not theirs.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
