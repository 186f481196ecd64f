package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Tag
var (
	ErrEmptyTagID     = fmt.Errorf("%w: tag ID cannot be empty", ErrValidation)
	ErrEmptyTagUserID = fmt.Errorf("%w: tag user ID cannot be empty", ErrValidation)
	ErrEmptyTagName   = fmt.Errorf("%w: tag name cannot be empty", ErrValidation)
	ErrTagNameTooLong = fmt.Errorf("%w: tag name must be at most 50 characters long", ErrValidation)
)

// Tag is a user-scoped label attached to tasks through association rows.
// Tag names are unique per owner; different users may reuse the same name.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTag creates a new Tag owned by the given user.
// Returns an error if validation fails.
func NewTag(userID uuid.UUID, name string) (*Tag, error) {
	tag := &Tag{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := tag.Validate(); err != nil {
		return nil, err
	}

	return tag, nil
}

// Validate checks if the Tag has valid data.
// Returns an error if any field fails validation.
func (t *Tag) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTagID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTagUserID
	}

	if t.Name == "" {
		return ErrEmptyTagName
	}
	if len(t.Name) > 50 {
		return ErrTagNameTooLong
	}

	return nil
}
