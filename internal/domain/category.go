package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is assigned when a category is created without an
// explicit color.
const DefaultCategoryColor = "#FFFFFF"

// Common validation errors for Category
var (
	ErrEmptyCategoryID     = fmt.Errorf("%w: category ID cannot be empty", ErrValidation)
	ErrEmptyCategoryUserID = fmt.Errorf("%w: category user ID cannot be empty", ErrValidation)
	ErrEmptyCategoryName   = fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	ErrCategoryNameTooLong = fmt.Errorf("%w: category name must be at most 100 characters long", ErrValidation)
	ErrInvalidColor        = fmt.Errorf("%w: color must be a 7-character hex string like #1A2B3C", ErrValidation)
)

// Category groups a user's tasks. Deleting a category never deletes the
// tasks that reference it; their category reference is cleared instead.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCategory creates a new Category owned by the given user. An empty color
// falls back to DefaultCategoryColor. Returns an error if validation fails.
func NewCategory(userID uuid.UUID, name, color string) (*Category, error) {
	if color == "" {
		color = DefaultCategoryColor
	}

	category := &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
// Returns an error if any field fails validation.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCategoryID
	}

	if c.UserID == uuid.Nil {
		return ErrEmptyCategoryUserID
	}

	if c.Name == "" {
		return ErrEmptyCategoryName
	}
	if len(c.Name) > 100 {
		return ErrCategoryNameTooLong
	}

	if !IsValidHexColor(c.Color) {
		return ErrInvalidColor
	}

	return nil
}

// IsValidHexColor reports whether s is a "#RRGGBB" hex color string.
func IsValidHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
