package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/taskmaster-api/internal/domain"
)

// RegisterRequest holds the data for user registration.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,max=150"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
}

// LoginRequest holds the data for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the user representation returned by the API. It never
// carries password material.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse converts a domain user into its API representation.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}

// AuthResponse is returned on successful registration and login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// CreateTaskRequest holds the data for creating a task.
type CreateTaskRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description"`
	Status      *string      `json:"status"`
	Priority    *string      `json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	CategoryID  *uuid.UUID   `json:"category"`
	TagIDs      *[]uuid.UUID `json:"tag_ids"`
}

// UpdateTaskRequest holds the data for a full task update. Title is
// required; omitted optional fields reset to their defaults except for
// tag associations, which are left untouched when tag_ids is absent.
type UpdateTaskRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description"`
	Status      *string      `json:"status"`
	Priority    *string      `json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	CategoryID  *uuid.UUID   `json:"category"`
	TagIDs      *[]uuid.UUID `json:"tag_ids"`
}

// PatchTaskRequest holds the data for a partial task update. Every field
// is optional; only provided fields are applied.
type PatchTaskRequest struct {
	Title       *string      `json:"title" validate:"omitempty,max=200"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	Priority    *string      `json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	CategoryID  *uuid.UUID   `json:"category"`
	TagIDs      *[]uuid.UUID `json:"tag_ids"`
}

// ChangeStatusRequest holds the data for a task status transition.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CategoryRequest holds the data for creating or updating a category.
type CategoryRequest struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Color *string `json:"color"`
}

// PatchCategoryRequest holds the data for a partial category update.
type PatchCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Color *string `json:"color"`
}

// TagRequest holds the data for creating or updating a tag.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// PatchTagRequest holds the data for a partial tag update.
type PatchTagRequest struct {
	Name *string `json:"name" validate:"omitempty,max=50"`
}
