package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the workflow state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusArchived   TaskStatus = "archived"
)

// TaskPriority represents the urgency of a task
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID       = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskUserID   = fmt.Errorf("%w: task user ID cannot be empty", ErrValidation)
	ErrEmptyTaskTitle    = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrTaskTitleTooLong  = fmt.Errorf("%w: task title must be at most 200 characters long", ErrValidation)
	ErrInvalidTaskStatus = fmt.Errorf("%w: invalid status value", ErrValidation)
	ErrInvalidPriority   = fmt.Errorf("%w: invalid priority value", ErrValidation)
)

// Task is the central entity of the system. Every task belongs to exactly
// one user and is invisible to all others. A task may reference one of the
// owner's categories and carry any number of the owner's tags.
//
// CategoryName and CategoryColor are read-only annotations populated by the
// store when the task references a category; they are never written back.
type Task struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"user_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Status        TaskStatus   `json:"status"`
	Priority      TaskPriority `json:"priority"`
	DueDate       *time.Time   `json:"due_date"`
	CategoryID    *uuid.UUID   `json:"category"`
	CategoryName  *string      `json:"category_name"`
	CategoryColor *string      `json:"category_color"`
	TagIDs        []uuid.UUID  `json:"tag_ids"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewTask creates a new Task with the given owner and title. Status defaults
// to pending and priority to medium. Returns an error if validation fails.
func NewTask(userID uuid.UUID, title string) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Status:    TaskStatusPending,
		Priority:  TaskPriorityMedium,
		TagIDs:    []uuid.UUID{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if len(t.Title) > 200 {
		return ErrTaskTitleTooLong
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if !IsValidTaskPriority(t.Priority) {
		return ErrInvalidPriority
	}

	return nil
}

// UpdateStatus updates the task's status and bumps the UpdatedAt timestamp.
// Returns an error if the new status is invalid; the task is left unchanged
// in that case.
func (t *Task) UpdateStatus(status TaskStatus) error {
	if !IsValidTaskStatus(status) {
		return ErrInvalidTaskStatus
	}

	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// IsValidTaskStatus checks if the given status is a valid TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusArchived:
		return true
	default:
		return false
	}
}

// IsValidTaskPriority checks if the given priority is a valid TaskPriority.
func IsValidTaskPriority(priority TaskPriority) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}
