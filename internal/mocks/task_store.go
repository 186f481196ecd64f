package mocks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// MockTaskStore is a configurable mock implementation of store.TaskStore.
// The in-memory default honors ownership scoping, tag OR-filtering and the
// natural priority ordering well enough for handler tests.
type MockTaskStore struct {
	CreateFn       func(ctx context.Context, task *domain.Task) error
	GetByIDFn      func(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)
	ListFn         func(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)
	UpdateFn       func(ctx context.Context, task *domain.Task) error
	UpdateStatusFn func(ctx context.Context, userID, id uuid.UUID, status domain.TaskStatus) (*domain.Task, error)
	DeleteFn       func(ctx context.Context, userID, id uuid.UUID) error

	tasks map[uuid.UUID]*domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a MockTaskStore backed by an empty in-memory map.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

// Create calls CreateFn if set, otherwise stores the task in memory.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

// GetByID calls GetByIDFn if set, otherwise reads from memory with
// ownership scoping.
func (m *MockTaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

// List calls ListFn if set, otherwise filters the in-memory tasks.
func (m *MockTaskStore) List(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, filter)
	}

	matched := []*domain.Task{}
	for _, task := range m.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if filter.CategoryID != nil {
			if task.CategoryID == nil || *task.CategoryID != *filter.CategoryID {
				continue
			}
		}
		if len(filter.TagIDs) > 0 && !hasAnyTag(task, filter.TagIDs) {
			continue
		}
		if filter.Search != "" && !matchesSearch(task, filter.Search) {
			continue
		}
		copied := *task
		matched = append(matched, &copied)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return naturalTaskLess(matched[i], matched[j])
	})

	return matched, nil
}

// Update calls UpdateFn if set, otherwise overwrites the stored task.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	existing, ok := m.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

// UpdateStatus calls UpdateStatusFn if set, otherwise updates the stored
// task's status in memory.
func (m *MockTaskStore) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.TaskStatus) (*domain.Task, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, userID, id, status)
	}
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	task.Status = status
	task.UpdatedAt = time.Now().UTC()
	copied := *task
	return &copied, nil
}

// Delete calls DeleteFn if set, otherwise removes the task from memory.
func (m *MockTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func hasAnyTag(task *domain.Task, tagIDs []uuid.UUID) bool {
	for _, want := range tagIDs {
		for _, have := range task.TagIDs {
			if want == have {
				return true
			}
		}
	}
	return false
}

func matchesSearch(task *domain.Task, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(task.Title), needle) ||
		strings.Contains(strings.ToLower(task.Description), needle)
}

var priorityRank = map[domain.TaskPriority]int{
	domain.TaskPriorityHigh:   3,
	domain.TaskPriorityMedium: 2,
	domain.TaskPriorityLow:    1,
}

// naturalTaskLess orders by priority high to low, then due date ascending
// with unset dates last, then title.
func naturalTaskLess(a, b *domain.Task) bool {
	if priorityRank[a.Priority] != priorityRank[b.Priority] {
		return priorityRank[a.Priority] > priorityRank[b.Priority]
	}
	switch {
	case a.DueDate == nil && b.DueDate != nil:
		return false
	case a.DueDate != nil && b.DueDate == nil:
		return true
	case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
		return a.DueDate.Before(*b.DueDate)
	}
	return a.Title < b.Title
}
