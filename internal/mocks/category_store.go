package mocks

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// MockCategoryStore is a configurable mock implementation of
// store.CategoryStore.
type MockCategoryStore struct {
	CreateFn  func(ctx context.Context, category *domain.Category) error
	GetByIDFn func(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error)
	ListFn    func(ctx context.Context, userID uuid.UUID, opts store.CategoryListOptions) ([]*domain.Category, error)
	UpdateFn  func(ctx context.Context, category *domain.Category) error
	DeleteFn  func(ctx context.Context, userID, id uuid.UUID) error

	categories map[uuid.UUID]*domain.Category
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

// NewMockCategoryStore creates a MockCategoryStore backed by an empty
// in-memory map.
func NewMockCategoryStore() *MockCategoryStore {
	return &MockCategoryStore{categories: make(map[uuid.UUID]*domain.Category)}
}

// Create calls CreateFn if set, otherwise stores the category in memory.
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

// GetByID calls GetByIDFn if set, otherwise reads from memory with
// ownership scoping.
func (m *MockCategoryStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	category, ok := m.categories[id]
	if !ok || category.UserID != userID {
		return nil, store.ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

// List calls ListFn if set, otherwise filters the in-memory categories.
func (m *MockCategoryStore) List(ctx context.Context, userID uuid.UUID, opts store.CategoryListOptions) ([]*domain.Category, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, opts)
	}
	matched := []*domain.Category{}
	for _, category := range m.categories {
		if category.UserID != userID {
			continue
		}
		if opts.Search != "" &&
			!strings.Contains(strings.ToLower(category.Name), strings.ToLower(opts.Search)) {
			continue
		}
		copied := *category
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, nil
}

// Update calls UpdateFn if set, otherwise overwrites the stored category.
func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, category)
	}
	existing, ok := m.categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return store.ErrCategoryNotFound
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

// Delete calls DeleteFn if set, otherwise removes the category from memory.
func (m *MockCategoryStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	category, ok := m.categories[id]
	if !ok || category.UserID != userID {
		return store.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}
