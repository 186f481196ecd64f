package mocks

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// MockTagStore is a configurable mock implementation of store.TagStore.
type MockTagStore struct {
	CreateFn   func(ctx context.Context, tag *domain.Tag) error
	GetByIDFn  func(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error)
	GetByIDsFn func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.Tag, error)
	ListFn     func(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error)
	UpdateFn   func(ctx context.Context, tag *domain.Tag) error
	DeleteFn   func(ctx context.Context, userID, id uuid.UUID) error

	tags map[uuid.UUID]*domain.Tag
}

var _ store.TagStore = (*MockTagStore)(nil)

// NewMockTagStore creates a MockTagStore backed by an empty in-memory map.
func NewMockTagStore() *MockTagStore {
	return &MockTagStore{tags: make(map[uuid.UUID]*domain.Tag)}
}

// Create calls CreateFn if set, otherwise stores the tag in memory,
// enforcing per-user name uniqueness.
func (m *MockTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tag)
	}
	for _, existing := range m.tags {
		if existing.UserID == tag.UserID && existing.Name == tag.Name {
			return store.ErrTagNameExists
		}
	}
	copied := *tag
	m.tags[tag.ID] = &copied
	return nil
}

// GetByID calls GetByIDFn if set, otherwise reads from memory with
// ownership scoping.
func (m *MockTagStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tag, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	tag, ok := m.tags[id]
	if !ok || tag.UserID != userID {
		return nil, store.ErrTagNotFound
	}
	copied := *tag
	return &copied, nil
}

// GetByIDs calls GetByIDsFn if set, otherwise returns the subset of ids
// owned by the user.
func (m *MockTagStore) GetByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.Tag, error) {
	if m.GetByIDsFn != nil {
		return m.GetByIDsFn(ctx, userID, ids)
	}
	found := []*domain.Tag{}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if tag, ok := m.tags[id]; ok && tag.UserID == userID {
			copied := *tag
			found = append(found, &copied)
		}
	}
	return found, nil
}

// List calls ListFn if set, otherwise returns the user's tags sorted by
// name.
func (m *MockTagStore) List(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID)
	}
	matched := []*domain.Tag{}
	for _, tag := range m.tags {
		if tag.UserID != userID {
			continue
		}
		copied := *tag
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, nil
}

// Update calls UpdateFn if set, otherwise overwrites the stored tag,
// enforcing per-user name uniqueness.
func (m *MockTagStore) Update(ctx context.Context, tag *domain.Tag) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, tag)
	}
	existing, ok := m.tags[tag.ID]
	if !ok || existing.UserID != tag.UserID {
		return store.ErrTagNotFound
	}
	for _, other := range m.tags {
		if other.ID != tag.ID && other.UserID == tag.UserID && other.Name == tag.Name {
			return store.ErrTagNameExists
		}
	}
	copied := *tag
	m.tags[tag.ID] = &copied
	return nil
}

// Delete calls DeleteFn if set, otherwise removes the tag from memory.
func (m *MockTagStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	tag, ok := m.tags[id]
	if !ok || tag.UserID != userID {
		return store.ErrTagNotFound
	}
	delete(m.tags, id)
	return nil
}
