// Package mocks provides hand-written test doubles for the store
// interfaces. Each mock exposes function fields; tests override only the
// calls they care about, and unset fields fall back to a simple in-memory
// default.
package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// MockUserStore is a configurable mock implementation of store.UserStore.
type MockUserStore struct {
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	DeleteFn        func(ctx context.Context, id uuid.UUID) error

	users map[uuid.UUID]*domain.User
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a MockUserStore backed by an empty in-memory map.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

// Create calls CreateFn if set, otherwise stores the user in memory.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.users[user.ID] = user
	return nil
}

// GetByID calls GetByIDFn if set, otherwise reads from memory.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetByUsername calls GetByUsernameFn if set, otherwise reads from memory.
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Delete calls DeleteFn if set, otherwise removes the user from memory.
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// WithTx returns the mock unchanged; transactions are a no-op in tests.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
