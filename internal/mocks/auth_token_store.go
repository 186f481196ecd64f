package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// MockAuthTokenStore is a configurable mock implementation of
// store.AuthTokenStore.
type MockAuthTokenStore struct {
	CreateFn         func(ctx context.Context, token *domain.AuthToken) error
	GetByTokenFn     func(ctx context.Context, token string) (*domain.AuthToken, error)
	GetByUserIDFn    func(ctx context.Context, userID uuid.UUID) (*domain.AuthToken, error)
	DeleteByUserIDFn func(ctx context.Context, userID uuid.UUID) error

	tokens map[string]*domain.AuthToken
}

var _ store.AuthTokenStore = (*MockAuthTokenStore)(nil)

// NewMockAuthTokenStore creates a MockAuthTokenStore backed by an empty
// in-memory map.
func NewMockAuthTokenStore() *MockAuthTokenStore {
	return &MockAuthTokenStore{tokens: make(map[string]*domain.AuthToken)}
}

// Create calls CreateFn if set, otherwise stores the token in memory.
func (m *MockAuthTokenStore) Create(ctx context.Context, token *domain.AuthToken) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, token)
	}
	for _, existing := range m.tokens {
		if existing.UserID == token.UserID {
			return store.ErrDuplicate
		}
	}
	m.tokens[token.Token] = token
	return nil
}

// GetByToken calls GetByTokenFn if set, otherwise reads from memory.
func (m *MockAuthTokenStore) GetByToken(ctx context.Context, token string) (*domain.AuthToken, error) {
	if m.GetByTokenFn != nil {
		return m.GetByTokenFn(ctx, token)
	}
	record, ok := m.tokens[token]
	if !ok {
		return nil, store.ErrTokenNotFound
	}
	return record, nil
}

// GetByUserID calls GetByUserIDFn if set, otherwise reads from memory.
func (m *MockAuthTokenStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AuthToken, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	for _, record := range m.tokens {
		if record.UserID == userID {
			return record, nil
		}
	}
	return nil, store.ErrTokenNotFound
}

// DeleteByUserID calls DeleteByUserIDFn if set, otherwise removes the
// user's token from memory. Missing tokens are not an error.
func (m *MockAuthTokenStore) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteByUserIDFn != nil {
		return m.DeleteByUserIDFn(ctx, userID)
	}
	for key, record := range m.tokens {
		if record.UserID == userID {
			delete(m.tokens, key)
		}
	}
	return nil
}
