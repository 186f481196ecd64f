package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/mocks"
	"github.com/taskmaster/taskmaster-api/internal/service/auth"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

func TestIssueToken(t *testing.T) {
	t.Parallel()

	t.Run("issues a 40 character key for a new user", func(t *testing.T) {
		t.Parallel()

		tokens := mocks.NewMockAuthTokenStore()
		service := auth.NewTokenService(tokens, nil)

		key, err := service.IssueToken(context.Background(), uuid.New())
		require.NoError(t, err)

		assert.Len(t, key, 40)
	})

	t.Run("reuses the existing token on repeat logins", func(t *testing.T) {
		t.Parallel()

		tokens := mocks.NewMockAuthTokenStore()
		service := auth.NewTokenService(tokens, nil)
		userID := uuid.New()

		first, err := service.IssueToken(context.Background(), userID)
		require.NoError(t, err)

		second, err := service.IssueToken(context.Background(), userID)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("recovers the winning token after a create race", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		lookups := 0

		tokens := mocks.NewMockAuthTokenStore()
		tokens.GetByUserIDFn = func(ctx context.Context, id uuid.UUID) (*domain.AuthToken, error) {
			lookups++
			if lookups == 1 {
				// First lookup sees no token, then a concurrent login wins.
				return nil, store.ErrTokenNotFound
			}
			return &domain.AuthToken{Token: "winner-token", UserID: id}, nil
		}
		tokens.CreateFn = func(ctx context.Context, token *domain.AuthToken) error {
			return store.ErrDuplicate
		}

		service := auth.NewTokenService(tokens, nil)

		key, err := service.IssueToken(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "winner-token", key)
	})

	t.Run("distinct users receive distinct keys", func(t *testing.T) {
		t.Parallel()

		tokens := mocks.NewMockAuthTokenStore()
		service := auth.NewTokenService(tokens, nil)

		first, err := service.IssueToken(context.Background(), uuid.New())
		require.NoError(t, err)
		second, err := service.IssueToken(context.Background(), uuid.New())
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	t.Run("resolves a valid token to its owner", func(t *testing.T) {
		t.Parallel()

		tokens := mocks.NewMockAuthTokenStore()
		service := auth.NewTokenService(tokens, nil)
		userID := uuid.New()

		key, err := service.IssueToken(context.Background(), userID)
		require.NoError(t, err)

		resolved, err := service.ValidateToken(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, userID, resolved)
	})

	t.Run("rejects empty token", func(t *testing.T) {
		t.Parallel()

		service := auth.NewTokenService(mocks.NewMockAuthTokenStore(), nil)

		_, err := service.ValidateToken(context.Background(), "")
		assert.ErrorIs(t, err, auth.ErrMissingToken)
	})

	t.Run("rejects unknown token", func(t *testing.T) {
		t.Parallel()

		service := auth.NewTokenService(mocks.NewMockAuthTokenStore(), nil)

		_, err := service.ValidateToken(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestRevokeToken(t *testing.T) {
	t.Parallel()

	t.Run("revoked token no longer validates", func(t *testing.T) {
		t.Parallel()

		tokens := mocks.NewMockAuthTokenStore()
		service := auth.NewTokenService(tokens, nil)
		userID := uuid.New()

		key, err := service.IssueToken(context.Background(), userID)
		require.NoError(t, err)

		require.NoError(t, service.RevokeToken(context.Background(), userID))

		_, err = service.ValidateToken(context.Background(), key)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("revoking a user without a token is not an error", func(t *testing.T) {
		t.Parallel()

		service := auth.NewTokenService(mocks.NewMockAuthTokenStore(), nil)

		assert.NoError(t, service.RevokeToken(context.Background(), uuid.New()))
	})
}
