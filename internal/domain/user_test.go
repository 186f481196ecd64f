package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/taskmaster-api/internal/domain"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("creates user with valid data", func(t *testing.T) {
		t.Parallel()

		user, err := domain.NewUser("alice", "alice@example.com", "s3cret-password", "Alice", "Smith")
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice", user.FirstName)
		assert.Equal(t, "Smith", user.LastName)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("rejects empty username", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewUser("", "alice@example.com", "s3cret-password", "", "")
		assert.ErrorIs(t, err, domain.ErrEmptyUsername)
	})

	t.Run("rejects username over 150 characters", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewUser(strings.Repeat("a", 151), "alice@example.com", "s3cret-password", "", "")
		assert.ErrorIs(t, err, domain.ErrUsernameTooLong)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewUser("alice", "not-an-email", "s3cret-password", "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("rejects password over bcrypt limit", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewUser("alice", "alice@example.com", strings.Repeat("p", 73), "", "")
		assert.ErrorIs(t, err, domain.ErrPasswordTooLong)
	})

	t.Run("validation errors wrap the validation sentinel", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewUser("", "alice@example.com", "s3cret-password", "", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
