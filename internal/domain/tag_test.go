package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/taskmaster-api/internal/domain"
)

func TestNewTag(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("creates tag with valid data", func(t *testing.T) {
		t.Parallel()

		tag, err := domain.NewTag(userID, "urgent")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, tag.ID)
		assert.Equal(t, userID, tag.UserID)
		assert.Equal(t, "urgent", tag.Name)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewTag(userID, "")
		assert.ErrorIs(t, err, domain.ErrEmptyTagName)
	})

	t.Run("rejects name over 50 characters", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewTag(userID, strings.Repeat("t", 51))
		assert.ErrorIs(t, err, domain.ErrTagNameTooLong)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewTag(uuid.Nil, "urgent")
		assert.ErrorIs(t, err, domain.ErrEmptyTagUserID)
	})
}
