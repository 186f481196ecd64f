package store_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskmaster/taskmaster-api/internal/store"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	t.Run("entity not-found errors wrap the generic sentinel", func(t *testing.T) {
		t.Parallel()

		for _, err := range []error{
			store.ErrUserNotFound,
			store.ErrTaskNotFound,
			store.ErrCategoryNotFound,
			store.ErrTagNotFound,
			store.ErrTokenNotFound,
		} {
			assert.True(t, store.IsNotFoundError(err), "%v", err)
			assert.False(t, store.IsDuplicateError(err), "%v", err)
		}
	})

	t.Run("duplicate errors wrap the generic sentinel", func(t *testing.T) {
		t.Parallel()

		for _, err := range []error{
			store.ErrUsernameExists,
			store.ErrEmailExists,
			store.ErrTagNameExists,
		} {
			assert.True(t, store.IsDuplicateError(err), "%v", err)
			assert.False(t, store.IsNotFoundError(err), "%v", err)
		}
	})

	t.Run("classification survives further wrapping", func(t *testing.T) {
		t.Parallel()

		wrapped := fmt.Errorf("loading task: %w", store.ErrTaskNotFound)
		assert.True(t, store.IsNotFoundError(wrapped))
	})
}
