package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmaster/taskmaster-api/internal/service/auth"
)

func TestBcryptHasherAndVerifier(t *testing.T) {
	t.Parallel()

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	verifier := auth.NewBcryptVerifier()

	t.Run("hash verifies against original password", func(t *testing.T) {
		t.Parallel()

		hash, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery staple", hash)

		assert.NoError(t, verifier.Compare(hash, "correct horse battery staple"))
	})

	t.Run("wrong password fails comparison", func(t *testing.T) {
		t.Parallel()

		hash, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)

		assert.Error(t, verifier.Compare(hash, "incorrect horse"))
	})

	t.Run("out of range cost falls back to default", func(t *testing.T) {
		t.Parallel()

		fallback := auth.NewBcryptHasher(99)
		hash, err := fallback.Hash("password123")
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
	})
}
