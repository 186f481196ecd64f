package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	t.Parallel()

	columns := map[string]string{
		"name":       "c.name",
		"created_at": "c.created_at",
	}
	const def = "c.name ASC"

	t.Run("empty ordering uses the default", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, def, orderClause("", columns, def))
	})

	t.Run("bare field orders ascending", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "c.created_at ASC", orderClause("created_at", columns, def))
	})

	t.Run("dash prefix orders descending", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "c.name DESC", orderClause("-name", columns, def))
	})

	t.Run("unknown field falls back to the default", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, def, orderClause("password", columns, def))
	})

	t.Run("injection attempts never reach the clause", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, def, orderClause("name; DROP TABLE users", columns, def))
	})
}
