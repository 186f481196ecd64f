package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestTagCreate(t *testing.T) {
	t.Run("creates a tag", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.registerUser(t, "alice")

		rr := env.do(t, http.MethodPost, "/api/tags/", token, map[string]string{"name": "urgent"})
		require.Equal(t, http.StatusCreated, rr.Code)

		var tag tagJSON
		decode(t, rr, &tag)
		assert.Equal(t, "urgent", tag.Name)
		assert.NotEmpty(t, tag.ID)
	})

	t.Run("duplicate name for the same user is a field error", func(t *testing.T) {
		env := newTestEnv(t)
		userID, token := env.registerUser(t, "alice")
		env.seedTag(t, userID, "urgent")

		rr := env.do(t, http.MethodPost, "/api/tags/", token, map[string]string{"name": "urgent"})
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string][]string
		decode(t, rr, &fields)
		assert.Contains(t, fields, "name")
	})

	t.Run("different users may reuse a name", func(t *testing.T) {
		env := newTestEnv(t)
		bobID, _ := env.registerUser(t, "bob")
		env.seedTag(t, bobID, "urgent")
		_, token := env.registerUser(t, "alice")

		rr := env.do(t, http.MethodPost, "/api/tags/", token, map[string]string{"name": "urgent"})
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("requires a name", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.registerUser(t, "alice")

		rr := env.do(t, http.MethodPost, "/api/tags/", token, map[string]string{})
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string][]string
		decode(t, rr, &fields)
		assert.Contains(t, fields, "name")
	})
}

func TestTagList(t *testing.T) {
	t.Run("returns only the caller's tags sorted by name", func(t *testing.T) {
		env := newTestEnv(t)
		aliceID, token := env.registerUser(t, "alice")
		bobID, _ := env.registerUser(t, "bob")
		env.seedTag(t, aliceID, "work")
		env.seedTag(t, aliceID, "home")
		env.seedTag(t, bobID, "bob-only")

		rr := env.do(t, http.MethodGet, "/api/tags/", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var tags []tagJSON
		decode(t, rr, &tags)
		require.Len(t, tags, 2)
		assert.Equal(t, "home", tags[0].Name)
		assert.Equal(t, "work", tags[1].Name)
	})
}

func TestTagUpdate(t *testing.T) {
	t.Run("renames an owned tag", func(t *testing.T) {
		env := newTestEnv(t)
		userID, token := env.registerUser(t, "alice")
		tag := env.seedTag(t, userID, "urgent")

		rr := env.do(t, http.MethodPut, "/api/tags/"+tag.ID.String(), token, map[string]string{
			"name": "critical",
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var got tagJSON
		decode(t, rr, &got)
		assert.Equal(t, "critical", got.Name)
	})

	t.Run("renaming to an existing name is a field error", func(t *testing.T) {
		env := newTestEnv(t)
		userID, token := env.registerUser(t, "alice")
		env.seedTag(t, userID, "critical")
		tag := env.seedTag(t, userID, "urgent")

		rr := env.do(t, http.MethodPut, "/api/tags/"+tag.ID.String(), token, map[string]string{
			"name": "critical",
		})
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string][]string
		decode(t, rr, &fields)
		assert.Contains(t, fields, "name")
	})

	t.Run("patch renames an owned tag", func(t *testing.T) {
		env := newTestEnv(t)
		userID, token := env.registerUser(t, "alice")
		tag := env.seedTag(t, userID, "urgent")

		rr := env.do(t, http.MethodPatch, "/api/tags/"+tag.ID.String(), token, map[string]string{
			"name": "asap",
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var got tagJSON
		decode(t, rr, &got)
		assert.Equal(t, "asap", got.Name)
	})

	t.Run("someone else's tag looks missing", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.registerUser(t, "alice")
		bobID, _ := env.registerUser(t, "bob")
		tag := env.seedTag(t, bobID, "bobs")

		rr := env.do(t, http.MethodPut, "/api/tags/"+tag.ID.String(), token, map[string]string{
			"name": "hijacked",
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTagDelete(t *testing.T) {
	t.Run("removes an owned tag", func(t *testing.T) {
		env := newTestEnv(t)
		userID, token := env.registerUser(t, "alice")
		tag := env.seedTag(t, userID, "urgent")

		rr := env.do(t, http.MethodDelete, "/api/tags/"+tag.ID.String(), token, nil)
		require.Equal(t, http.StatusNoContent, rr.Code)

		rr = env.do(t, http.MethodGet, "/api/tags/"+tag.ID.String(), token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("someone else's tag looks missing", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.registerUser(t, "alice")
		bobID, _ := env.registerUser(t, "bob")
		tag := env.seedTag(t, bobID, "bobs")

		rr := env.do(t, http.MethodDelete, "/api/tags/"+tag.ID.String(), token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
