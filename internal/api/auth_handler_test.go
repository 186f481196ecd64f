package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerPayload(username string) map[string]interface{} {
	return map[string]interface{}{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "s3cret-password",
		"password_confirm": "s3cret-password",
		"first_name":       "Alice",
		"last_name":        "Smith",
	}
}

func TestRegister(t *testing.T) {
	t.Run("returns created user and token", func(t *testing.T) {
		env := newTestEnv(t)

		rr := env.do(t, http.MethodPost, "/api/auth/register", "", registerPayload("alice"))
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			User struct {
				Username string `json:"username"`
				Email    string `json:"email"`
			} `json:"user"`
			Token string `json:"token"`
		}
		decode(t, rr, &resp)

		assert.Equal(t, "alice", resp.User.Username)
		assert.Equal(t, "alice@example.com", resp.User.Email)
		assert.Len(t, resp.Token, 40)
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("token from registration authenticates requests", func(t *testing.T) {
		env := newTestEnv(t)

		rr := env.do(t, http.MethodPost, "/api/auth/register", "", registerPayload("alice"))
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			Token string `json:"token"`
		}
		decode(t, rr, &resp)

		rr = env.do(t, http.MethodGet, "/api/auth/me", resp.Token, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("password mismatch is a field error", func(t *testing.T) {
		env := newTestEnv(t)

		payload := registerPayload("alice")
		payload["password_confirm"] = "something-else"

		rr := env.do(t, http.MethodPost, "/api/auth/register", "", payload)
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string][]string
		decode(t, rr, &fields)
		assert.Contains(t, fields, "password")
	})

	t.Run("duplicate username is a field error", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerUser(t, "alice")

		rr := env.do(t, http.MethodPost, "/api/auth/register", "", registerPayload("alice"))
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string][]string
		decode(t, rr, &fields)
		assert.Contains(t, fields, "username")
	})

	t.Run("duplicate email is a field error", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerUser(t, "alice")

		payload := registerPayload("alicia")
		payload["email"] = "alice@example.com"

		rr := env.do(t, http.MethodPost, "/api/auth/register", "", payload)
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string][]string
		decode(t, rr, &fields)
		assert.Contains(t, fields, "email")
		assert.NotContains(t, fields, "username")
	})

	t.Run("missing fields are reported per field", func(t *testing.T) {
		env := newTestEnv(t)

		rr := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
			"username": "alice",
		})
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string][]string
		decode(t, rr, &fields)
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password")
	})

	t.Run("malformed email is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		payload := registerPayload("alice")
		payload["email"] = "not-an-email"

		rr := env.do(t, http.MethodPost, "/api/auth/register", "", payload)
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string][]string
		decode(t, rr, &fields)
		assert.Contains(t, fields, "email")
	})
}

func TestLogin(t *testing.T) {
	t.Run("returns token for valid credentials", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerUser(t, "alice")

		rr := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "alice",
			"password": "s3cret-password",
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Token string `json:"token"`
			User  struct {
				Username string `json:"username"`
			} `json:"user"`
		}
		decode(t, rr, &resp)

		assert.Len(t, resp.Token, 40)
		assert.Equal(t, "alice", resp.User.Username)
	})

	t.Run("repeat login returns the same token", func(t *testing.T) {
		env := newTestEnv(t)
		_, issued := env.registerUser(t, "alice")

		rr := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "alice",
			"password": "s3cret-password",
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Token string `json:"token"`
		}
		decode(t, rr, &resp)
		assert.Equal(t, issued, resp.Token)
	})

	t.Run("wrong password yields non field error", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerUser(t, "alice")

		rr := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "alice",
			"password": "wrong-password",
		})
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string][]string
		decode(t, rr, &fields)
		assert.Equal(t, []string{"Invalid credentials"}, fields["non_field_errors"])
	})

	t.Run("unknown username yields the same non field error", func(t *testing.T) {
		env := newTestEnv(t)

		rr := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "nobody",
			"password": "whatever-password",
		})
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string][]string
		decode(t, rr, &fields)
		assert.Equal(t, []string{"Invalid credentials"}, fields["non_field_errors"])
	})
}

func TestLogout(t *testing.T) {
	t.Run("invalidates the token", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.registerUser(t, "alice")

		rr := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
		require.Equal(t, http.StatusNoContent, rr.Code)

		rr = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		env := newTestEnv(t)

		rr := env.do(t, http.MethodPost, "/api/auth/logout", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("login after logout issues a fresh token", func(t *testing.T) {
		env := newTestEnv(t)
		_, token := env.registerUser(t, "alice")

		rr := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
		require.Equal(t, http.StatusNoContent, rr.Code)

		rr = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "alice",
			"password": "s3cret-password",
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Token string `json:"token"`
		}
		decode(t, rr, &resp)
		assert.NotEqual(t, token, resp.Token)
		assert.Len(t, resp.Token, 40)
	})
}

func TestMe(t *testing.T) {
	t.Run("returns the authenticated user", func(t *testing.T) {
		env := newTestEnv(t)
		userID, token := env.registerUser(t, "alice")

		rr := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		}
		decode(t, rr, &resp)
		assert.Equal(t, userID.String(), resp.ID)
		assert.Equal(t, "alice", resp.Username)
	})

	t.Run("requires authentication", func(t *testing.T) {
		env := newTestEnv(t)

		rr := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
