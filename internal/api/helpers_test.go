package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmaster/taskmaster-api/internal/api"
	"github.com/taskmaster/taskmaster-api/internal/api/middleware"
	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/mocks"
	"github.com/taskmaster/taskmaster-api/internal/service/auth"
)

// testEnv wires handlers, mock stores and the auth middleware into a
// router mirroring the production routes.
type testEnv struct {
	users      *mocks.MockUserStore
	tokens     *mocks.MockAuthTokenStore
	tasks      *mocks.MockTaskStore
	categories *mocks.MockCategoryStore
	tags       *mocks.MockTagStore

	tokenService auth.TokenService
	router       http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:      mocks.NewMockUserStore(),
		tokens:     mocks.NewMockAuthTokenStore(),
		tasks:      mocks.NewMockTaskStore(),
		categories: mocks.NewMockCategoryStore(),
		tags:       mocks.NewMockTagStore(),
	}
	env.tokenService = auth.NewTokenService(env.tokens, nil)

	authHandler := api.NewAuthHandler(
		env.users,
		env.tokenService,
		auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewBcryptVerifier(),
	)
	taskHandler := api.NewTaskHandler(env.tasks, env.categories, env.tags)
	categoryHandler := api.NewCategoryHandler(env.categories)
	tagHandler := api.NewTagHandler(env.tags)
	authMiddleware := middleware.NewAuthMiddleware(env.tokenService)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/{id}", taskHandler.Get)
				r.Put("/{id}", taskHandler.Update)
				r.Patch("/{id}", taskHandler.PartialUpdate)
				r.Delete("/{id}", taskHandler.Delete)
				r.Post("/{id}/change_status", taskHandler.ChangeStatus)
			})
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.List)
				r.Post("/", categoryHandler.Create)
				r.Get("/{id}", categoryHandler.Get)
				r.Put("/{id}", categoryHandler.Update)
				r.Patch("/{id}", categoryHandler.PartialUpdate)
				r.Delete("/{id}", categoryHandler.Delete)
			})
			r.Route("/tags", func(r chi.Router) {
				r.Get("/", tagHandler.List)
				r.Post("/", tagHandler.Create)
				r.Get("/{id}", tagHandler.Get)
				r.Put("/{id}", tagHandler.Update)
				r.Patch("/{id}", tagHandler.PartialUpdate)
				r.Delete("/{id}", tagHandler.Delete)
			})
		})
	})
	env.router = r

	return env
}

// registerUser creates a user directly in the store and returns their ID
// together with a valid token.
func (env *testEnv) registerUser(t *testing.T, username string) (uuid.UUID, string) {
	t.Helper()

	user, err := domain.NewUser(username, username+"@example.com", "s3cret-password", "", "")
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
	require.NoError(t, err)
	user.HashedPassword = string(hash)
	user.Password = ""

	require.NoError(t, env.users.Create(context.Background(), user))

	token, err := env.tokenService.IssueToken(context.Background(), user.ID)
	require.NoError(t, err)

	return user.ID, token
}

// do executes a request against the test router. A non-empty token is
// attached as the Authorization header; a non-nil body is JSON encoded.
func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a recorded JSON response body into dst.
func decode(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst))
}
