package api

import (
	"errors"
	"net/http"

	"github.com/taskmaster/taskmaster-api/internal/api/shared"
	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/platform/logger"
	"github.com/taskmaster/taskmaster-api/internal/service/auth"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// AuthHandler handles registration, login, logout and the current-user
// endpoint.
type AuthHandler struct {
	userStore        store.UserStore
	tokenService     auth.TokenService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
}

// NewAuthHandler creates a new AuthHandler with its dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	tokenService auth.TokenService,
	passwordHasher auth.PasswordHasher,
	passwordVerifier auth.PasswordVerifier,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		tokenService:     tokenService,
		passwordHasher:   passwordHasher,
		passwordVerifier: passwordVerifier,
	}
}

// Register creates a new user account and returns the user together with
// an authentication token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, nil)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := shared.ValidateRequest(req); errs != nil {
		RespondWithFieldErrors(w, r, ValidationFieldErrors(errs))
		return
	}

	if req.Password != req.PasswordConfirm {
		RespondWithFieldErrors(w, r, FieldErrors{
			"password": {"Password fields didn't match."},
		})
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		HandleServiceError(w, r, err, "Invalid registration data.")
		return
	}

	hashed, err := h.passwordHasher.Hash(req.Password)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := h.userStore.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameExists):
			RespondWithFieldErrors(w, r, FieldErrors{
				"username": {"A user with that username already exists."},
			})
		case errors.Is(err, store.ErrEmailExists):
			RespondWithFieldErrors(w, r, FieldErrors{
				"email": {"A user with that email already exists."},
			})
		default:
			HandleServiceError(w, r, err, "")
		}
		return
	}

	token, err := h.tokenService.IssueToken(ctx, user.ID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	log.Info("user registered", "user_id", user.ID)

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		User:  NewUserResponse(user),
		Token: token,
	})
}

// Login verifies the submitted credentials and returns the user's token,
// issuing a new one if none exists yet.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, nil)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := shared.ValidateRequest(req); errs != nil {
		RespondWithFieldErrors(w, r, ValidationFieldErrors(errs))
		return
	}

	user, err := h.userStore.GetByUsername(ctx, req.Username)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login failed: unknown username", "username", req.Username)
			RespondWithNonFieldError(w, r, "Invalid credentials")
			return
		}
		HandleServiceError(w, r, err, "")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		log.Debug("login failed: password mismatch", "user_id", user.ID)
		RespondWithNonFieldError(w, r, "Invalid credentials")
		return
	}

	token, err := h.tokenService.IssueToken(ctx, user.ID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	log.Info("user logged in", "user_id", user.ID)

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:  NewUserResponse(user),
		Token: token,
	})
}

// Logout revokes the authenticated user's token. Logging out twice is
// harmless.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	if err := h.tokenService.RevokeToken(ctx, userID); err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(ctx, nil).Info("user logged out", "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	user, err := h.userStore.GetByID(ctx, userID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}
