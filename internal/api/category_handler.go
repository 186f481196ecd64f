package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/taskmaster/taskmaster-api/internal/api/shared"
	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/platform/logger"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// CategoryHandler handles category CRUD.
type CategoryHandler struct {
	categoryStore store.CategoryStore
}

// NewCategoryHandler creates a new CategoryHandler with its dependencies.
func NewCategoryHandler(categoryStore store.CategoryStore) *CategoryHandler {
	return &CategoryHandler{categoryStore: categoryStore}
}

// List returns the authenticated user's categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	opts := store.CategoryListOptions{
		Search:   r.URL.Query().Get("search"),
		Ordering: r.URL.Query().Get("ordering"),
	}

	categories, err := h.categoryStore.List(ctx, userID, opts)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// Create creates a new category for the authenticated user.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, nil)

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	var req CategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := shared.ValidateRequest(req); errs != nil {
		RespondWithFieldErrors(w, r, ValidationFieldErrors(errs))
		return
	}

	color := domain.DefaultCategoryColor
	if req.Color != nil {
		color = *req.Color
	}

	category, err := domain.NewCategory(userID, req.Name, color)
	if err != nil {
		if colorErrs := colorFieldErrors(err); colorErrs != nil {
			RespondWithFieldErrors(w, r, colorErrs)
			return
		}
		HandleServiceError(w, r, err, "Invalid category data.")
		return
	}

	if err := h.categoryStore.Create(ctx, category); err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	log.Info("category created", "user_id", userID, "category_id", category.ID)

	shared.RespondWithJSON(w, r, http.StatusCreated, category)
}

// Get returns one of the authenticated user's categories.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	categoryID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	category, err := h.categoryStore.GetByID(ctx, userID, categoryID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, category)
}

// Update modifies one of the authenticated user's categories.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	categoryID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	var req CategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := shared.ValidateRequest(req); errs != nil {
		RespondWithFieldErrors(w, r, ValidationFieldErrors(errs))
		return
	}

	category, err := h.categoryStore.GetByID(ctx, userID, categoryID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	// Full update: an omitted color falls back to the default rather than
	// keeping its current value.
	category.Name = req.Name
	category.Color = domain.DefaultCategoryColor
	if req.Color != nil {
		if !domain.IsValidHexColor(*req.Color) {
			RespondWithFieldErrors(w, r, FieldErrors{
				"color": {"Color must be a hex value like #RRGGBB."},
			})
			return
		}
		category.Color = *req.Color
	}
	category.UpdatedAt = time.Now().UTC()

	if err := h.categoryStore.Update(ctx, category); err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, category)
}

// PartialUpdate applies only the provided fields to one of the
// authenticated user's categories.
func (h *CategoryHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	categoryID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	var req PatchCategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := shared.ValidateRequest(req); errs != nil {
		RespondWithFieldErrors(w, r, ValidationFieldErrors(errs))
		return
	}

	category, err := h.categoryStore.GetByID(ctx, userID, categoryID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			RespondWithFieldErrors(w, r, FieldErrors{"name": {"This field may not be blank."}})
			return
		}
		category.Name = *req.Name
	}
	if req.Color != nil {
		if !domain.IsValidHexColor(*req.Color) {
			RespondWithFieldErrors(w, r, FieldErrors{
				"color": {"Color must be a hex value like #RRGGBB."},
			})
			return
		}
		category.Color = *req.Color
	}
	category.UpdatedAt = time.Now().UTC()

	if err := h.categoryStore.Update(ctx, category); err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, category)
}

// Delete removes one of the authenticated user's categories. Tasks that
// referenced it survive with their category cleared.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	categoryID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	if err := h.categoryStore.Delete(ctx, userID, categoryID); err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(ctx, nil).Info("category deleted",
		"user_id", userID,
		"category_id", categoryID)

	w.WriteHeader(http.StatusNoContent)
}

// colorFieldErrors maps a category color validation error to a field
// error, or returns nil for other errors.
func colorFieldErrors(err error) FieldErrors {
	if errors.Is(err, domain.ErrInvalidColor) {
		return FieldErrors{"color": {"Color must be a hex value like #RRGGBB."}}
	}
	return nil
}
