package api

import (
	"errors"
	"net/http"

	"github.com/taskmaster/taskmaster-api/internal/api/shared"
	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/platform/logger"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// TagHandler handles tag CRUD.
type TagHandler struct {
	tagStore store.TagStore
}

// NewTagHandler creates a new TagHandler with its dependencies.
func NewTagHandler(tagStore store.TagStore) *TagHandler {
	return &TagHandler{tagStore: tagStore}
}

// List returns the authenticated user's tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	tags, err := h.tagStore.List(ctx, userID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tags)
}

// Create creates a new tag for the authenticated user. Tag names are
// unique per user.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, nil)

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	var req TagRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := shared.ValidateRequest(req); errs != nil {
		RespondWithFieldErrors(w, r, ValidationFieldErrors(errs))
		return
	}

	tag, err := domain.NewTag(userID, req.Name)
	if err != nil {
		HandleServiceError(w, r, err, "Invalid tag data.")
		return
	}

	if err := h.tagStore.Create(ctx, tag); err != nil {
		if errors.Is(err, store.ErrTagNameExists) {
			RespondWithFieldErrors(w, r, FieldErrors{
				"name": {"A tag with that name already exists."},
			})
			return
		}
		HandleServiceError(w, r, err, "")
		return
	}

	log.Info("tag created", "user_id", userID, "tag_id", tag.ID)

	shared.RespondWithJSON(w, r, http.StatusCreated, tag)
}

// Get returns one of the authenticated user's tags.
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	tagID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	tag, err := h.tagStore.GetByID(ctx, userID, tagID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tag)
}

// Update renames one of the authenticated user's tags.
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	tagID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	var req TagRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := shared.ValidateRequest(req); errs != nil {
		RespondWithFieldErrors(w, r, ValidationFieldErrors(errs))
		return
	}

	tag, err := h.tagStore.GetByID(ctx, userID, tagID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	tag.Name = req.Name

	if err := h.tagStore.Update(ctx, tag); err != nil {
		if errors.Is(err, store.ErrTagNameExists) {
			RespondWithFieldErrors(w, r, FieldErrors{
				"name": {"A tag with that name already exists."},
			})
			return
		}
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tag)
}

// PartialUpdate renames one of the authenticated user's tags when a name
// is provided; an empty body changes nothing.
func (h *TagHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	tagID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	var req PatchTagRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := shared.ValidateRequest(req); errs != nil {
		RespondWithFieldErrors(w, r, ValidationFieldErrors(errs))
		return
	}

	tag, err := h.tagStore.GetByID(ctx, userID, tagID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			RespondWithFieldErrors(w, r, FieldErrors{"name": {"This field may not be blank."}})
			return
		}
		tag.Name = *req.Name

		if err := h.tagStore.Update(ctx, tag); err != nil {
			if errors.Is(err, store.ErrTagNameExists) {
				RespondWithFieldErrors(w, r, FieldErrors{
					"name": {"A tag with that name already exists."},
				})
				return
			}
			HandleServiceError(w, r, err, "")
			return
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tag)
}

// Delete removes one of the authenticated user's tags, detaching it from
// any tasks.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	tagID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	if err := h.tagStore.Delete(ctx, userID, tagID); err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(ctx, nil).Info("tag deleted",
		"user_id", userID,
		"tag_id", tagID)

	w.WriteHeader(http.StatusNoContent)
}
