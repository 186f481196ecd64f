package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/taskmaster-api/internal/api/shared"
	"github.com/taskmaster/taskmaster-api/internal/domain"
	"github.com/taskmaster/taskmaster-api/internal/platform/logger"
	"github.com/taskmaster/taskmaster-api/internal/store"
)

// TaskHandler handles task CRUD, filtering and status transitions.
type TaskHandler struct {
	taskStore     store.TaskStore
	categoryStore store.CategoryStore
	tagStore      store.TagStore
}

// NewTaskHandler creates a new TaskHandler with its dependencies.
func NewTaskHandler(
	taskStore store.TaskStore,
	categoryStore store.CategoryStore,
	tagStore store.TagStore,
) *TaskHandler {
	return &TaskHandler{
		taskStore:     taskStore,
		categoryStore: categoryStore,
		tagStore:      tagStore,
	}
}

// List returns the authenticated user's tasks, filtered and ordered per
// query parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		HandleServiceError(w, r, err, "Invalid filter parameters.")
		return
	}

	tasks, err := h.taskStore.List(ctx, userID, filter)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// parseTaskFilter builds a task filter from the request's query string.
// Unknown ordering fields fall through to the store's default ordering;
// malformed enum values and UUIDs are rejected.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	query := r.URL.Query()
	filter := store.TaskFilter{
		Search:   query.Get("search"),
		Ordering: query.Get("ordering"),
	}

	if raw := query.Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if !domain.IsValidTaskStatus(status) {
			return filter, domain.NewValidationError("status", "Invalid status value", domain.ErrValidation)
		}
		filter.Status = &status
	}

	if raw := query.Get("priority"); raw != "" {
		priority := domain.TaskPriority(raw)
		if !domain.IsValidTaskPriority(priority) {
			return filter, domain.NewValidationError("priority", "Invalid priority value", domain.ErrValidation)
		}
		filter.Priority = &priority
	}

	if raw := query.Get("category"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return filter, domain.NewValidationError("category", "Invalid category ID", domain.ErrInvalidID)
		}
		filter.CategoryID = &categoryID
	}

	if raw := query.Get("tags"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			tagID, err := uuid.Parse(part)
			if err != nil {
				return filter, domain.NewValidationError("tags", "Invalid tag ID", domain.ErrInvalidID)
			}
			filter.TagIDs = append(filter.TagIDs, tagID)
		}
	}

	return filter, nil
}

// Create creates a new task for the authenticated user.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, nil)

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := shared.ValidateRequest(req); errs != nil {
		RespondWithFieldErrors(w, r, ValidationFieldErrors(errs))
		return
	}

	task, err := domain.NewTask(userID, req.Title)
	if err != nil {
		HandleServiceError(w, r, err, "Invalid task data.")
		return
	}
	task.Description = req.Description
	task.DueDate = req.DueDate

	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		if !domain.IsValidTaskStatus(status) {
			RespondWithFieldErrors(w, r, FieldErrors{"status": {"Invalid status value"}})
			return
		}
		task.Status = status
	}

	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		if !domain.IsValidTaskPriority(priority) {
			RespondWithFieldErrors(w, r, FieldErrors{"priority": {"Invalid priority value"}})
			return
		}
		task.Priority = priority
	}

	if req.CategoryID != nil {
		if fieldErrs := h.verifyCategory(r, userID, *req.CategoryID); fieldErrs != nil {
			RespondWithFieldErrors(w, r, fieldErrs)
			return
		}
		task.CategoryID = req.CategoryID
	}

	if req.TagIDs != nil {
		if fieldErrs := h.verifyTags(r, userID, *req.TagIDs); fieldErrs != nil {
			RespondWithFieldErrors(w, r, fieldErrs)
			return
		}
		task.TagIDs = *req.TagIDs
	}

	if err := h.taskStore.Create(ctx, task); err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	// Re-read so the response carries category annotations.
	created, err := h.taskStore.GetByID(ctx, userID, task.ID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	log.Info("task created", "user_id", userID, "task_id", task.ID)

	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// Get returns one of the authenticated user's tasks.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	task, err := h.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Update fully replaces one of the authenticated user's tasks. Optional
// fields left out of the request reset to their defaults, except tag
// associations which persist unless tag_ids is provided.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := shared.ValidateRequest(req); errs != nil {
		RespondWithFieldErrors(w, r, ValidationFieldErrors(errs))
		return
	}

	task, err := h.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.DueDate = req.DueDate
	task.CategoryID = nil
	task.Status = domain.TaskStatusPending
	task.Priority = domain.TaskPriorityMedium

	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		if !domain.IsValidTaskStatus(status) {
			RespondWithFieldErrors(w, r, FieldErrors{"status": {"Invalid status value"}})
			return
		}
		task.Status = status
	}

	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		if !domain.IsValidTaskPriority(priority) {
			RespondWithFieldErrors(w, r, FieldErrors{"priority": {"Invalid priority value"}})
			return
		}
		task.Priority = priority
	}

	if req.CategoryID != nil {
		if fieldErrs := h.verifyCategory(r, userID, *req.CategoryID); fieldErrs != nil {
			RespondWithFieldErrors(w, r, fieldErrs)
			return
		}
		task.CategoryID = req.CategoryID
	}

	if req.TagIDs != nil {
		if fieldErrs := h.verifyTags(r, userID, *req.TagIDs); fieldErrs != nil {
			RespondWithFieldErrors(w, r, fieldErrs)
			return
		}
		task.TagIDs = *req.TagIDs
	}

	task.UpdatedAt = time.Now().UTC()

	if err := h.taskStore.Update(ctx, task); err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	updated, err := h.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// PartialUpdate applies only the provided fields to one of the
// authenticated user's tasks. An explicit null clears due_date or the
// category reference; an absent key leaves the field alone.
func (h *TaskHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	var req PatchTaskRequest
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	// Key presence distinguishes "set to null" from "not provided".
	var rawFields map[string]json.RawMessage
	if err := json.Unmarshal(body, &rawFields); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := shared.ValidateRequest(req); errs != nil {
		RespondWithFieldErrors(w, r, ValidationFieldErrors(errs))
		return
	}

	task, err := h.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			RespondWithFieldErrors(w, r, FieldErrors{"title": {"This field may not be blank."}})
			return
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}

	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		if !domain.IsValidTaskStatus(status) {
			RespondWithFieldErrors(w, r, FieldErrors{"status": {"Invalid status value"}})
			return
		}
		task.Status = status
	}

	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		if !domain.IsValidTaskPriority(priority) {
			RespondWithFieldErrors(w, r, FieldErrors{"priority": {"Invalid priority value"}})
			return
		}
		task.Priority = priority
	}

	if _, present := rawFields["due_date"]; present {
		task.DueDate = req.DueDate
	}

	if _, present := rawFields["category"]; present {
		if req.CategoryID != nil {
			if fieldErrs := h.verifyCategory(r, userID, *req.CategoryID); fieldErrs != nil {
				RespondWithFieldErrors(w, r, fieldErrs)
				return
			}
		}
		task.CategoryID = req.CategoryID
	}

	if req.TagIDs != nil {
		if fieldErrs := h.verifyTags(r, userID, *req.TagIDs); fieldErrs != nil {
			RespondWithFieldErrors(w, r, fieldErrs)
			return
		}
		task.TagIDs = *req.TagIDs
	}

	task.UpdatedAt = time.Now().UTC()

	if err := h.taskStore.Update(ctx, task); err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	updated, err := h.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// ChangeStatus transitions one of the authenticated user's tasks to a new
// status.
func (h *TaskHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, nil)

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	var req ChangeStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, map[string]string{"error": "Invalid status value"})
		return
	}

	status := domain.TaskStatus(req.Status)
	if !domain.IsValidTaskStatus(status) {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, map[string]string{"error": "Invalid status value"})
		return
	}

	task, err := h.taskStore.UpdateStatus(ctx, userID, taskID, status)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	log.Info("task status changed",
		"user_id", userID,
		"task_id", taskID,
		"status", status)

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Delete removes one of the authenticated user's tasks.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := getUserIDFromContext(r)
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	if err := h.taskStore.Delete(ctx, userID, taskID); err != nil {
		HandleServiceError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(ctx, nil).Info("task deleted",
		"user_id", userID,
		"task_id", taskID)

	w.WriteHeader(http.StatusNoContent)
}

// verifyCategory confirms the category exists and belongs to the user.
// Returns field errors suitable for a 400 response, or nil when valid.
func (h *TaskHandler) verifyCategory(r *http.Request, userID, categoryID uuid.UUID) FieldErrors {
	if _, err := h.categoryStore.GetByID(r.Context(), userID, categoryID); err != nil {
		if store.IsNotFoundError(err) {
			return FieldErrors{"category": {"Category does not exist."}}
		}
		return FieldErrors{"category": {"Unable to verify category."}}
	}
	return nil
}

// verifyTags confirms every tag exists and belongs to the user.
// Returns field errors suitable for a 400 response, or nil when valid.
func (h *TaskHandler) verifyTags(r *http.Request, userID uuid.UUID, tagIDs []uuid.UUID) FieldErrors {
	if len(tagIDs) == 0 {
		return nil
	}
	tags, err := h.tagStore.GetByIDs(r.Context(), userID, tagIDs)
	if err != nil {
		return FieldErrors{"tag_ids": {"Unable to verify tags."}}
	}
	if len(tags) != len(dedupeUUIDs(tagIDs)) {
		return FieldErrors{"tag_ids": {"One or more tags do not exist."}}
	}
	return nil
}

func dedupeUUIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
