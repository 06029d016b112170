package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/taskloop/taskloop/internal/auth"
	"github.com/taskloop/taskloop/internal/database"
	"github.com/taskloop/taskloop/internal/models"
	"github.com/taskloop/taskloop/internal/request"
	"github.com/taskloop/taskloop/internal/validation"
	"go.uber.org/zap"
)

const (
	// MaxTaskTitleLength is the maximum length for a task title
	MaxTaskTitleLength = 500
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	store  database.TaskStore
	logger *zap.Logger
	clock  auth.Clock
}

// TaskHandlerOption configures a TaskHandler.
type TaskHandlerOption func(*TaskHandler)

// WithTaskClock overrides the handler's time source. Used by tests to pin
// completion timestamps.
func WithTaskClock(clock auth.Clock) TaskHandlerOption {
	return func(h *TaskHandler) {
		h.clock = clock
	}
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(store database.TaskStore, logger *zap.Logger, opts ...TaskHandlerOption) *TaskHandler {
	h := &TaskHandler{store: store, logger: logger, clock: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers task routes on the given router. The router
// should already carry the /users/{userID}/tasks prefix.
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/{id}", h.GetTask).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTask).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTask).Methods("DELETE")
	r.HandleFunc("/{id}/complete", h.ToggleComplete).Methods("POST")
}

// CreateTaskRequest represents a create task request
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required,min=1,max=500"`
}

// UpdateTaskRequest represents an update task request
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// ownerFromRequest establishes that the authenticated identity owns the
// {userID} path segment and returns that owner's id. A mismatch is
// reported exactly like a missing resource: the caller must write the
// shared 404 body, never a 403, so other users' ids cannot be probed.
func (h *TaskHandler) ownerFromRequest(r *http.Request) (uuid.UUID, error) {
	identity, ok := request.IdentityFromContext(r)
	if !ok {
		return uuid.Nil, auth.ErrMissing
	}

	pathOwner := mux.Vars(r)["userID"]
	if err := auth.Authorize(identity, pathOwner); err != nil {
		return uuid.Nil, err
	}

	ownerID, err := uuid.Parse(pathOwner)
	if err != nil {
		// The subject matched, so the identity itself is not a UUID;
		// treat like any unreachable resource.
		return uuid.Nil, auth.ErrForbidden
	}

	return ownerID, nil
}

// ListTasks lists the owner's tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.ownerFromRequest(r)
	if err != nil {
		h.respondAccessDenied(w, err)
		return
	}

	tasks, err := h.store.ListByOwner(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("failed_to_list_tasks", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve tasks")
		return
	}

	if tasks == nil {
		tasks = []*models.Task{}
	}
	respondJSON(w, http.StatusOK, tasks)
}

// CreateTask creates a new task owned by the authenticated user
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.ownerFromRequest(r)
	if err != nil {
		h.respondAccessDenied(w, err)
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", validationErrors[0].Error()))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	if req.Title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title is required and cannot be empty after sanitization")
		return
	}
	if len(req.Title) > MaxTaskTitleLength {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Title exceeds maximum length of %d characters", MaxTaskTitleLength))
		return
	}

	task := &models.Task{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Title:   req.Title,
	}

	if err := h.store.Create(r.Context(), task); err != nil {
		h.logger.Error("failed_to_create_task", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create task")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// GetTask retrieves a task by ID
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.ownerFromRequest(r)
	if err != nil {
		h.respondAccessDenied(w, err)
		return
	}

	taskID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondNotFound(w)
		return
	}

	task, err := h.store.Get(r.Context(), ownerID, taskID)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// UpdateTask updates an existing task
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.ownerFromRequest(r)
	if err != nil {
		h.respondAccessDenied(w, err)
		return
	}

	taskID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondNotFound(w)
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if req.Title == nil && req.Completed == nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Nothing to update")
		return
	}

	task, err := h.store.Get(r.Context(), ownerID, taskID)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	if req.Title != nil {
		title := validation.SanitizeText(*req.Title)
		if title == "" || len(title) > MaxTaskTitleLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Title must be between 1 and %d characters", MaxTaskTitleLength))
			return
		}
		task.Title = title
	}
	if req.Completed != nil && *req.Completed != task.Completed {
		task.Completed = *req.Completed
		if task.Completed {
			now := h.clock()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	if err := h.store.Update(r.Context(), ownerID, task); err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.ownerFromRequest(r)
	if err != nil {
		h.respondAccessDenied(w, err)
		return
	}

	taskID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondNotFound(w)
		return
	}

	if err := h.store.Delete(r.Context(), ownerID, taskID); err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": taskID.String()})
}

// ToggleComplete flips a task's completion flag
func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.ownerFromRequest(r)
	if err != nil {
		h.respondAccessDenied(w, err)
		return
	}

	taskID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondNotFound(w)
		return
	}

	task, err := h.store.ToggleComplete(r.Context(), ownerID, taskID)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// respondAccessDenied maps ownership failures from ownerFromRequest.
// Forbidden becomes the shared 404; anything else means the middleware was
// bypassed and the request is simply unauthorized.
func (h *TaskHandler) respondAccessDenied(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrForbidden) {
		respondNotFound(w)
		return
	}
	respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or missing credentials")
}

// respondStoreError maps store failures to responses.
func (h *TaskHandler) respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, database.ErrTaskNotFound) {
		respondNotFound(w)
		return
	}
	h.logger.Error("task_store_error", zap.Error(err))
	respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Operation failed")
}
