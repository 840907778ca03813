package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcollier/waypoint-api/internal/api/shared"
	"github.com/mcollier/waypoint-api/internal/task"
)

// TaskHandler handles task queue HTTP requests
type TaskHandler struct {
	manager *task.Manager
	logger  *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(manager *task.Manager, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		manager: manager,
		logger:  logger.With("component", "task_handler"),
	}
}

// CreateTask handles POST /api/tasks requests. Enqueueing never fails, so
// the response is 202 Accepted with the initial snapshot: the work itself
// happens asynchronously.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	kind := task.Kind(req.Kind)
	var id uuid.UUID
	if req.Priority != nil {
		id = h.manager.EnqueueWithPriority(kind, req.Payload, *req.Priority)
	} else {
		id = h.manager.Enqueue(kind, req.Payload)
	}

	snap, ok := h.manager.Get(id)
	if !ok {
		// Only reachable if a concurrent sweep removed the task already.
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, taskToResponse(snap))
}

// ListTasks handles GET /api/tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := h.manager.List()
	responses := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, taskToResponse(t))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetTask handles GET /api/tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	snap, found := h.manager.Get(id)
	if !found {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(snap))
}

// CancelTask handles POST /api/tasks/{id}/cancel requests
func (h *TaskHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.manager.Cancel, "Task cannot be cancelled in its current status")
}

// PauseTask handles POST /api/tasks/{id}/pause requests
func (h *TaskHandler) PauseTask(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.manager.Pause, "Task cannot be paused in its current status")
}

// ResumeTask handles POST /api/tasks/{id}/resume requests
func (h *TaskHandler) ResumeTask(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.manager.Resume, "Task cannot be resumed in its current status")
}

// lifecycle runs one of the cancel/pause/resume operations and maps the
// boolean outcome onto HTTP: unknown id -> 404, invalid transition -> 409.
func (h *TaskHandler) lifecycle(
	w http.ResponseWriter,
	r *http.Request,
	op func(uuid.UUID) bool,
	conflictMsg string,
) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if _, found := h.manager.Get(id); !found {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}
	if !op(id) {
		shared.RespondWithError(w, r, http.StatusConflict, conflictMsg)
		return
	}

	snap, _ := h.manager.Get(id)
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(snap))
}

// UpdateProgress handles PATCH /api/tasks/{id}/progress requests
func (h *TaskHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req UpdateProgressRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if _, found := h.manager.Get(id); !found {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}
	if !h.manager.UpdateProgress(id, req.Progress) {
		shared.RespondWithError(w, r, http.StatusConflict,
			"Progress can only be reported for a processing task")
		return
	}

	snap, _ := h.manager.Get(id)
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(snap))
}

// ReorderTasks handles POST /api/tasks/reorder requests
func (h *TaskHandler) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID: "+raw)
			return
		}
		ids = append(ids, id)
	}

	reordered := h.manager.Reorder(ids)
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]int{"reordered": reordered})
}

// ClearCompleted handles DELETE /api/tasks/completed requests
func (h *TaskHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	removed := h.manager.ClearCompleted()
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]int{"removed": removed})
}

// GetStats handles GET /api/tasks/stats requests
func (h *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.manager.Stats())
}

// taskID extracts and parses the id path parameter, responding with 400 on
// malformed input.
func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return uuid.Nil, false
	}
	return id, true
}
