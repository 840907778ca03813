package api

import (
	"time"

	"github.com/mcollier/waypoint-api/internal/task"
)

// CreateTaskRequest represents the request body for enqueueing a new
// exploration task
type CreateTaskRequest struct {
	Kind     string   `json:"kind"               validate:"required,oneof=deepen next_step"`
	Payload  string   `json:"payload"            validate:"required,min=1"`
	Priority *float64 `json:"priority,omitempty"`
}

// UpdateProgressRequest represents the request body for reporting task progress
type UpdateProgressRequest struct {
	Progress int `json:"progress"`
}

// ReorderRequest represents the request body for reprioritizing pending tasks
type ReorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// TaskResponse represents the response data for a task snapshot
type TaskResponse struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Payload     string     `json:"payload"`
	Priority    float64    `json:"priority"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Result      string     `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
	RetryCount  int        `json:"retry_count"`
}

// taskToResponse converts a task snapshot to its API representation
func taskToResponse(t task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		Kind:        string(t.Kind),
		Payload:     t.Payload,
		Priority:    t.Priority,
		Status:      string(t.Status),
		Progress:    t.Progress,
		CreatedAt:   t.CreatedAt,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
		Result:      t.Result,
		Error:       t.Error,
		RetryCount:  t.RetryCount,
	}
}
