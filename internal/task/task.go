package task

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a task
type Status string

// Possible task status values
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusPaused     Status = "paused"
)

// Kind identifies the nature of the exploration work a task performs
type Kind string

// Task kind constants
const (
	// KindDeepen asks the model to dig further into the current passage
	KindDeepen Kind = "deepen"

	// KindNextStep asks the model to propose the next reading step
	KindNextStep Kind = "next_step"
)

// kindWeight returns the priority multiplier for a task kind.
// Deepen requests rank slightly above everything else.
func kindWeight(k Kind) float64 {
	if k == KindDeepen {
		return 1.2
	}
	return 1.0
}

// defaultPriority computes the priority assigned at enqueue time when the
// caller does not supply one. The age factor is floored at one minute so a
// freshly created task still ranks by kind.
func defaultPriority(k Kind, createdAt time.Time, now time.Time) float64 {
	ageMinutes := now.Sub(createdAt).Minutes()
	return kindWeight(k) * (ageMinutes + 1)
}

// Task is a point-in-time snapshot of one unit of exploration work.
// The manager owns the authoritative record; callers only ever see copies,
// so mutating a Task value has no effect on the queue.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Kind        Kind       `json:"kind"`
	Payload     string     `json:"payload"`
	Priority    float64    `json:"priority"`
	Status      Status     `json:"status"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Result      string     `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
	RetryCount  int        `json:"retry_count"`
}

// terminalStatuses are statuses from which no further transition occurs.
// Failed counts as terminal here because the manager only settles a record
// in StatusFailed once the retry budget is exhausted; retryable failures
// re-enter StatusPending without ever being observable as failed.
var terminalStatuses = map[Status]bool{
	StatusCompleted: true,
	StatusFailed:    true,
	StatusCancelled: true,
}

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return terminalStatuses[s]
}

// record is the manager-owned mutable state behind a Task snapshot.
type record struct {
	Task

	// seq is the enqueue sequence number, used as the final scheduling
	// tie-breaker so ordering stays deterministic even when timestamps
	// collide
	seq uint64

	// attempt increments each time the task enters processing; completion
	// callbacks carry the attempt they belong to so results from a cancelled
	// or paused attempt are dropped.
	attempt int

	// cancel aborts the in-flight executor attempt, if any
	cancel func()

	// retryAt is the earliest time the scheduler may re-dispatch the task
	// after a retryable failure; zero means immediately eligible
	retryAt time.Time
}

// snapshot returns a defensive copy of the record's task data.
func (r *record) snapshot() Task {
	t := r.Task
	if r.StartedAt != nil {
		started := *r.StartedAt
		t.StartedAt = &started
	}
	if r.CompletedAt != nil {
		completed := *r.CompletedAt
		t.CompletedAt = &completed
	}
	return t
}

// beats reports whether r should be scheduled ahead of other:
// higher priority first, ties broken by earlier creation.
func (r *record) beats(other *record) bool {
	if r.Priority != other.Priority {
		return r.Priority > other.Priority
	}
	if !r.CreatedAt.Equal(other.CreatedAt) {
		return r.CreatedAt.Before(other.CreatedAt)
	}
	return r.seq < other.seq
}
