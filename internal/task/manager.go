package task

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Config holds configuration for the task manager
type Config struct {
	// Concurrency is the maximum number of tasks in processing at once
	Concurrency int

	// RetryLimit is the number of executor failures tolerated per task
	// before the task settles in failed (so RetryLimit+1 total attempts)
	RetryLimit int

	// Backoff is the delay sequence between retry attempts, indexed by the
	// task's retry count at the moment of failure. Past the end of the
	// sequence the last value is reused.
	Backoff []time.Duration

	// ExecutorTimeout bounds a single executor attempt. A timed-out attempt
	// counts as a failure and goes through the normal retry path.
	// Zero disables the timeout.
	ExecutorTimeout time.Duration
}

// DefaultConfig returns a Config with reasonable defaults
func DefaultConfig() Config {
	return Config{
		Concurrency:     3,
		RetryLimit:      2,
		Backoff:         []time.Duration{1 * time.Second, 3 * time.Second, 10 * time.Second},
		ExecutorTimeout: 2 * time.Minute,
	}
}

// Manager owns all task records and coordinates concurrent exploration
// attempts against the injected Executor: it promotes pending tasks up to
// the concurrency limit in priority-then-FIFO order, retries failed
// attempts with backoff, and publishes lifecycle events.
//
// All methods are safe for concurrent use. Records never leave the manager;
// every accessor returns a snapshot copy.
type Manager struct {
	mu       sync.Mutex
	config   Config
	logger   *slog.Logger
	bus      *eventBus
	executor Executor
	tasks    map[uuid.UUID]*record
	timers   map[uuid.UUID]*time.Timer
	nextSeq  uint64
	closed   bool
}

// NewManager creates a new Manager with the given configuration.
// Misconfiguration fails fast here rather than surfacing later as a
// stuck or runaway queue.
func NewManager(config Config, logger *slog.Logger) (*Manager, error) {
	if config.Concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be positive, got %d", config.Concurrency)
	}
	if config.RetryLimit < 0 {
		return nil, fmt.Errorf("retry limit must not be negative, got %d", config.RetryLimit)
	}
	if config.ExecutorTimeout < 0 {
		return nil, fmt.Errorf("executor timeout must not be negative, got %s", config.ExecutorTimeout)
	}
	if len(config.Backoff) == 0 {
		config.Backoff = DefaultConfig().Backoff
	}
	for _, d := range config.Backoff {
		if d < 0 {
			return nil, fmt.Errorf("backoff delays must not be negative, got %s", d)
		}
	}

	return &Manager{
		config: config,
		logger: logger.With("component", "task_manager"),
		bus:    newEventBus(logger),
		tasks:  make(map[uuid.UUID]*record),
		timers: make(map[uuid.UUID]*time.Timer),
	}, nil
}

// SetExecutor installs the capability that performs the real work.
// Tasks enqueued before an executor is set simply wait in pending;
// installing one immediately schedules them.
func (m *Manager) SetExecutor(executor Executor) {
	m.mu.Lock()
	m.executor = executor
	events := m.dispatchLocked()
	m.mu.Unlock()
	m.publish(events)
}

// Subscribe registers a listener for one lifecycle event type and returns
// an unsubscribe function. Delivery is synchronous, in registration order,
// on the goroutine that performed the transition.
func (m *Manager) Subscribe(eventType EventType, fn Listener) func() {
	return m.bus.subscribe(eventType, fn)
}

// Enqueue registers a new task with a priority computed from its kind.
// It always succeeds and returns the new task's id.
func (m *Manager) Enqueue(kind Kind, payload string) uuid.UUID {
	return m.enqueue(kind, payload, nil)
}

// EnqueueWithPriority registers a new task with a caller-chosen priority,
// overriding the kind-based default.
func (m *Manager) EnqueueWithPriority(kind Kind, payload string, priority float64) uuid.UUID {
	return m.enqueue(kind, payload, &priority)
}

func (m *Manager) enqueue(kind Kind, payload string, priority *float64) uuid.UUID {
	now := time.Now()
	rec := &record{
		Task: Task{
			ID:        uuid.New(),
			Kind:      kind,
			Payload:   payload,
			Status:    StatusPending,
			CreatedAt: now,
		},
	}
	if priority != nil {
		rec.Priority = *priority
	} else {
		rec.Priority = defaultPriority(kind, now, now)
	}

	m.mu.Lock()
	m.nextSeq++
	rec.seq = m.nextSeq
	m.tasks[rec.ID] = rec
	events := []Event{m.eventLocked(EventTaskAdded, rec)}
	events = append(events, m.dispatchLocked()...)
	m.mu.Unlock()

	m.logger.Debug("task enqueued",
		"task_id", rec.ID,
		"task_kind", rec.Kind,
		"priority", rec.Priority)

	m.publish(events)
	return rec.ID
}

// Get returns a snapshot of the task with the given id.
func (m *Manager) Get(id uuid.UUID) (Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.tasks[id]
	if !ok {
		return Task{}, false
	}
	return rec.snapshot(), true
}

// List returns snapshots of all tasks in creation order. The enqueue
// sequence number breaks ties between tasks created within the same
// clock tick.
func (m *Manager) List() []Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	recs := make([]*record, 0, len(m.tasks))
	for _, rec := range m.tasks {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	tasks := make([]Task, len(recs))
	for i, rec := range recs {
		tasks[i] = rec.snapshot()
	}
	return tasks
}

// UpdateProgress records caller-reported progress for a processing task,
// clamped to [0,100]. It reports false, fires no event, and changes nothing
// when the task is absent or not processing.
func (m *Manager) UpdateProgress(id uuid.UUID, percent int) bool {
	m.mu.Lock()
	rec, ok := m.tasks[id]
	if !ok || rec.Status != StatusProcessing {
		m.mu.Unlock()
		return false
	}
	rec.Progress = clampPercent(percent)
	event := m.eventLocked(EventTaskProgress, rec)
	m.mu.Unlock()

	m.publish([]Event{event})
	return true
}

// Cancel stops a pending or processing task. For a processing task the
// in-flight attempt's context is cancelled; the executor is expected to
// observe it but is not forced to stop. Cancelling a task in any other
// status reports false with no state change and no event.
func (m *Manager) Cancel(id uuid.UUID) bool {
	m.mu.Lock()
	rec, ok := m.tasks[id]
	if !ok || (rec.Status != StatusPending && rec.Status != StatusProcessing) {
		m.mu.Unlock()
		return false
	}

	m.stopRetryTimerLocked(id)
	if rec.cancel != nil {
		rec.cancel()
		rec.cancel = nil
	}
	rec.Status = StatusCancelled
	events := []Event{m.eventLocked(EventTaskCancelled, rec)}
	events = append(events, m.dispatchLocked()...)
	m.mu.Unlock()

	m.logger.Info("task cancelled", "task_id", id)
	m.publish(events)
	return true
}

// Pause aborts the in-flight attempt of a processing task and parks it.
// Only valid from processing; reports false otherwise.
func (m *Manager) Pause(id uuid.UUID) bool {
	m.mu.Lock()
	rec, ok := m.tasks[id]
	if !ok || rec.Status != StatusProcessing {
		m.mu.Unlock()
		return false
	}

	if rec.cancel != nil {
		rec.cancel()
		rec.cancel = nil
	}
	rec.Status = StatusPaused
	events := m.dispatchLocked()
	m.mu.Unlock()

	m.logger.Info("task paused", "task_id", id)
	m.publish(events)
	return true
}

// Resume returns a paused task to pending, where it re-enters normal
// scheduling. Reports false when the task is not paused.
func (m *Manager) Resume(id uuid.UUID) bool {
	m.mu.Lock()
	rec, ok := m.tasks[id]
	if !ok || rec.Status != StatusPaused {
		m.mu.Unlock()
		return false
	}

	rec.Status = StatusPending
	rec.retryAt = time.Time{}
	events := m.dispatchLocked()
	m.mu.Unlock()

	m.logger.Info("task resumed", "task_id", id)
	m.publish(events)
	return true
}

// ClearCompleted removes every completed task and returns how many were
// removed. Other statuses are untouched.
func (m *Manager) ClearCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, rec := range m.tasks {
		if rec.Status == StatusCompleted {
			delete(m.tasks, id)
			removed++
		}
	}
	return removed
}

// Reorder assigns decreasing priority to the pending subset of ids by
// position, earlier entries ranking higher, so the scheduler prefers them
// next. All assigned priorities exceed every other pending task's priority.
// Returns the number of tasks affected.
func (m *Manager) Reorder(ids []uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	base := 0.0
	for _, rec := range m.tasks {
		if rec.Status == StatusPending && rec.Priority > base {
			base = rec.Priority
		}
	}

	affected := 0
	for i, id := range ids {
		rec, ok := m.tasks[id]
		if !ok || rec.Status != StatusPending {
			continue
		}
		rec.Priority = base + float64(len(ids)-i)
		affected++
	}
	return affected
}

// Close cancels all in-flight attempts and pending retry timers. The
// manager accepts no further scheduling afterwards; results of already
// running attempts are dropped.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	for id, timer := range m.timers {
		timer.Stop()
		delete(m.timers, id)
	}
	for _, rec := range m.tasks {
		if rec.cancel != nil {
			rec.cancel()
			rec.cancel = nil
		}
	}
	m.logger.Info("task manager closed")
}

// dispatchLocked fills free processing slots with the highest-priority
// ready pending tasks. It is idempotent and is invoked after every state
// change that could have freed capacity or added work. Returns the
// task_started events to publish once the lock is released.
func (m *Manager) dispatchLocked() []Event {
	if m.executor == nil || m.closed {
		return nil
	}

	var events []Event
	for m.processingCountLocked() < m.config.Concurrency {
		rec := m.nextReadyLocked(time.Now())
		if rec == nil {
			break
		}
		events = append(events, m.startLocked(rec))
	}
	return events
}

func (m *Manager) processingCountLocked() int {
	count := 0
	for _, rec := range m.tasks {
		if rec.Status == StatusProcessing {
			count++
		}
	}
	return count
}

// nextReadyLocked selects the pending task to promote: highest priority,
// ties broken by earlier creation. Tasks still inside their retry backoff
// window are not ready.
func (m *Manager) nextReadyLocked(now time.Time) *record {
	var best *record
	for _, rec := range m.tasks {
		if rec.Status != StatusPending {
			continue
		}
		if !rec.retryAt.IsZero() && now.Before(rec.retryAt) {
			continue
		}
		if best == nil || rec.beats(best) {
			best = rec
		}
	}
	return best
}

// startLocked promotes a pending task to processing and launches the
// executor attempt on its own goroutine.
func (m *Manager) startLocked(rec *record) Event {
	rec.Status = StatusProcessing
	rec.Progress = 0
	rec.retryAt = time.Time{}
	if rec.StartedAt == nil {
		now := time.Now()
		rec.StartedAt = &now
	}
	rec.attempt++

	base := context.Background()
	var ctx context.Context
	var cancel context.CancelFunc
	if m.config.ExecutorTimeout > 0 {
		ctx, cancel = context.WithTimeout(base, m.config.ExecutorTimeout)
	} else {
		ctx, cancel = context.WithCancel(base)
	}
	rec.cancel = cancel

	executor := m.executor
	attempt := rec.attempt
	snapshot := rec.snapshot()

	m.logger.Info("task started",
		"task_id", snapshot.ID,
		"task_kind", snapshot.Kind,
		"attempt", attempt)

	go m.runAttempt(ctx, cancel, executor, snapshot, attempt)

	return m.eventLocked(EventTaskStarted, rec)
}

func (m *Manager) runAttempt(
	ctx context.Context,
	cancel context.CancelFunc,
	executor Executor,
	snapshot Task,
	attempt int,
) {
	defer cancel()

	report := func(percent int) {
		m.reportProgress(snapshot.ID, attempt, percent)
	}

	result, err := executor.Execute(ctx, snapshot, report)
	m.finishAttempt(snapshot.ID, attempt, result, err)
}

// reportProgress applies executor-reported progress, guarded by the attempt
// number so reports from a superseded attempt are dropped.
func (m *Manager) reportProgress(id uuid.UUID, attempt int, percent int) {
	m.mu.Lock()
	rec, ok := m.tasks[id]
	if !ok || rec.attempt != attempt || rec.Status != StatusProcessing {
		m.mu.Unlock()
		return
	}
	rec.Progress = clampPercent(percent)
	event := m.eventLocked(EventTaskProgress, rec)
	m.mu.Unlock()

	m.publish([]Event{event})
}

// finishAttempt applies the outcome of one executor attempt. Outcomes from
// attempts that were cancelled, paused, or superseded are dropped: the
// attempt guard and the processing check together make stale callbacks
// harmless.
func (m *Manager) finishAttempt(id uuid.UUID, attempt int, result string, err error) {
	m.mu.Lock()
	rec, ok := m.tasks[id]
	if !ok || m.closed || rec.attempt != attempt || rec.Status != StatusProcessing {
		m.mu.Unlock()
		return
	}
	rec.cancel = nil

	var events []Event
	switch {
	case err == nil:
		now := time.Now()
		rec.Status = StatusCompleted
		rec.Progress = 100
		rec.Result = result
		rec.CompletedAt = &now
		events = append(events, m.eventLocked(EventTaskCompleted, rec))
		m.logger.Info("task completed", "task_id", id, "attempt", attempt)

	case rec.RetryCount >= m.config.RetryLimit:
		now := time.Now()
		rec.Status = StatusFailed
		rec.Error = err.Error()
		rec.CompletedAt = &now
		events = append(events, m.eventLocked(EventTaskFailed, rec))
		m.logger.Error("task failed, retry budget exhausted",
			"task_id", id,
			"retry_count", rec.RetryCount,
			"error", err)

	default:
		delay := m.backoffDelay(rec.RetryCount)
		rec.RetryCount++
		rec.Status = StatusPending
		rec.Progress = 0
		rec.retryAt = time.Now().Add(delay)
		m.scheduleRetryLocked(id, delay)
		m.logger.Warn("task attempt failed, retry scheduled",
			"task_id", id,
			"retry_count", rec.RetryCount,
			"delay", delay,
			"error", err)
	}

	events = append(events, m.dispatchLocked()...)
	m.mu.Unlock()

	m.publish(events)
}

// backoffDelay returns the delay for the given pre-increment retry count,
// reusing the last configured value past the end of the sequence.
func (m *Manager) backoffDelay(retryCount int) time.Duration {
	if retryCount >= len(m.config.Backoff) {
		return m.config.Backoff[len(m.config.Backoff)-1]
	}
	return m.config.Backoff[retryCount]
}

func (m *Manager) scheduleRetryLocked(id uuid.UUID, delay time.Duration) {
	m.stopRetryTimerLocked(id)
	m.timers[id] = time.AfterFunc(delay, func() {
		m.mu.Lock()
		delete(m.timers, id)
		events := m.dispatchLocked()
		m.mu.Unlock()
		m.publish(events)
	})
}

func (m *Manager) stopRetryTimerLocked(id uuid.UUID) {
	if timer, ok := m.timers[id]; ok {
		timer.Stop()
		delete(m.timers, id)
	}
}

func (m *Manager) eventLocked(eventType EventType, rec *record) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Task:      rec.snapshot(),
	}
}

// publish delivers events with no locks held so listeners may call back
// into the manager.
func (m *Manager) publish(events []Event) {
	for _, event := range events {
		m.bus.publish(event)
	}
}

func clampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
