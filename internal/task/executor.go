package task

import "context"

// ProgressFunc reports executor progress as a percentage in [0,100].
// Values outside the range are clamped; reports after the attempt has
// finished, been cancelled, or been paused are dropped.
type ProgressFunc func(percent int)

// Executor performs the actual work for a task. The manager treats it as an
// opaque capability: it is invoked once per attempt with a snapshot of the
// task and a progress callback, and must honor ctx cancellation to make
// cancel and pause effective.
//
// A nil error marks the attempt successful and the returned string becomes
// the task result. A non-nil error counts against the retry budget.
type Executor interface {
	Execute(ctx context.Context, t Task, report ProgressFunc) (string, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, t Task, report ProgressFunc) (string, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, t Task, report ProgressFunc) (string, error) {
	return f(ctx, t, report)
}
