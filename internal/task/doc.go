// Package task implements the in-memory exploration task queue: a bounded-
// concurrency scheduler with priority ordering, retry with backoff,
// cooperative cancellation, pause/resume, and lifecycle event fan-out.
package task
