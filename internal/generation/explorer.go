package generation

import (
	"context"

	"github.com/mcollier/waypoint-api/internal/task"
)

// Request describes one exploration to generate.
type Request struct {
	// Kind selects the exploration style (deepen the current passage or
	// propose the next reading step)
	Kind task.Kind

	// Passage is the reading material the exploration is anchored to
	Passage string
}

// Result is the model's exploration output.
type Result struct {
	// Content is the exploration text returned to the reader
	Content string

	// Model identifies which model produced the content
	Model string
}

// Explorer defines the interface for generating reading explorations from
// a passage. This interface serves as the boundary between the task queue
// and external AI/LLM services.
//
// Implementations perform a single attempt per call: retry policy belongs
// to the task queue, so an Explorer must not retry internally.
type Explorer interface {
	// Explore generates exploration content for the given request.
	// Failures are classified through the package error sentinels so the
	// caller can distinguish retryable from permanent conditions.
	Explore(ctx context.Context, req Request) (*Result, error)
}
