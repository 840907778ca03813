package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/mcollier/waypoint-api/internal/config"
	"github.com/mcollier/waypoint-api/internal/generation"
	"github.com/mcollier/waypoint-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExplorer struct {
	result *generation.Result
	err    error

	lastRequest generation.Request
}

func (s *stubExplorer) Explore(ctx context.Context, req generation.Request) (*generation.Result, error) {
	s.lastRequest = req
	return s.result, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExplorerExecutor(t *testing.T) {
	t.Parallel()

	t.Run("returns exploration content", func(t *testing.T) {
		t.Parallel()
		stub := &stubExplorer{result: &generation.Result{Content: "an exploration", Model: "test"}}
		executor := &explorerExecutor{explorer: stub, logger: discardLogger()}

		var reported []int
		result, err := executor.Execute(context.Background(), task.Task{
			Kind:    task.KindDeepen,
			Payload: "a passage",
		}, func(p int) { reported = append(reported, p) })

		require.NoError(t, err)
		assert.Equal(t, "an exploration", result)
		assert.Equal(t, task.KindDeepen, stub.lastRequest.Kind)
		assert.Equal(t, "a passage", stub.lastRequest.Passage)
		assert.Equal(t, []int{10, 90}, reported)
	})

	t.Run("propagates explorer errors", func(t *testing.T) {
		t.Parallel()
		stub := &stubExplorer{err: generation.ErrTransientFailure}
		executor := &explorerExecutor{explorer: stub, logger: discardLogger()}

		_, err := executor.Execute(context.Background(), task.Task{
			Kind:    task.KindNextStep,
			Payload: "a passage",
		}, func(int) {})

		assert.ErrorIs(t, err, generation.ErrTransientFailure)
	})

	t.Run("propagates permanent errors unchanged", func(t *testing.T) {
		t.Parallel()
		blocked := fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
		stub := &stubExplorer{err: blocked}
		executor := &explorerExecutor{explorer: stub, logger: discardLogger()}

		_, err := executor.Execute(context.Background(), task.Task{
			Kind:    task.KindDeepen,
			Payload: "a passage",
		}, func(int) {})

		assert.ErrorIs(t, err, generation.ErrContentBlocked)
	})
}

func TestNewApplicationRequiresAPIKey(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Server.Port = 8080
	cfg.Queue.Concurrency = 3
	cfg.LLM.ModelName = "gemini-2.0-flash"

	_, err := newApplication(context.Background(), cfg, discardLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
