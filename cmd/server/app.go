package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcollier/waypoint-api/internal/api"
	"github.com/mcollier/waypoint-api/internal/config"
	"github.com/mcollier/waypoint-api/internal/generation"
	"github.com/mcollier/waypoint-api/internal/platform/gemini"
	"github.com/mcollier/waypoint-api/internal/task"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	explorer generation.Explorer
	manager  *task.Manager

	// unsubscribe handles for the event-log listeners
	unsubscribes []func()
}

// newApplication creates a new application instance with all dependencies
// initialized: the Gemini explorer, the task manager driving it, and the
// event listeners that log queue activity.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	explorer, err := gemini.NewExplorer(ctx, logger.With("component", "llm_explorer"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize explorer: %w", err)
	}
	app.explorer = explorer
	logger.Info("LLM explorer initialized", "model", cfg.LLM.ModelName)

	manager, err := task.NewManager(task.Config{
		Concurrency:     cfg.Queue.Concurrency,
		RetryLimit:      cfg.Queue.RetryLimit,
		Backoff:         cfg.Queue.Backoff(),
		ExecutorTimeout: cfg.Queue.ExecutorTimeout(),
	}, logger.With("component", "task_manager"))
	if err != nil {
		return nil, fmt.Errorf("failed to create task manager: %w", err)
	}
	app.manager = manager

	app.registerEventLogging()
	manager.SetExecutor(&explorerExecutor{
		explorer: app.explorer,
		logger:   logger.With("component", "explorer_executor"),
	})

	logger.Info("Application initialized successfully")
	return app, nil
}

// registerEventLogging subscribes a structured-log listener to each queue
// event type so task lifecycle transitions show up in the server log.
func (app *application) registerEventLogging() {
	lifecycle := []task.EventType{
		task.EventTaskAdded,
		task.EventTaskStarted,
		task.EventTaskCompleted,
		task.EventTaskFailed,
		task.EventTaskCancelled,
	}
	for _, eventType := range lifecycle {
		unsub := app.manager.Subscribe(eventType, func(event task.Event) {
			app.logger.Info("task event",
				"event", string(event.Type),
				"task_id", event.Task.ID,
				"kind", string(event.Task.Kind),
				"status", string(event.Task.Status),
				"retry_count", event.Task.RetryCount)
		})
		app.unsubscribes = append(app.unsubscribes, unsub)
	}

	// Progress is chatty, keep it at debug.
	unsub := app.manager.Subscribe(task.EventTaskProgress, func(event task.Event) {
		app.logger.Debug("task progress",
			"task_id", event.Task.ID,
			"progress", event.Task.Progress)
	})
	app.unsubscribes = append(app.unsubscribes, unsub)
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	handler := api.NewTaskHandler(app.manager, app.logger)
	router := api.NewRouter(handler, app.logger)

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	for _, unsub := range app.unsubscribes {
		unsub()
	}
	if app.manager != nil {
		app.manager.Close()
	}
	app.logger.Info("Application shutdown completed")
}

// explorerExecutor adapts a generation.Explorer to the task queue's
// Executor interface, reporting coarse progress around the model call.
type explorerExecutor struct {
	explorer generation.Explorer
	logger   *slog.Logger
}

func (e *explorerExecutor) Execute(ctx context.Context, t task.Task, report task.ProgressFunc) (string, error) {
	report(10)

	result, err := e.explorer.Explore(ctx, generation.Request{
		Kind:    t.Kind,
		Passage: t.Payload,
	})
	if err != nil {
		if generation.Permanent(err) {
			e.logger.WarnContext(ctx, "exploration failed permanently",
				"task_id", t.ID, "error", err)
		}
		return "", err
	}

	report(90)
	return result.Content, nil
}

var _ task.Executor = (*explorerExecutor)(nil)
