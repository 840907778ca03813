package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apimiddleware "github.com/mcollier/waypoint-api/internal/api/middleware"
)

// NewRouter configures the application router with all routes and
// middleware.
func NewRouter(handler *TaskHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", handler.CreateTask)
			r.Get("/", handler.ListTasks)
			r.Get("/stats", handler.GetStats)
			r.Post("/reorder", handler.ReorderTasks)
			r.Delete("/completed", handler.ClearCompleted)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handler.GetTask)
				r.Post("/cancel", handler.CancelTask)
				r.Post("/pause", handler.PauseTask)
				r.Post("/resume", handler.ResumeTask)
				r.Patch("/progress", handler.UpdateProgress)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
