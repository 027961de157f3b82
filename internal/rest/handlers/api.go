package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dori/todolist/internal/rest"
)

func Register(mux *http.ServeMux, log *slog.Logger, deps rest.Deps, timeout time.Duration) {
	// health
	mux.Handle("GET /api/health", NewHealthHandler(log, deps.Store, timeout))

	// projects
	mux.Handle("POST /api/projects", NewCreateProjectHandler(log, deps.Projects, timeout))
	mux.Handle("GET /api/projects", NewListProjectsHandler(log, deps.Projects, timeout))
	mux.Handle("GET /api/projects/{id}", NewGetProjectHandler(log, deps.Projects, timeout))
	mux.Handle("PATCH /api/projects/{id}", NewUpdateProjectHandler(log, deps.Projects, timeout))
	mux.Handle("DELETE /api/projects/{id}", NewDeleteProjectHandler(log, deps.Projects, timeout))

	// tasks
	mux.Handle("POST /api/tasks/projects/{project_id}", NewCreateTaskHandler(log, deps.Tasks, timeout))
	mux.Handle("GET /api/tasks/projects/{project_id}", NewListTasksHandler(log, deps.Tasks, timeout))
	mux.Handle("POST /api/tasks/close-overdue", NewCloseOverdueHandler(log, deps.Sweeper, timeout))
	mux.Handle("GET /api/tasks/{id}", NewGetTaskHandler(log, deps.Tasks, timeout))
	mux.Handle("PATCH /api/tasks/{id}", NewUpdateTaskHandler(log, deps.Tasks, timeout))
	mux.Handle("PATCH /api/tasks/{id}/status", NewChangeStatusHandler(log, deps.Tasks, timeout))
	mux.Handle("DELETE /api/tasks/{id}", NewDeleteTaskHandler(log, deps.Tasks, timeout))
}

// NewHandler builds the full API handler with request logging applied.
func NewHandler(log *slog.Logger, deps rest.Deps, timeout time.Duration) http.Handler {
	mux := http.NewServeMux()
	Register(mux, log, deps, timeout)
	return WithRequestLog(log, mux)
}
