package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dori/todolist/internal/model"
	"github.com/dori/todolist/internal/rest"
	"github.com/dori/todolist/internal/rest/res"
	"github.com/dori/todolist/internal/service"
	"github.com/dori/todolist/internal/sweep"
)

func NewCreateTaskHandler(log *slog.Logger, svc rest.Tasks, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := parseID(r, "project_id")
		if !ok {
			res.Error(w, "invalid project_id", http.StatusBadRequest)
			return
		}

		var in rest.CreateTaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if in.Title == nil {
			res.Error(w, "title is required", http.StatusBadRequest)
			return
		}

		input := service.NewTaskInput{
			Title:    *in.Title,
			Deadline: in.Deadline,
		}
		if in.Description != nil {
			input.Description = *in.Description
		}
		// an empty status means todo, same as omitting it
		if in.Status != nil {
			input.Status = *in.Status
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.CreateTask(ctx, projectID, input)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, t, http.StatusCreated)
	}
}

func NewListTasksHandler(log *slog.Logger, svc rest.Tasks, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := parseID(r, "project_id")
		if !ok {
			res.Error(w, "invalid project_id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		items, err := svc.ListTasksForProject(ctx, projectID)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		if items == nil {
			items = []model.Task{}
		}
		res.Json(w, items, http.StatusOK)
	}
}

func NewGetTaskHandler(log *slog.Logger, svc rest.Tasks, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.GetTask(ctx, id)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, t, http.StatusOK)
	}
}

func NewUpdateTaskHandler(log *slog.Logger, svc rest.Tasks, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var in rest.UpdateTaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.UpdateTask(ctx, id, model.TaskPatch{
			Title:       in.Title,
			Description: in.Description,
			Status:      in.Status,
			Deadline:    in.Deadline,
		})
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, t, http.StatusOK)
	}
}

func NewChangeStatusHandler(log *slog.Logger, svc rest.Tasks, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var in rest.ChangeStatusIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if in.Status == nil {
			res.Error(w, "status is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.ChangeStatus(ctx, id, *in.Status)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, t, http.StatusOK)
	}
}

func NewDeleteTaskHandler(log *slog.Logger, svc rest.Tasks, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.DeleteTask(ctx, id); err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.NoContent(w)
	}
}

// NewCloseOverdueHandler triggers the overdue sweep on demand
func NewCloseOverdueHandler(log *slog.Logger, sw rest.Sweeper, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		closed, err := sw.RunOnce(ctx, time.Time{})
		if errors.Is(err, sweep.ErrSweepInProgress) {
			res.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		log.Info("overdue tasks closed on request", "closed", closed)
		res.Json(w, rest.CloseOverdueOut{Closed: closed}, http.StatusOK)
	}
}
