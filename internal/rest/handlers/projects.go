package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dori/todolist/internal/model"
	"github.com/dori/todolist/internal/rest"
	"github.com/dori/todolist/internal/rest/res"
)

func parseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func NewCreateProjectHandler(log *slog.Logger, svc rest.Projects, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.CreateProjectIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if in.Name == nil {
			res.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		description := ""
		if in.Description != nil {
			description = *in.Description
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		p, err := svc.CreateProject(ctx, *in.Name, description)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, p, http.StatusCreated)
	}
}

func NewListProjectsHandler(log *slog.Logger, svc rest.Projects, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		items, err := svc.ListProjects(ctx)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		if items == nil {
			items = []model.Project{}
		}
		res.Json(w, items, http.StatusOK)
	}
}

func NewGetProjectHandler(log *slog.Logger, svc rest.Projects, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		p, err := svc.GetProject(ctx, id)
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, p, http.StatusOK)
	}
}

func NewUpdateProjectHandler(log *slog.Logger, svc rest.Projects, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var in rest.UpdateProjectIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		p, err := svc.UpdateProject(ctx, id, model.ProjectPatch{
			Name:        in.Name,
			Description: in.Description,
		})
		if err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.Json(w, p, http.StatusOK)
	}
}

func NewDeleteProjectHandler(log *slog.Logger, svc rest.Projects, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r, "id")
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.DeleteProject(ctx, id); err != nil {
			rest.WriteErr(w, log, err)
			return
		}
		res.NoContent(w)
	}
}
