package service_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dori/todolist/internal/db"
	"github.com/dori/todolist/internal/memstore"
	"github.com/dori/todolist/internal/model"
	"github.com/dori/todolist/internal/service"
)

func strPtr(s string) *string { return &s }

type services struct {
	projects *service.ProjectService
	tasks    *service.TaskService
}

func newServices(t *testing.T, store service.Store, limits service.Limits) services {
	t.Helper()

	ps, err := service.NewProjectService(store, limits)
	if err != nil {
		t.Fatalf("NewProjectService failed: %v", err)
	}
	ts, err := service.NewTaskService(store, limits)
	if err != nil {
		t.Fatalf("NewTaskService failed: %v", err)
	}
	return services{projects: ps, tasks: ts}
}

// stores runs fn against every storage backend
func stores(t *testing.T, fn func(t *testing.T, store service.Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, memstore.New())
	})
	t.Run("sqlite", func(t *testing.T) {
		database, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		t.Cleanup(func() { database.Close() })
		fn(t, database)
	})
}

func mustCreateProject(t *testing.T, svc services, name, description string) *model.Project {
	t.Helper()

	p, err := svc.projects.CreateProject(context.Background(), name, description)
	if err != nil {
		t.Fatalf("failed to prepare project: %v", err)
	}
	return p
}

func mustCreateTask(t *testing.T, svc services, projectID int64, in service.NewTaskInput) *model.Task {
	t.Helper()

	task, err := svc.tasks.CreateTask(context.Background(), projectID, in)
	if err != nil {
		t.Fatalf("failed to prepare task: %v", err)
	}
	return task
}

func TestNewServicesRejectInvalidLimits(t *testing.T) {
	store := memstore.New()

	if _, err := service.NewProjectService(store, service.Limits{MaxProjects: 0, MaxTasksPerProject: 1}); err == nil {
		t.Fatal("expected error for zero max projects")
	}
	if _, err := service.NewTaskService(store, service.Limits{MaxProjects: 1, MaxTasksPerProject: -5}); err == nil {
		t.Fatal("expected error for negative max tasks")
	}
}

func TestCreateProjectTrimsInput(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.DefaultLimits())

		name := strings.Repeat("n", 30)
		description := strings.Repeat("d", 150)
		p, err := svc.projects.CreateProject(context.Background(), "  "+name+" ", description+"  ")
		if err != nil {
			t.Fatalf("CreateProject returned error: %v", err)
		}
		if p.Name != name || p.Description != description {
			t.Fatalf("expected trimmed fields, got %q / %q", p.Name, p.Description)
		}
		if p.ID <= 0 || p.CreatedAt.IsZero() {
			t.Fatalf("expected assigned id and created_at, got %+v", p)
		}

		if _, err := svc.projects.CreateProject(context.Background(), "Empty desc", ""); err != nil {
			t.Fatalf("empty description should be allowed: %v", err)
		}
	})
}

func TestCreateProjectValidation(t *testing.T) {
	svc := newServices(t, memstore.New(), service.DefaultLimits())
	ctx := context.Background()

	if _, err := svc.projects.CreateProject(ctx, "   ", ""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank name, got %v", err)
	}
	if _, err := svc.projects.CreateProject(ctx, strings.Repeat("n", 31), ""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation for long name, got %v", err)
	}
	if _, err := svc.projects.CreateProject(ctx, "ok", strings.Repeat("d", 151)); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation for long description, got %v", err)
	}
}

func TestCreateProjectDuplicate(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.DefaultLimits())
		ctx := context.Background()

		mustCreateProject(t, svc, "A", "x")

		if _, err := svc.projects.CreateProject(ctx, "A", "y"); !errors.Is(err, model.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
		if _, err := svc.projects.CreateProject(ctx, "  A  ", "y"); !errors.Is(err, model.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate for name equal after trim, got %v", err)
		}
	})
}

func TestCreateProjectLimit(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.Limits{MaxProjects: 3, MaxTasksPerProject: 10})
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			mustCreateProject(t, svc, fmt.Sprintf("project %d", i), "")
		}

		_, err := svc.projects.CreateProject(ctx, "one too many", "")
		if !errors.Is(err, model.ErrLimitExceeded) {
			t.Fatalf("expected ErrLimitExceeded, got %v", err)
		}
	})
}

func TestListProjectsCreationOrder(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.DefaultLimits())

		names := []string{"zeta", "alpha", "mid"}
		for _, n := range names {
			mustCreateProject(t, svc, n, "")
		}

		list, err := svc.projects.ListProjects(context.Background())
		if err != nil {
			t.Fatalf("ListProjects returned error: %v", err)
		}
		if len(list) != len(names) {
			t.Fatalf("expected %d projects, got %d", len(names), len(list))
		}
		for i, n := range names {
			if list[i].Name != n {
				t.Fatalf("position %d: expected %q, got %q", i, n, list[i].Name)
			}
		}
	})
}

func TestGetMissingEntities(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.DefaultLimits())
		ctx := context.Background()

		if _, err := svc.projects.GetProject(ctx, 404); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for project, got %v", err)
		}
		if _, err := svc.tasks.GetTask(ctx, 404); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for task, got %v", err)
		}
		if _, err := svc.projects.UpdateProject(ctx, 404, model.ProjectPatch{}); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("expected ErrNotFound updating project, got %v", err)
		}
		if err := svc.projects.DeleteProject(ctx, 404); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("expected ErrNotFound deleting project, got %v", err)
		}
		if err := svc.tasks.DeleteTask(ctx, 404); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("expected ErrNotFound deleting task, got %v", err)
		}
		if _, err := svc.tasks.ListTasksForProject(ctx, 404); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("expected ErrNotFound listing tasks, got %v", err)
		}
	})
}

func TestUpdateProject(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.DefaultLimits())
		ctx := context.Background()

		a := mustCreateProject(t, svc, "A", "first")
		mustCreateProject(t, svc, "B", "second")

		same, err := svc.projects.UpdateProject(ctx, a.ID, model.ProjectPatch{})
		if err != nil {
			t.Fatalf("empty update returned error: %v", err)
		}
		if same.Name != "A" || same.Description != "first" {
			t.Fatalf("empty update changed the project: %+v", same)
		}

		if _, err := svc.projects.UpdateProject(ctx, a.ID, model.ProjectPatch{Name: strPtr("B")}); !errors.Is(err, model.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}

		// Keeping the current name is not a collision
		updated, err := svc.projects.UpdateProject(ctx, a.ID, model.ProjectPatch{Name: strPtr("A"), Description: strPtr("changed")})
		if err != nil {
			t.Fatalf("UpdateProject returned error: %v", err)
		}
		if updated.Description != "changed" {
			t.Fatalf("expected description to change, got %q", updated.Description)
		}

		renamed, err := svc.projects.UpdateProject(ctx, a.ID, model.ProjectPatch{Name: strPtr(" C ")})
		if err != nil {
			t.Fatalf("rename returned error: %v", err)
		}
		if renamed.Name != "C" || renamed.Description != "changed" {
			t.Fatalf("unexpected project after rename: %+v", renamed)
		}

		got, err := svc.projects.GetProject(ctx, a.ID)
		if err != nil {
			t.Fatalf("GetProject returned error: %v", err)
		}
		if got.Name != "C" {
			t.Fatalf("rename was not persisted: %+v", got)
		}
		if !got.CreatedAt.Equal(a.CreatedAt) {
			t.Fatal("created_at changed on update")
		}
	})
}

func TestCreateTaskMissingProject(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.DefaultLimits())
		ctx := context.Background()

		_, err := svc.tasks.CreateTask(ctx, 99, service.NewTaskInput{Title: "orphan"})
		if !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		if _, err := svc.tasks.GetTask(ctx, 1); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("no task should have been created, got %v", err)
		}
	})
}

func TestCreateTaskValidation(t *testing.T) {
	svc := newServices(t, memstore.New(), service.DefaultLimits())
	ctx := context.Background()
	p := mustCreateProject(t, svc, "Launch", "")

	cases := map[string]service.NewTaskInput{
		"blank title":      {Title: "  "},
		"long title":       {Title: strings.Repeat("t", 31)},
		"long description": {Title: "ok", Description: strings.Repeat("d", 151)},
		"bad status":       {Title: "ok", Status: "blocked"},
		"bad deadline":     {Title: "ok", Deadline: strPtr("2024-13-40")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.tasks.CreateTask(ctx, p.ID, in); !errors.Is(err, model.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	task := mustCreateTask(t, svc, p.ID, service.NewTaskInput{Title: "defaults"})
	if task.Status != model.StatusTodo {
		t.Fatalf("expected default status todo, got %s", task.Status)
	}
	if task.ClosedAt != nil {
		t.Fatal("new task must not have closed_at")
	}
}

func TestCreateTaskLimit(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.Limits{MaxProjects: 10, MaxTasksPerProject: 2})
		ctx := context.Background()

		p := mustCreateProject(t, svc, "Launch", "")
		other := mustCreateProject(t, svc, "Other", "")

		mustCreateTask(t, svc, p.ID, service.NewTaskInput{Title: "one"})
		mustCreateTask(t, svc, p.ID, service.NewTaskInput{Title: "two"})

		if _, err := svc.tasks.CreateTask(ctx, p.ID, service.NewTaskInput{Title: "three"}); !errors.Is(err, model.ErrLimitExceeded) {
			t.Fatalf("expected ErrLimitExceeded, got %v", err)
		}

		// The cap is per project
		mustCreateTask(t, svc, other.ID, service.NewTaskInput{Title: "one"})
	})
}

func TestUpdateTaskAndChangeStatus(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.DefaultLimits())
		ctx := context.Background()

		p := mustCreateProject(t, svc, "Launch", "")
		task := mustCreateTask(t, svc, p.ID, service.NewTaskInput{Title: "Write report", Description: "draft"})

		same, err := svc.tasks.UpdateTask(ctx, task.ID, model.TaskPatch{})
		if err != nil {
			t.Fatalf("empty update returned error: %v", err)
		}
		if same.Title != task.Title || same.Description != task.Description || same.Status != task.Status {
			t.Fatalf("empty update changed the task: %+v", same)
		}

		if _, err := svc.tasks.ChangeStatus(ctx, task.ID, "doing"); err != nil {
			t.Fatalf("ChangeStatus returned error: %v", err)
		}
		got, err := svc.tasks.GetTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetTask returned error: %v", err)
		}
		if got.Status != model.StatusDoing {
			t.Fatalf("expected doing, got %s", got.Status)
		}

		if _, err := svc.tasks.ChangeStatus(ctx, task.ID, "paused"); !errors.Is(err, model.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if _, err := svc.tasks.ChangeStatus(ctx, 404, "done"); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		updated, err := svc.tasks.UpdateTask(ctx, task.ID, model.TaskPatch{
			Title:    strPtr("Ship report"),
			Status:   strPtr("done"),
			Deadline: strPtr("2030-06-01"),
		})
		if err != nil {
			t.Fatalf("UpdateTask returned error: %v", err)
		}
		if updated.Title != "Ship report" || updated.Description != "draft" || updated.Status != model.StatusDone {
			t.Fatalf("unexpected task after update: %+v", updated)
		}
		if updated.ClosedAt != nil {
			t.Fatal("manual done must not set closed_at")
		}

		// done is not terminal
		reopened, err := svc.tasks.UpdateTask(ctx, task.ID, model.TaskPatch{Status: strPtr("todo")})
		if err != nil {
			t.Fatalf("reopen returned error: %v", err)
		}
		if reopened.Status != model.StatusTodo {
			t.Fatalf("expected todo, got %s", reopened.Status)
		}

		if _, err := svc.tasks.UpdateTask(ctx, task.ID, model.TaskPatch{Deadline: strPtr("soon")}); !errors.Is(err, model.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestListTasksForProjectOrder(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.DefaultLimits())
		ctx := context.Background()

		p := mustCreateProject(t, svc, "Launch", "")
		other := mustCreateProject(t, svc, "Other", "")

		titles := []string{"b", "a", "c"}
		for _, title := range titles {
			mustCreateTask(t, svc, p.ID, service.NewTaskInput{Title: title})
		}
		mustCreateTask(t, svc, other.ID, service.NewTaskInput{Title: "elsewhere"})

		list, err := svc.tasks.ListTasksForProject(ctx, p.ID)
		if err != nil {
			t.Fatalf("ListTasksForProject returned error: %v", err)
		}
		if len(list) != len(titles) {
			t.Fatalf("expected %d tasks, got %d", len(titles), len(list))
		}
		for i, title := range titles {
			if list[i].Title != title {
				t.Fatalf("position %d: expected %q, got %q", i, title, list[i].Title)
			}
		}
	})
}

func TestDeleteProjectCascades(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.DefaultLimits())
		ctx := context.Background()

		p := mustCreateProject(t, svc, "Launch", "")
		keep := mustCreateProject(t, svc, "Keep", "")
		for _, title := range []string{"one", "two", "three"} {
			mustCreateTask(t, svc, p.ID, service.NewTaskInput{Title: title})
		}
		survivor := mustCreateTask(t, svc, keep.ID, service.NewTaskInput{Title: "survivor"})

		list, err := svc.tasks.ListTasksForProject(ctx, p.ID)
		if err != nil {
			t.Fatalf("ListTasksForProject returned error: %v", err)
		}

		if err := svc.projects.DeleteProject(ctx, p.ID); err != nil {
			t.Fatalf("DeleteProject returned error: %v", err)
		}

		for _, task := range list {
			if _, err := svc.tasks.GetTask(ctx, task.ID); !errors.Is(err, model.ErrNotFound) {
				t.Fatalf("task %d survived project deletion: %v", task.ID, err)
			}
		}
		if _, err := svc.projects.GetProject(ctx, p.ID); !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("expected project to be gone, got %v", err)
		}
		if _, err := svc.tasks.GetTask(ctx, survivor.ID); err != nil {
			t.Fatalf("task of another project was deleted: %v", err)
		}
	})
}

func TestCloseOverdueTasksScenario(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.DefaultLimits())
		ctx := context.Background()

		p := mustCreateProject(t, svc, "Launch", "Q1 launch")
		task := mustCreateTask(t, svc, p.ID, service.NewTaskInput{
			Title:    "Write report",
			Status:   "todo",
			Deadline: strPtr("2020-01-01"),
		})

		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		closed, err := svc.tasks.CloseOverdueTasks(ctx, now)
		if err != nil {
			t.Fatalf("CloseOverdueTasks returned error: %v", err)
		}
		if closed != 1 {
			t.Fatalf("expected 1 closed task, got %d", closed)
		}

		got, err := svc.tasks.GetTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetTask returned error: %v", err)
		}
		if got.Status != model.StatusDone {
			t.Fatalf("expected done, got %s", got.Status)
		}
		if got.ClosedAt == nil || !got.ClosedAt.Equal(now) {
			t.Fatalf("expected closed_at %v, got %v", now, got.ClosedAt)
		}
		if got.ClosedAt.Format("2006-01-02T15:04:05") != "2025-01-01T00:00:00" {
			t.Fatalf("unexpected closed_at %s", got.ClosedAt)
		}

		// A second run the same day finds nothing new
		again, err := svc.tasks.CloseOverdueTasks(ctx, now.Add(3*time.Hour))
		if err != nil {
			t.Fatalf("second sweep returned error: %v", err)
		}
		if again != 0 {
			t.Fatalf("expected second sweep to close 0, got %d", again)
		}
	})
}

func TestCloseOverdueTasksNoMatches(t *testing.T) {
	stores(t, func(t *testing.T, store service.Store) {
		svc := newServices(t, store, service.DefaultLimits())
		ctx := context.Background()

		p := mustCreateProject(t, svc, "Launch", "")
		dueToday := mustCreateTask(t, svc, p.ID, service.NewTaskInput{Title: "due today", Deadline: strPtr("2025-01-01")})
		done := mustCreateTask(t, svc, p.ID, service.NewTaskInput{Title: "done", Status: "done", Deadline: strPtr("2020-01-01")})
		mustCreateTask(t, svc, p.ID, service.NewTaskInput{Title: "no deadline"})

		now := time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC)
		closed, err := svc.tasks.CloseOverdueTasks(ctx, now)
		if err != nil {
			t.Fatalf("CloseOverdueTasks returned error: %v", err)
		}
		if closed != 0 {
			t.Fatalf("expected 0 closed tasks, got %d", closed)
		}

		got, _ := svc.tasks.GetTask(ctx, dueToday.ID)
		if got.Status != model.StatusTodo || got.ClosedAt != nil {
			t.Fatalf("task due today was mutated: %+v", got)
		}
		got, _ = svc.tasks.GetTask(ctx, done.ID)
		if got.ClosedAt != nil {
			t.Fatalf("done task got closed_at: %+v", got)
		}
	})
}

func TestCloseOverdueTasksDefaultsToNow(t *testing.T) {
	svc := newServices(t, memstore.New(), service.DefaultLimits())
	ctx := context.Background()

	p := mustCreateProject(t, svc, "Launch", "")
	task := mustCreateTask(t, svc, p.ID, service.NewTaskInput{Title: "old", Deadline: strPtr("2000-01-01")})

	closed, err := svc.tasks.CloseOverdueTasks(ctx, time.Time{})
	if err != nil {
		t.Fatalf("CloseOverdueTasks returned error: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected 1 closed task, got %d", closed)
	}

	got, _ := svc.tasks.GetTask(ctx, task.ID)
	if got.ClosedAt == nil || time.Since(*got.ClosedAt) > time.Minute {
		t.Fatalf("expected closed_at close to now, got %v", got.ClosedAt)
	}
}
