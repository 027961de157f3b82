package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dori/todolist/internal/model"
)

// TaskService orchestrates the task lifecycle, including the overdue sweep
type TaskService struct {
	store  Store
	limits Limits
	now    func() time.Time
}

// NewTaskInput carries the fields for CreateTask. An empty Status means todo.
type NewTaskInput struct {
	Title       string
	Description string
	Status      string
	Deadline    *string
}

// NewTaskService fails fast on invalid limits
func NewTaskService(store Store, limits Limits) (*TaskService, error) {
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task service config: %w", err)
	}
	return &TaskService{
		store:  store,
		limits: limits,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// CreateTask adds a task to an existing project
func (s *TaskService) CreateTask(ctx context.Context, projectID int64, in NewTaskInput) (*model.Task, error) {
	if in.Status == "" {
		in.Status = string(model.StatusTodo)
	}

	var created *model.Task
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.Projects().GetByID(ctx, projectID); err != nil {
			return err
		}

		// Validate through the entity so creation and update share the same rules
		draft, err := model.NewTask(0, projectID, in.Title, in.Description, in.Status, in.Deadline, time.Time{})
		if err != nil {
			return err
		}

		tasks := s.store.Tasks()
		count, err := tasks.CountByProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}
		if count >= s.limits.MaxTasksPerProject {
			return model.LimitExceededf("cannot create more than %d tasks for project %d", s.limits.MaxTasksPerProject, projectID)
		}

		created, err = tasks.Create(ctx, projectID, draft.Title, draft.Description, draft.Status, draft.Deadline)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListTasksForProject returns the project's tasks in creation order
func (s *TaskService) ListTasksForProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	if _, err := s.store.Projects().GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.Tasks().ListByProject(ctx, projectID)
}

// GetTask returns a task or model.ErrNotFound
func (s *TaskService) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	return s.store.Tasks().GetByID(ctx, id)
}

// UpdateTask applies the supplied fields
func (s *TaskService) UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	tasks := s.store.Tasks()

	t, err := tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return t, nil
	}

	if err := t.Apply(patch); err != nil {
		return nil, err
	}
	if err := tasks.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ChangeStatus sets a new status. Status is checked before the lookup.
func (s *TaskService) ChangeStatus(ctx context.Context, id int64, status string) (*model.Task, error) {
	if _, err := model.ValidateStatus(status); err != nil {
		return nil, err
	}
	return s.UpdateTask(ctx, id, model.TaskPatch{Status: &status})
}

// DeleteTask removes a single task
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	return s.store.Tasks().Delete(ctx, id)
}

// CloseOverdueTasks marks every overdue task as done and stamps closed_at with
// now. A zero now means the current UTC time. Returns how many tasks were closed.
func (s *TaskService) CloseOverdueTasks(ctx context.Context, now time.Time) (int, error) {
	if now.IsZero() {
		now = s.now()
	}

	closed := 0
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		tasks := s.store.Tasks()

		overdue, err := tasks.GetOverdueTasks(ctx, now)
		if err != nil {
			return fmt.Errorf("failed to load overdue tasks: %w", err)
		}

		for i := range overdue {
			t := &overdue[i]
			t.Close(now)
			if err := tasks.Save(ctx, t); err != nil {
				return fmt.Errorf("failed to close task %d: %w", t.ID, err)
			}
		}
		closed = len(overdue)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return closed, nil
}
