package service

import (
	"context"
	"time"

	"github.com/dori/todolist/internal/model"
)

// ProjectRepository persists projects.
// GetByID reports a missing project as model.ErrNotFound; GetByName returns
// nil, nil instead.
type ProjectRepository interface {
	Create(ctx context.Context, name, description string) (*model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	GetByName(ctx context.Context, name string) (*model.Project, error)
	ListAll(ctx context.Context) ([]model.Project, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id int64) error
}

// TaskRepository persists tasks. Lists are ordered by creation.
type TaskRepository interface {
	Create(ctx context.Context, projectID int64, title, description string, status model.Status, deadline *model.Date) (*model.Task, error)
	GetByID(ctx context.Context, id int64) (*model.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.Task, error)
	CountByProject(ctx context.Context, projectID int64) (int, error)
	Save(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id int64) error
	DeleteByProject(ctx context.Context, projectID int64) error
	// GetOverdueTasks returns tasks with a deadline before now's date that are not done
	GetOverdueTasks(ctx context.Context, now time.Time) ([]model.Task, error)
}

// Transactor runs fn inside a single storage transaction.
// Repositories called with the ctx passed to fn take part in it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store bundles what the services need from a storage backend
type Store interface {
	Transactor
	Projects() ProjectRepository
	Tasks() TaskRepository
}
