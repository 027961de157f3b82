package rest

import (
	"context"
	"time"

	"github.com/dori/todolist/internal/model"
	"github.com/dori/todolist/internal/service"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Projects interface {
	CreateProject(ctx context.Context, name, description string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	UpdateProject(ctx context.Context, id int64, patch model.ProjectPatch) (*model.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

type Tasks interface {
	CreateTask(ctx context.Context, projectID int64, in service.NewTaskInput) (*model.Task, error)
	ListTasksForProject(ctx context.Context, projectID int64) ([]model.Task, error)
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error)
	ChangeStatus(ctx context.Context, id int64, status string) (*model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// Sweeper runs one lock-guarded overdue sweep; a zero now means the current time
type Sweeper interface {
	RunOnce(ctx context.Context, now time.Time) (int, error)
}

type Deps struct {
	Store    Pinger
	Projects Projects
	Tasks    Tasks
	Sweeper  Sweeper
}

type CreateProjectIn struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type UpdateProjectIn struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CreateTaskIn struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status,omitempty"` // todo|doing|done, default todo
	Deadline    *string `json:"deadline,omitempty"`
}

type UpdateTaskIn struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
}

type ChangeStatusIn struct {
	Status *string `json:"status"`
}

type CloseOverdueOut struct {
	Closed int `json:"closed"`
}
