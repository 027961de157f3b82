package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/todolist/internal/model"
	"github.com/dori/todolist/internal/service"
	"github.com/dori/todolist/internal/sweep"
	"github.com/dori/todolist/internal/ui/theme"
)

// Projects is the project service the menu drives
type Projects interface {
	CreateProject(ctx context.Context, name, description string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	UpdateProject(ctx context.Context, id int64, patch model.ProjectPatch) (*model.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

// Tasks is the task service the menu drives
type Tasks interface {
	CreateTask(ctx context.Context, projectID int64, in service.NewTaskInput) (*model.Task, error)
	ListTasksForProject(ctx context.Context, projectID int64) ([]model.Task, error)
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error)
	ChangeStatus(ctx context.Context, id int64, status string) (*model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// Sweeper runs the lock-guarded overdue sweep
type Sweeper interface {
	RunOnce(ctx context.Context, now time.Time) (int, error)
}

const callTimeout = 5 * time.Second

// backend turns menu input into service calls
type backend struct {
	projects Projects
	tasks    Tasks
	sweeper  Sweeper
	now      func() time.Time
}

func (b backend) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), callTimeout)
}

func parseID(label, v string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.Validationf("%s must be a positive integer, got %q", label, v)
	}
	return id, nil
}

// parseStatusChoice maps the 1/2/3 menu choice onto a status.
// An empty choice returns "" so callers can fall back to the default.
func parseStatusChoice(v string) (string, error) {
	switch strings.TrimSpace(v) {
	case "":
		return "", nil
	case "1":
		return string(model.StatusTodo), nil
	case "2":
		return string(model.StatusDoing), nil
	case "3":
		return string(model.StatusDone), nil
	default:
		return "", model.Validationf("invalid status choice %q, expected 1, 2 or 3", v)
	}
}

func failed(err error) tea.Cmd {
	return func() tea.Msg { return ResultMsg{Err: err} }
}

func (b backend) createProject(v []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		p, err := b.projects.CreateProject(ctx, v[0], v[1])
		if err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Title: "Project created", Lines: []string{formatProject(*p)}}
	}
}

func (b backend) listProjects() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		items, err := b.projects.ListProjects(ctx)
		if err != nil {
			return ResultMsg{Err: err}
		}
		if len(items) == 0 {
			return ResultMsg{Title: "Projects", Lines: []string{"No projects yet."}}
		}
		lines := make([]string, 0, len(items))
		for _, p := range items {
			lines = append(lines, formatProject(p))
		}
		return ResultMsg{Title: "Projects", Lines: lines}
	}
}

func (b backend) editProject(v []string) tea.Cmd {
	id, err := parseID("project id", v[0])
	if err != nil {
		return failed(err)
	}
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		p, err := b.projects.UpdateProject(ctx, id, model.ProjectPatch{
			Name:        optional(v[1]),
			Description: optional(v[2]),
		})
		if err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Title: "Project updated", Lines: []string{formatProject(*p)}}
	}
}

func (b backend) confirmDeleteProject(v []string) tea.Cmd {
	id, err := parseID("project id", v[0])
	if err != nil {
		return failed(err)
	}
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		p, err := b.projects.GetProject(ctx, id)
		if err != nil {
			return ResultMsg{Err: err}
		}
		return ConfirmMsg{
			Prompt: fmt.Sprintf("Delete project %q and its %d task(s)?", p.Name, p.TaskCount),
			Action: b.deleteProject(id),
		}
	}
}

func (b backend) deleteProject(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		if err := b.projects.DeleteProject(ctx, id); err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Title: "Project deleted", Lines: []string{fmt.Sprintf("Project %d deleted.", id)}}
	}
}

func (b backend) createTask(v []string) tea.Cmd {
	projectID, err := parseID("project id", v[0])
	if err != nil {
		return failed(err)
	}
	status, err := parseStatusChoice(v[3])
	if err != nil {
		return failed(err)
	}
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		t, err := b.tasks.CreateTask(ctx, projectID, service.NewTaskInput{
			Title:       v[1],
			Description: v[2],
			Status:      status,
			Deadline:    optional(v[4]),
		})
		if err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Title: "Task created", Lines: []string{b.formatTask(*t)}}
	}
}

func (b backend) listTasks(v []string) tea.Cmd {
	projectID, err := parseID("project id", v[0])
	if err != nil {
		return failed(err)
	}
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		items, err := b.tasks.ListTasksForProject(ctx, projectID)
		if err != nil {
			return ResultMsg{Err: err}
		}
		title := fmt.Sprintf("Tasks of project %d", projectID)
		if len(items) == 0 {
			return ResultMsg{Title: title, Lines: []string{"No tasks yet."}}
		}
		lines := make([]string, 0, len(items))
		for _, t := range items {
			lines = append(lines, b.formatTask(t))
		}
		return ResultMsg{Title: title, Lines: lines}
	}
}

func (b backend) editTask(v []string) tea.Cmd {
	id, err := parseID("task id", v[0])
	if err != nil {
		return failed(err)
	}
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		t, err := b.tasks.UpdateTask(ctx, id, model.TaskPatch{
			Title:       optional(v[1]),
			Description: optional(v[2]),
			Deadline:    optional(v[3]),
		})
		if err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Title: "Task updated", Lines: []string{b.formatTask(*t)}}
	}
}

func (b backend) changeStatus(v []string) tea.Cmd {
	id, err := parseID("task id", v[0])
	if err != nil {
		return failed(err)
	}
	status, err := parseStatusChoice(v[1])
	if err != nil {
		return failed(err)
	}
	if status == "" {
		return failed(model.Validationf("status choice is required"))
	}
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		t, err := b.tasks.ChangeStatus(ctx, id, status)
		if err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Title: "Status changed", Lines: []string{b.formatTask(*t)}}
	}
}

func (b backend) confirmDeleteTask(v []string) tea.Cmd {
	id, err := parseID("task id", v[0])
	if err != nil {
		return failed(err)
	}
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		t, err := b.tasks.GetTask(ctx, id)
		if err != nil {
			return ResultMsg{Err: err}
		}
		return ConfirmMsg{
			Prompt: fmt.Sprintf("Delete task %q?", t.Title),
			Action: b.deleteTask(id),
		}
	}
}

func (b backend) deleteTask(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		if err := b.tasks.DeleteTask(ctx, id); err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Title: "Task deleted", Lines: []string{fmt.Sprintf("Task %d deleted.", id)}}
	}
}

func (b backend) closeOverdue() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		n, err := b.sweeper.RunOnce(ctx, b.now())
		if errors.Is(err, sweep.ErrSweepInProgress) {
			return ResultMsg{Title: "Overdue sweep", Lines: []string{"Another sweep is running, try again later."}}
		}
		if err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Title: "Overdue sweep", Lines: []string{fmt.Sprintf("%d overdue task(s) closed.", n)}}
	}
}

func formatProject(p model.Project) string {
	line := fmt.Sprintf("[%d] %s (tasks: %d)", p.ID, p.Name, p.TaskCount)
	if p.Description != "" {
		line += " - " + p.Description
	}
	return line
}

func (b backend) formatTask(t model.Task) string {
	styles := theme.Current.Styles

	line := fmt.Sprintf("[%d] %s  %s", t.ID, t.Title, styles.Status(t.Status).Render(string(t.Status)))
	if t.Deadline != nil {
		deadline := "due " + t.Deadline.String()
		if t.IsOverdue(b.now()) {
			deadline = styles.Overdue.Render(deadline + " (overdue)")
		}
		line += "  " + deadline
	}
	if t.Description != "" {
		line += "  " + styles.Label.Render(t.Description)
	}
	return line
}

// describeError renders an error according to its kind
func describeError(err error) string {
	var e *model.Error
	msg := err.Error()
	if errors.As(err, &e) {
		msg = e.Msg
	}

	switch model.KindOf(err) {
	case model.KindValidation:
		return "Validation error: " + msg
	case model.KindDuplicate:
		return "Duplicate: " + msg
	case model.KindLimitExceeded:
		return "Limit reached: " + msg
	case model.KindNotFound:
		return "Not found: " + msg
	default:
		return "Unexpected error: " + msg
	}
}
