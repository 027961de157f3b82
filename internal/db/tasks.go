package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dori/todolist/internal/model"
)

const taskColumns = `id, project_id, title, description, status, deadline, created_at, closed_at`

type taskRepo struct {
	db *DB
}

// Create inserts a new task
func (r taskRepo) Create(ctx context.Context, projectID int64, title, description string, status model.Status, deadline *model.Date) (*model.Task, error) {
	q := r.db.conn(ctx)
	now := time.Now().UTC()

	var id int64
	err := q.QueryRowxContext(ctx, q.Rebind(`
		INSERT INTO tasks (project_id, title, description, status, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`), projectID, title, description, status, deadline, now).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	return &model.Task{
		ID:          id,
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      status,
		Deadline:    deadline,
		CreatedAt:   now,
	}, nil
}

// GetByID returns a single task by ID
func (r taskRepo) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	q := r.db.conn(ctx)

	var t model.Task
	err := q.GetContext(ctx, &t, q.Rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NotFoundf("task with id %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// ListByProject returns tasks for a specific project in creation order
func (r taskRepo) ListByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	q := r.db.conn(ctx)

	tasks := []model.Task{}
	err := q.SelectContext(ctx, &tasks, q.Rebind(`
		SELECT `+taskColumns+`
		FROM tasks
		WHERE project_id = ?
		ORDER BY created_at, id
	`), projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// CountByProject returns the number of tasks in a project
func (r taskRepo) CountByProject(ctx context.Context, projectID int64) (int, error) {
	q := r.db.conn(ctx)

	var count int
	err := q.GetContext(ctx, &count, q.Rebind(`SELECT COUNT(*) FROM tasks WHERE project_id = ?`), projectID)
	return count, err
}

// Save writes the mutable fields of an existing task
func (r taskRepo) Save(ctx context.Context, t *model.Task) error {
	q := r.db.conn(ctx)

	res, err := q.ExecContext(ctx, q.Rebind(`
		UPDATE tasks
		SET title = ?, description = ?, status = ?, deadline = ?, closed_at = ?
		WHERE id = ?
	`), t.Title, t.Description, t.Status, t.Deadline, t.ClosedAt, t.ID)
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return expectOneRow(res, model.NotFoundf("task with id %d not found", t.ID))
}

// Delete removes a task
func (r taskRepo) Delete(ctx context.Context, id int64) error {
	q := r.db.conn(ctx)

	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOneRow(res, model.NotFoundf("task with id %d not found", id))
}

// DeleteByProject removes every task of a project
func (r taskRepo) DeleteByProject(ctx context.Context, projectID int64) error {
	q := r.db.conn(ctx)

	if _, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM tasks WHERE project_id = ?`), projectID); err != nil {
		return fmt.Errorf("delete project tasks: %w", err)
	}
	return nil
}

// GetOverdueTasks returns open tasks whose deadline is before now's date
func (r taskRepo) GetOverdueTasks(ctx context.Context, now time.Time) ([]model.Task, error) {
	q := r.db.conn(ctx)

	tasks := []model.Task{}
	err := q.SelectContext(ctx, &tasks, q.Rebind(`
		SELECT `+taskColumns+`
		FROM tasks
		WHERE deadline IS NOT NULL AND deadline < ? AND status <> 'done'
		ORDER BY deadline, id
	`), model.DateOf(now))
	if err != nil {
		return nil, fmt.Errorf("list overdue tasks: %w", err)
	}
	return tasks, nil
}
