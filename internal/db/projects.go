package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dori/todolist/internal/model"
)

const projectColumns = `
	p.id, p.name, p.description, p.created_at,
	(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count`

type projectRepo struct {
	db *DB
}

// Create inserts a new project. A UNIQUE violation on the name becomes
// model.ErrDuplicate.
func (r projectRepo) Create(ctx context.Context, name, description string) (*model.Project, error) {
	q := r.db.conn(ctx)
	now := time.Now().UTC()

	var id int64
	err := q.QueryRowxContext(ctx, q.Rebind(`
		INSERT INTO projects (name, description, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`), name, description, now).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.Duplicatef("project with name %q already exists", name)
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}

	return &model.Project{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   now,
	}, nil
}

// GetByID returns a single project by ID
func (r projectRepo) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	q := r.db.conn(ctx)

	var p model.Project
	err := q.GetContext(ctx, &p, q.Rebind(`SELECT `+projectColumns+` FROM projects p WHERE p.id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NotFoundf("project with id %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// GetByName returns nil when no project has that name
func (r projectRepo) GetByName(ctx context.Context, name string) (*model.Project, error) {
	q := r.db.conn(ctx)

	var p model.Project
	err := q.GetContext(ctx, &p, q.Rebind(`SELECT `+projectColumns+` FROM projects p WHERE p.name = ?`), name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project by name: %w", err)
	}
	return &p, nil
}

// ListAll returns all projects in creation order
func (r projectRepo) ListAll(ctx context.Context) ([]model.Project, error) {
	projects := []model.Project{}
	err := r.db.conn(ctx).SelectContext(ctx, &projects, `
		SELECT `+projectColumns+`
		FROM projects p
		ORDER BY p.created_at, p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Count returns the number of projects
func (r projectRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.conn(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM projects`)
	return count, err
}

// Update writes the project's name and description
func (r projectRepo) Update(ctx context.Context, p *model.Project) error {
	q := r.db.conn(ctx)

	res, err := q.ExecContext(ctx, q.Rebind(`
		UPDATE projects SET name = ?, description = ? WHERE id = ?
	`), p.Name, p.Description, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Duplicatef("project with name %q already exists", p.Name)
		}
		return fmt.Errorf("update project: %w", err)
	}
	return expectOneRow(res, model.NotFoundf("project with id %d not found", p.ID))
}

// Delete removes the project row. Callers delete the tasks first.
func (r projectRepo) Delete(ctx context.Context, id int64) error {
	q := r.db.conn(ctx)

	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM projects WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return expectOneRow(res, model.NotFoundf("project with id %d not found", id))
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
