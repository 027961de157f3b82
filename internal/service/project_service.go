package service

import (
	"context"
	"fmt"

	"github.com/dori/todolist/internal/model"
)

// ProjectService orchestrates project creation and updates
type ProjectService struct {
	store  Store
	limits Limits
}

// NewProjectService fails fast on invalid limits
func NewProjectService(store Store, limits Limits) (*ProjectService, error) {
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project service config: %w", err)
	}
	return &ProjectService{store: store, limits: limits}, nil
}

// CreateProject validates input, enforces the project cap and name uniqueness,
// then persists the project
func (s *ProjectService) CreateProject(ctx context.Context, name, description string) (*model.Project, error) {
	name, err := model.ValidateText(name, "project name", model.MaxNameLength, false)
	if err != nil {
		return nil, err
	}
	description, err = model.ValidateText(description, "project description", model.MaxDescriptionLength, true)
	if err != nil {
		return nil, err
	}

	var created *model.Project
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		projects := s.store.Projects()

		count, err := projects.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count projects: %w", err)
		}
		if count >= s.limits.MaxProjects {
			return model.LimitExceededf("cannot create more than %d projects", s.limits.MaxProjects)
		}

		existing, err := projects.GetByName(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to look up project name: %w", err)
		}
		if existing != nil {
			return model.Duplicatef("project with name %q already exists", name)
		}

		created, err = projects.Create(ctx, name, description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListProjects returns all projects in creation order
func (s *ProjectService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.store.Projects().ListAll(ctx)
}

// GetProject returns a project or model.ErrNotFound
func (s *ProjectService) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	return s.store.Projects().GetByID(ctx, id)
}

// UpdateProject applies the supplied fields. A new name must not belong to
// another project.
func (s *ProjectService) UpdateProject(ctx context.Context, id int64, patch model.ProjectPatch) (*model.Project, error) {
	var updated *model.Project
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		projects := s.store.Projects()

		p, err := projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			updated = p
			return nil
		}

		oldName := p.Name
		if err := p.Apply(patch); err != nil {
			return err
		}

		if p.Name != oldName {
			existing, err := projects.GetByName(ctx, p.Name)
			if err != nil {
				return fmt.Errorf("failed to look up project name: %w", err)
			}
			if existing != nil && existing.ID != p.ID {
				return model.Duplicatef("project with name %q already exists", p.Name)
			}
		}

		if err := projects.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProject removes the project's tasks and then the project itself
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.Projects().GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.store.Tasks().DeleteByProject(ctx, id); err != nil {
			return fmt.Errorf("failed to delete project tasks: %w", err)
		}
		return s.store.Projects().Delete(ctx, id)
	})
}
