package memstore

import (
	"context"
	"time"

	"github.com/dori/todolist/internal/model"
)

type projectRepo struct {
	s *Store
}

func (r projectRepo) Create(ctx context.Context, name, description string) (*model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.projects {
		if p.Name == name {
			return nil, model.Duplicatef("project with name %q already exists", name)
		}
	}

	id := r.s.nextProjectID
	p, err := model.NewProject(id, name, description, r.s.now())
	if err != nil {
		return nil, err
	}
	r.s.nextProjectID++
	r.s.projects[id] = *p
	record(ctx, func() { delete(r.s.projects, id) })

	return p, nil
}

func (r projectRepo) GetByID(_ context.Context, id int64) (*model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, model.NotFoundf("project with id %d not found", id)
	}
	p.TaskCount = r.s.taskCountLocked(id)
	return &p, nil
}

func (r projectRepo) GetByName(_ context.Context, name string) (*model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.projects {
		if p.Name == name {
			p.TaskCount = r.s.taskCountLocked(p.ID)
			return &p, nil
		}
	}
	return nil, nil
}

func (r projectRepo) ListAll(_ context.Context) ([]model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	projects := make([]model.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		p.TaskCount = r.s.taskCountLocked(p.ID)
		projects = append(projects, p)
	}
	byCreation(projects,
		func(p model.Project) time.Time { return p.CreatedAt },
		func(p model.Project) int64 { return p.ID })

	return projects, nil
}

func (r projectRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.projects), nil
}

func (r projectRepo) Update(ctx context.Context, p *model.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.projects[p.ID]
	if !ok {
		return model.NotFoundf("project with id %d not found", p.ID)
	}
	for id, other := range r.s.projects {
		if id != p.ID && other.Name == p.Name {
			return model.Duplicatef("project with name %q already exists", p.Name)
		}
	}

	prev := cur
	cur.Name = p.Name
	cur.Description = p.Description
	r.s.projects[p.ID] = cur
	record(ctx, func() {
		// a later write by someone else wins over the rollback
		if r.s.projects[prev.ID] == cur {
			r.s.projects[prev.ID] = prev
		}
	})
	return nil
}

func (r projectRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.projects[id]
	if !ok {
		return model.NotFoundf("project with id %d not found", id)
	}
	delete(r.s.projects, id)
	record(ctx, func() {
		if _, ok := r.s.projects[id]; !ok {
			r.s.projects[id] = old
		}
	})
	return nil
}

func (s *Store) taskCountLocked(projectID int64) int {
	n := 0
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			n++
		}
	}
	return n
}
