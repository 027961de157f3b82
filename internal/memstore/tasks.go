package memstore

import (
	"context"
	"time"

	"github.com/dori/todolist/internal/model"
)

type taskRepo struct {
	s *Store
}

func (r taskRepo) Create(ctx context.Context, projectID int64, title, description string, status model.Status, deadline *model.Date) (*model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[projectID]; !ok {
		return nil, model.NotFoundf("project with id %d not found", projectID)
	}

	t := model.Task{
		ID:          r.s.nextTaskID,
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   r.s.now(),
	}
	if deadline != nil {
		d := *deadline
		t.Deadline = &d
	}
	r.s.nextTaskID++
	r.s.tasks[t.ID] = t
	record(ctx, func() { delete(r.s.tasks, t.ID) })

	out := cloneTask(t)
	return &out, nil
}

func (r taskRepo) GetByID(_ context.Context, id int64) (*model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, model.NotFoundf("task with id %d not found", id)
	}
	out := cloneTask(t)
	return &out, nil
}

func (r taskRepo) ListByProject(_ context.Context, projectID int64) ([]model.Task, error) {
	return r.filter(func(t model.Task) bool { return t.ProjectID == projectID }), nil
}

func (r taskRepo) CountByProject(_ context.Context, projectID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.taskCountLocked(projectID), nil
}

// Save overwrites the mutable fields of an existing task
func (r taskRepo) Save(ctx context.Context, t *model.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.tasks[t.ID]
	if !ok {
		return model.NotFoundf("task with id %d not found", t.ID)
	}

	next := cloneTask(*t)
	next.ProjectID = cur.ProjectID
	next.CreatedAt = cur.CreatedAt
	r.s.tasks[t.ID] = next
	record(ctx, func() {
		// stored tasks share no pointers, so == only matches our own write
		if r.s.tasks[cur.ID] == next {
			r.s.tasks[cur.ID] = cur
		}
	})
	return nil
}

func (r taskRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.tasks[id]
	if !ok {
		return model.NotFoundf("task with id %d not found", id)
	}
	delete(r.s.tasks, id)
	record(ctx, func() { r.s.restoreTask(old) })
	return nil
}

func (r taskRepo) DeleteByProject(ctx context.Context, projectID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var removed []model.Task
	for id, t := range r.s.tasks {
		if t.ProjectID == projectID {
			removed = append(removed, t)
			delete(r.s.tasks, id)
		}
	}
	record(ctx, func() {
		for _, t := range removed {
			r.s.restoreTask(t)
		}
	})
	return nil
}

func (r taskRepo) GetOverdueTasks(_ context.Context, now time.Time) ([]model.Task, error) {
	return r.filter(func(t model.Task) bool { return t.IsOverdue(now) }), nil
}

func (r taskRepo) filter(keep func(model.Task) bool) []model.Task {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var tasks []model.Task
	for _, t := range r.s.tasks {
		if keep(t) {
			tasks = append(tasks, cloneTask(t))
		}
	}
	byCreation(tasks,
		func(t model.Task) time.Time { return t.CreatedAt },
		func(t model.Task) int64 { return t.ID })

	return tasks
}

// restoreTask puts back a deleted task unless its id was taken again
func (s *Store) restoreTask(t model.Task) {
	if _, ok := s.tasks[t.ID]; !ok {
		s.tasks[t.ID] = t
	}
}
