// Package memstore keeps projects and tasks in process memory.
// It backs the "memory" storage driver and the service tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dori/todolist/internal/model"
	"github.com/dori/todolist/internal/service"
)

// Store is an in-memory service.Store
type Store struct {
	mu sync.RWMutex

	nextProjectID int64
	nextTaskID    int64

	projects map[int64]model.Project
	tasks    map[int64]model.Task

	now func() time.Time
}

// New returns an empty store
func New() *Store {
	return &Store{
		nextProjectID: 1,
		nextTaskID:    1,
		projects:      make(map[int64]model.Project),
		tasks:         make(map[int64]model.Task),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source used for created_at
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Projects() service.ProjectRepository { return projectRepo{s} }

func (s *Store) Tasks() service.TaskRepository { return taskRepo{s} }

// Ping always succeeds
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op
func (s *Store) Close() error { return nil }

type txKey struct{}

// undoLog holds the inverse of every write made inside one transaction
type undoLog struct {
	steps []func()
}

// record registers undo for a write just made under s.mu.
// Outside a transaction it does nothing.
func record(ctx context.Context, undo func()) {
	if l, ok := ctx.Value(txKey{}).(*undoLog); ok {
		l.steps = append(l.steps, undo)
	}
}

// WithinTx runs fn and reverts the writes fn made if it fails.
// Only the transaction's own writes are reverted; writes committed by other
// callers in the meantime are kept. Nested calls join the outer transaction.
// Ids handed out inside a failed transaction are not reused.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*undoLog); ok {
		return fn(ctx)
	}

	l := &undoLog{}
	if err := fn(context.WithValue(ctx, txKey{}, l)); err != nil {
		s.mu.Lock()
		for i := len(l.steps) - 1; i >= 0; i-- {
			l.steps[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneTask(t model.Task) model.Task {
	out := t
	if t.Deadline != nil {
		d := *t.Deadline
		out.Deadline = &d
	}
	if t.ClosedAt != nil {
		c := *t.ClosedAt
		out.ClosedAt = &c
	}
	return out
}

// byCreation orders by created_at, then id for identical timestamps
func byCreation[T any](items []T, created func(T) time.Time, id func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return id(items[i]) < id(items[j])
	})
}
