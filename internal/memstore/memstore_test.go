package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dori/todolist/internal/model"
)

func TestWithinTxRollsBack(t *testing.T) {
	s := New()
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.Projects().Create(ctx, "Home", "")
		if err != nil {
			return err
		}
		if _, err := s.Tasks().Create(ctx, p.ID, "dishes", "", model.StatusTodo, nil); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if n, _ := s.Projects().Count(ctx); n != 0 {
		t.Errorf("expected rollback to remove the project, got %d", n)
	}

	if n, _ := s.Tasks().CountByProject(ctx, 1); n != 0 {
		t.Errorf("expected rollback to remove the task, got %d", n)
	}
	if _, err := s.Projects().Create(ctx, "Home", ""); err != nil {
		t.Fatalf("Create after rollback failed: %v", err)
	}
}

func TestWithinTxKeepsWritesOutsideTheTx(t *testing.T) {
	s := New()
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.Projects().Create(txCtx, "Home", ""); err != nil {
			return err
		}
		// another request commits while the tx is still open
		if _, err := s.Projects().Create(context.Background(), "other request", ""); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	items, err := s.Projects().ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(items) != 1 || items[0].Name != "other request" {
		t.Fatalf("expected only the outside project to remain, got %+v", items)
	}
}

func TestWithinTxRestoresUpdatesAndDeletes(t *testing.T) {
	s := New()
	ctx := context.Background()

	p, _ := s.Projects().Create(ctx, "Home", "chores")
	task, _ := s.Tasks().Create(ctx, p.ID, "dishes", "", model.StatusTodo, nil)

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		renamed := *p
		renamed.Name = "House"
		if err := s.Projects().Update(ctx, &renamed); err != nil {
			return err
		}
		changed := *task
		changed.Status = model.StatusDone
		if err := s.Tasks().Save(ctx, &changed); err != nil {
			return err
		}
		if err := s.Tasks().DeleteByProject(ctx, p.ID); err != nil {
			return err
		}
		if err := s.Projects().Delete(ctx, p.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	gotP, err := s.Projects().GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("expected project to be restored: %v", err)
	}
	if gotP.Name != "Home" {
		t.Errorf("expected original name, got %q", gotP.Name)
	}
	gotT, err := s.Tasks().GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("expected task to be restored: %v", err)
	}
	if gotT.Status != model.StatusTodo {
		t.Errorf("expected original status, got %s", gotT.Status)
	}
}

func TestWithinTxCommitKeepsWrites(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.Projects().Create(ctx, "Home", "")
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx failed: %v", err)
	}
	if n, _ := s.Projects().Count(ctx); n != 1 {
		t.Errorf("expected committed project, got %d", n)
	}
}

func TestListsAreOrderedByCreation(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	for _, name := range []string{"b", "a", "c"} {
		if _, err := s.Projects().Create(ctx, name, ""); err != nil {
			t.Fatalf("Create(%q) failed: %v", name, err)
		}
	}

	items, err := s.Projects().ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	var names []string
	for _, p := range items {
		names = append(names, p.Name)
	}
	if len(names) != 3 || names[0] != "b" || names[1] != "a" || names[2] != "c" {
		t.Errorf("expected creation order [b a c], got %v", names)
	}
}

func TestReturnedTasksAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	p, _ := s.Projects().Create(ctx, "Home", "")
	task, err := s.Tasks().Create(ctx, p.ID, "dishes", "", model.StatusTodo, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	task.Title = "changed"
	got, _ := s.Tasks().GetByID(ctx, task.ID)
	if got.Title != "dishes" {
		t.Errorf("store was mutated through a returned pointer: %q", got.Title)
	}
}
