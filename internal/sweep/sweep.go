// Package sweep schedules the overdue-task auto close.
//
// Runs are serialized across processes with an exclusive file lock, so a
// cron-driven `todolist autoclose` and the ticker inside `todolist serve`
// never close the same tasks at the same time.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrSweepInProgress is returned when another sweep holds the lock
var ErrSweepInProgress = errors.New("another overdue sweep is in progress")

// Closer closes overdue tasks and reports how many it closed
type Closer interface {
	CloseOverdueTasks(ctx context.Context, now time.Time) (int, error)
}

// Notifier is told about sweeps that closed something
type Notifier interface {
	SendTasksClosed(count int) error
}

// Sweeper runs the overdue sweep once or on an interval
type Sweeper struct {
	closer   Closer
	lockPath string
	interval time.Duration
	log      *slog.Logger
	notifier Notifier
}

// New creates a sweeper. notifier may be nil.
func New(closer Closer, lockPath string, interval time.Duration, log *slog.Logger, notifier Notifier) *Sweeper {
	return &Sweeper{
		closer:   closer,
		lockPath: lockPath,
		interval: interval,
		log:      log,
		notifier: notifier,
	}
}

// RunOnce closes overdue tasks as of now while holding the sweep lock
func (s *Sweeper) RunOnce(ctx context.Context, now time.Time) (int, error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(s.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return 0, fmt.Errorf("failed to acquire sweep lock: %w", err)
	}
	if !locked {
		s.log.Warn("skipping overdue sweep, lock is held", "lock", s.lockPath)
		return 0, ErrSweepInProgress
	}
	defer lock.Unlock()

	closed, err := s.closer.CloseOverdueTasks(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to close overdue tasks: %w", err)
	}

	s.log.Info("overdue sweep finished", "closed", closed)

	if closed > 0 && s.notifier != nil {
		if err := s.notifier.SendTasksClosed(closed); err != nil {
			s.log.Warn("failed to send sweep notification", "error", err)
		}
	}

	return closed, nil
}

// Run sweeps immediately and then on every tick until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info("overdue sweeper started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx, time.Time{}); err != nil && !errors.Is(err, ErrSweepInProgress) {
			s.log.Error("overdue sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			s.log.Debug("overdue sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}
