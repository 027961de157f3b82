package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dori/todolist/internal/config"
	"github.com/dori/todolist/internal/db"
	"github.com/dori/todolist/internal/memstore"
	"github.com/dori/todolist/internal/notify"
	"github.com/dori/todolist/internal/service"
	"github.com/dori/todolist/internal/sweep"
)

// Store is a service.Store the app can health check and release
type Store interface {
	service.Store
	Ping(ctx context.Context) error
	Close() error
}

// App holds the application state and dependencies
type App struct {
	Config   config.Config
	Store    Store
	Projects *service.ProjectService
	Tasks    *service.TaskService
	Notifier *notify.Notifier
	Sweeper  *sweep.Sweeper
}

// New creates a new application instance
func New(cfg config.Config, log *slog.Logger) (*App, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.DB.Driver, err)
	}

	limits := service.Limits{
		MaxProjects:        cfg.Limits.MaxProjects,
		MaxTasksPerProject: cfg.Limits.MaxTasksPerProject,
	}

	projects, err := service.NewProjectService(store, limits)
	if err != nil {
		store.Close()
		return nil, err
	}
	tasks, err := service.NewTaskService(store, limits)
	if err != nil {
		store.Close()
		return nil, err
	}

	notifier := notify.NewNotifier(cfg.Sweep.Notify)

	log.Debug("application ready", "driver", cfg.DB.Driver, "data_dir", cfg.DataDir)

	return &App{
		Config:   cfg,
		Store:    store,
		Projects: projects,
		Tasks:    tasks,
		Notifier: notifier,
		Sweeper:  sweep.New(tasks, cfg.LockPath(), cfg.Sweep.Interval, log, notifier),
	}, nil
}

func openStore(cfg config.Config) (Store, error) {
	switch cfg.DB.Driver {
	case config.DriverMemory:
		return memstore.New(), nil
	case config.DriverSQLite, config.DriverPostgres:
		database, err := db.Open(cfg.DB.Driver, cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		return database, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
	}
	return nil
}
