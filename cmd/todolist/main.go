package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/todolist/internal/app"
	"github.com/dori/todolist/internal/config"
	"github.com/dori/todolist/internal/rest"
	"github.com/dori/todolist/internal/rest/handlers"
	"github.com/dori/todolist/internal/sweep"
	"github.com/dori/todolist/internal/ui"
	"github.com/dori/todolist/internal/ui/theme"
)

var (
	version = "0.1.0"
)

func main() {
	command := "menu"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	switch command {
	case "version":
		fmt.Printf("todolist v%s\n", version)
		return
	case "help", "-h", "--help":
		printHelp()
		return
	case "serve", "menu", "autoclose":
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		printHelp()
		os.Exit(2)
	}

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "configuration file")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "serve":
		err = runServe(cfg)
	case "autoclose":
		err = runAutoclose(cfg)
	case "menu":
		err = runMenu(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `todolist - projects and tasks with deadlines

Usage:
  todolist [menu]           Start the interactive menu
  todolist serve            Start the HTTP API and the overdue sweeper
  todolist autoclose        Close overdue tasks once (for cron)
  todolist version          Show version
  todolist help             Show this help

Options:
  -config <path>    Configuration file (default config.yaml, optional)

Environment:
  LOG_LEVEL, TODOLIST_DATA_DIR, DB_DRIVER, DB_DSN, HTTP_ADDRESS, HTTP_TIMEOUT,
  MAX_NUMBER_OF_PROJECTS, MAX_NUMBER_OF_TASKS, SWEEP_INTERVAL, SWEEP_NOTIFY,
  TODOLIST_THEME

Cron example:
  0 * * * * todolist autoclose`

	fmt.Println(help)
}

func runServe(cfg config.Config) error {
	log := mustMakeLogger(cfg.LogLevel, os.Stderr)

	application, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	deps := rest.Deps{
		Store:    application.Store,
		Projects: application.Projects,
		Tasks:    application.Tasks,
		Sweeper:  application.Sweeper,
	}

	server := http.Server{
		Addr:              cfg.HTTP.Address,
		ReadHeaderTimeout: cfg.HTTP.Timeout,
		Handler:           handlers.NewHandler(log, deps, cfg.HTTP.Timeout),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go application.Sweeper.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("todolist http server", "address", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runAutoclose(cfg config.Config) error {
	log := mustMakeLogger(cfg.LogLevel, os.Stderr)

	application, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	closed, err := application.Sweeper.RunOnce(context.Background(), time.Time{})
	if errors.Is(err, sweep.ErrSweepInProgress) {
		fmt.Println("Another sweep is running, nothing to do.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Closed %d overdue task(s).\n", closed)
	return nil
}

func runMenu(cfg config.Config) error {
	// stderr belongs to the terminal UI, so the menu logs to a file
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "menu.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	log := mustMakeLogger(cfg.LogLevel, logFile)

	application, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	if t, ok := theme.ByName(cfg.Theme); ok {
		theme.SetTheme(t)
	} else {
		log.Warn("unknown theme, using default", "theme", cfg.Theme)
	}

	model := ui.NewRootModel(application.Projects, application.Tasks, application.Sweeper)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}

func mustMakeLogger(logLevel string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
