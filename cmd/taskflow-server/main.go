package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskflow-labs/taskflow/internal/analytics"
	"github.com/taskflow-labs/taskflow/internal/config"
	"github.com/taskflow-labs/taskflow/internal/demo"
	"github.com/taskflow-labs/taskflow/internal/event"
	"github.com/taskflow-labs/taskflow/internal/eventbus"
	"github.com/taskflow-labs/taskflow/internal/seed"
	"github.com/taskflow-labs/taskflow/internal/task"
	taskrepo "github.com/taskflow-labs/taskflow/internal/task/repositoryimpl"
	"github.com/taskflow-labs/taskflow/internal/userstory"
	storyrepo "github.com/taskflow-labs/taskflow/internal/userstory/repositoryimpl"
	"github.com/taskflow-labs/taskflow/pkg/hlog"

	server "github.com/taskflow-labs/taskflow/internal"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = hlog.NewTextHandler(os.Stderr, hlog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(hlog.NewAttributesHandler(handler)))

	// Setup event bus and repositories
	bus := eventbus.New()
	taskRepository := taskrepo.NewMemoryRepository()
	storyRepository := storyrepo.NewMemoryRepository()

	// Seed the store: built-in fixtures, or a YAML seed file when given.
	fixtures := seed.Defaults()
	if env.SeedFile != "" {
		fixtures, err = seed.LoadFile(env.SeedFile)
		if err != nil {
			slog.Error("failed to load seed file", "path", env.SeedFile, "error", err)
			os.Exit(1)
		}
	}
	seed.Apply(fixtures, taskRepository, storyRepository)
	slog.Info("store seeded", "tasks", len(fixtures.Tasks), "user_stories", len(fixtures.UserStories))

	// Setup servers
	demoServer := demo.NewServer()
	taskServer := task.NewServer(taskRepository, bus)
	storyServer := userstory.NewServer(storyRepository, bus)
	eventServer := event.NewServer(bus)
	analyticsServer := analytics.NewServer(taskRepository, bus)

	srv := server.NewServer(env, demoServer, taskServer, storyServer, eventServer, analyticsServer)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if env.SeedFile != "" && env.SeedWatch {
		watcher := seed.NewWatcher(env.SeedFile, taskRepository, storyRepository)
		go func() {
			if err := watcher.Start(ctx); err != nil {
				slog.Error("seed watcher failed", "error", err)
			}
		}()
	}

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	// Give active connections time to finish after stream contexts are cancelled.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
