package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/workforce-api/internal/config"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/events"
	"github.com/phrazzld/workforce-api/internal/metrics"
	"github.com/phrazzld/workforce-api/internal/platform/memory"
	"github.com/phrazzld/workforce-api/internal/platform/postgres"
	"github.com/phrazzld/workforce-api/internal/service"
	"github.com/phrazzld/workforce-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory driver.
	db *sql.DB

	taskStore   store.TaskStore
	taskService service.TaskService

	// metrics is nil when disabled.
	metrics *metrics.Metrics

	eventEmitter events.EventEmitter
	asyncEmitter *events.AsyncEmitter
}

// newApplication wires the store selected by cfg.Database.Driver, the event
// pipeline and the task service. The returned application owns db.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	case config.DriverMemory:
		app.taskStore = memory.NewTaskStore(logger)
		logger.Warn("using in-memory task store, data is lost on restart")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	// Event pipeline: handlers are registered on the in-memory emitter, which
	// is optionally fronted by the async queue.
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLoggingHandler(logger))
	if cfg.Metrics.Enabled {
		app.metrics = metrics.New(cfg.Metrics.Namespace)
		emitter.RegisterHandler(app.metrics)
	}
	app.eventEmitter = emitter

	if cfg.Events.Async {
		app.asyncEmitter = events.NewAsyncEmitter(emitter, events.AsyncEmitterConfig{
			QueueSize:   cfg.Events.QueueSize,
			WorkerCount: cfg.Events.WorkerCount,
		}, logger)
		app.asyncEmitter.Start()
		app.eventEmitter = app.asyncEmitter
	}

	taskService, err := service.NewTaskService(app.taskStore, domain.DefaultCatalog(), app.eventEmitter, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	app.taskService = taskService

	logger.Info("application initialized",
		"database_driver", cfg.Database.Driver,
		"metrics_enabled", cfg.Metrics.Enabled,
		"async_events", cfg.Events.Async)
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup drains queued events and closes the database.
func (app *application) cleanup() {
	if app.asyncEmitter != nil {
		app.asyncEmitter.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
