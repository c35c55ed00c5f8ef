package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"propertyai_backend/internal/adapters"
	"propertyai_backend/internal/events"
	apphttp "propertyai_backend/internal/http"
	"propertyai_backend/internal/http/router"
	"propertyai_backend/internal/maintenance"
	"propertyai_backend/internal/routing"
	"propertyai_backend/internal/scheduler"
	"propertyai_backend/internal/vendors"
	"propertyai_backend/internal/workorders"
	workorderssvc "propertyai_backend/internal/workorders/service"
	"propertyai_backend/migrations"
	"propertyai_backend/platform/config"
	"propertyai_backend/platform/db"
	"propertyai_backend/platform/logger"
	"propertyai_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Task queue client; falls back to a no-op enqueuer without Redis
	tasks, closeTasks := initTaskQueue(cfg, log)
	if closeTasks != nil {
		defer closeTasks()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	maintenanceModule, err := maintenance.NewModule(pool, eventBus, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize maintenance module", "error", err)
		panic("failed to initialize maintenance module: " + err.Error())
	}

	vendorsModule := vendors.NewModule(pool, val)
	routingModule := routing.NewModule(pool, val, cfg, log)

	// Work orders consume maintenance requests and routing decisions through
	// adapters, keeping the modules decoupled.
	requestReader := adapters.NewMaintenanceRequestReader(maintenanceModule.Repository())
	vendorResolver := adapters.NewRoutingVendorResolver(routingModule.Service())
	workOrdersModule := workorders.NewModule(pool, val, requestReader, vendorResolver, tasks, eventBus, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:         cfg,
		Logger:         log,
		Health:         db.NewPoolAdapter(pool),
		EventBus:       eventBus,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Modules: []apphttp.Module{
			maintenanceModule,
			vendorsModule,
			routingModule,
			workOrdersModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initTaskQueue connects the asynq client, or degrades to a no-op enqueuer
// when Redis is not configured.
func initTaskQueue(cfg *config.Config, log *logger.Logger) (workorderssvc.TaskEnqueuer, func()) {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not configured; background tasks disabled")
		return scheduler.NewNoopEnqueuer(log), nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		return scheduler.NewNoopEnqueuer(log), nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
