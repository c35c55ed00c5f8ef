package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"propertyai_backend/internal/adapters"
	"propertyai_backend/internal/events"
	maintrepo "propertyai_backend/internal/maintenance/repository"
	routingrepo "propertyai_backend/internal/routing/repository"
	"propertyai_backend/internal/routing/scoring"
	routingsvc "propertyai_backend/internal/routing/service"
	"propertyai_backend/internal/scheduler"
	workordersrepo "propertyai_backend/internal/workorders/repository"
	workorderssvc "propertyai_backend/internal/workorders/service"
	"propertyai_backend/platform/config"
	"propertyai_backend/platform/db"
	"propertyai_backend/platform/logger"
)

// The worker drains the background queue: assignment retries for unassigned
// work orders and visit reminders. It shares the API's service wiring but
// exposes no HTTP surface.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if cfg.RedisURL == "" {
		panic("REDIS_URL is required for the worker")
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.AsynqQueueName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	tasks, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		panic("failed to initialize task queue client: " + err.Error())
	}
	defer tasks.Close()

	routingService := routingsvc.New(
		routingrepo.New(pool),
		scoring.NewWeightedScorer(cfg.GetScoringWeights()),
		log,
	)

	workOrderService := workorderssvc.New(
		workordersrepo.New(pool),
		adapters.NewMaintenanceRequestReader(maintrepo.New(pool)),
		adapters.NewRoutingVendorResolver(routingService),
		tasks,
		eventBus,
		log,
	)

	worker, err := scheduler.NewWorker(cfg, workOrderService, workOrderService, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received, stopping worker")
		worker.Shutdown()
	}()

	if err := worker.Run(); err != nil {
		log.Error("worker stopped with error", "error", err)
		panic("worker stopped with error: " + err.Error())
	}
	log.Info("worker stopped")
}
