package scheduler

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"propertyai_backend/platform/config"
	"propertyai_backend/platform/logger"
)

// WorkOrderAssigner re-attempts vendor assignment for unassigned work orders.
type WorkOrderAssigner interface {
	AssignPending(ctx context.Context, workOrderID uuid.UUID) error
}

// VisitReminder publishes reminder events for scheduled visits.
type VisitReminder interface {
	RemindVisit(ctx context.Context, eventID uuid.UUID) error
}

// Worker processes background tasks off the queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

// NewWorker creates the task worker with handlers for assignment retries and
// visit reminders.
func NewWorker(cfg config.SchedulerConfig, assigner WorkOrderAssigner, reminder VisitReminder, log *logger.Logger) (*Worker, error) {
	opt, err := RedisOptFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues: map[string]int{
			cfg.GetAsynqQueueName(): 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskAssignmentRetry, func(ctx context.Context, task *asynq.Task) error {
		payload, err := ParseAssignmentRetryPayload(task)
		if err != nil {
			return err
		}
		log.Info("processing assignment retry", "work_order_id", payload.WorkOrderID.String())
		return assigner.AssignPending(ctx, payload.WorkOrderID)
	})
	mux.HandleFunc(TaskVisitReminder, func(ctx context.Context, task *asynq.Task) error {
		payload, err := ParseVisitReminderPayload(task)
		if err != nil {
			return err
		}
		log.Info("processing visit reminder", "event_id", payload.EventID.String())
		return reminder.RemindVisit(ctx, payload.EventID)
	})

	return &Worker{server: server, mux: mux, log: log}, nil
}

// Run starts the worker and blocks until shutdown.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker, waiting for in-flight tasks.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}
