package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"propertyai_backend/platform/logger"
)

// NoopEnqueuer satisfies the task enqueue surface when no Redis queue is
// configured. Tasks are logged and dropped; assignment retries and visit
// reminders simply do not run.
type NoopEnqueuer struct {
	log *logger.Logger
}

// NewNoopEnqueuer creates the drop-all enqueuer.
func NewNoopEnqueuer(log *logger.Logger) *NoopEnqueuer {
	return &NoopEnqueuer{log: log}
}

func (n *NoopEnqueuer) EnqueueAssignmentRetry(_ context.Context, workOrderID uuid.UUID) error {
	n.log.Warn("task queue disabled; dropping assignment retry", "work_order_id", workOrderID.String())
	return nil
}

func (n *NoopEnqueuer) EnqueueVisitReminder(_ context.Context, eventID uuid.UUID, _ time.Time) error {
	n.log.Warn("task queue disabled; dropping visit reminder", "event_id", eventID.String())
	return nil
}
