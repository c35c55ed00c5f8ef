// Package scheduler wraps asynq for background task dispatch and processing.
package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type identifiers registered on the queue.
const (
	// TaskAssignmentRetry re-attempts vendor assignment for an UNASSIGNED work order.
	TaskAssignmentRetry = "workorders.assignment.retry"
	// TaskVisitReminder fires shortly before a scheduled visit starts.
	TaskVisitReminder = "scheduling.visit.reminder"
)

// AssignmentRetryPayload identifies the work order to re-route.
type AssignmentRetryPayload struct {
	WorkOrderID uuid.UUID `json:"workOrderId"`
}

// VisitReminderPayload identifies the scheduled event the reminder is for.
type VisitReminderPayload struct {
	EventID uuid.UUID `json:"eventId"`
}

// NewAssignmentRetryTask builds the retry task.
func NewAssignmentRetryTask(workOrderID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(AssignmentRetryPayload{WorkOrderID: workOrderID})
	if err != nil {
		return nil, fmt.Errorf("marshal assignment retry payload: %w", err)
	}
	return asynq.NewTask(TaskAssignmentRetry, payload), nil
}

// NewVisitReminderTask builds the reminder task.
func NewVisitReminderTask(eventID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(VisitReminderPayload{EventID: eventID})
	if err != nil {
		return nil, fmt.Errorf("marshal visit reminder payload: %w", err)
	}
	return asynq.NewTask(TaskVisitReminder, payload), nil
}

// ParseAssignmentRetryPayload decodes the retry task payload.
func ParseAssignmentRetryPayload(task *asynq.Task) (AssignmentRetryPayload, error) {
	var p AssignmentRetryPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return AssignmentRetryPayload{}, fmt.Errorf("unmarshal assignment retry payload: %w", err)
	}
	return p, nil
}

// ParseVisitReminderPayload decodes the reminder task payload.
func ParseVisitReminderPayload(task *asynq.Task) (VisitReminderPayload, error) {
	var p VisitReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return VisitReminderPayload{}, fmt.Errorf("unmarshal visit reminder payload: %w", err)
	}
	return p, nil
}
