// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"propertyai_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Maintenance Domain Events
// =============================================================================

// MaintenanceRequestCreated is published when a new maintenance request is filed.
type MaintenanceRequestCreated struct {
	BaseEvent
	RequestID uuid.UUID `json:"requestId"`
	UnitID    uuid.UUID `json:"unitId"`
	Priority  string    `json:"priority"`
}

func (e MaintenanceRequestCreated) EventName() string { return "maintenance.request.created" }

// RequestCategorized is published when the categorization stage assigns a category.
type RequestCategorized struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	CategoryID uuid.UUID `json:"categoryId"`
	Category   string    `json:"category"`
	Confidence float64   `json:"confidence"`
}

func (e RequestCategorized) EventName() string { return "maintenance.request.categorized" }

// PriorityEscalated is published when keyword escalation raises a request's priority.
type PriorityEscalated struct {
	BaseEvent
	RequestID    uuid.UUID `json:"requestId"`
	FromPriority string    `json:"fromPriority"`
	ToPriority   string    `json:"toPriority"`
	MatchedRule  string    `json:"matchedRule"`
}

func (e PriorityEscalated) EventName() string { return "maintenance.priority.escalated" }

// =============================================================================
// Work Order Domain Events
// =============================================================================

// WorkOrderCreated is published when a work order is materialized from a request.
type WorkOrderCreated struct {
	BaseEvent
	WorkOrderID uuid.UUID `json:"workOrderId"`
	RequestID   uuid.UUID `json:"requestId"`
	Priority    string    `json:"priority"`
}

func (e WorkOrderCreated) EventName() string { return "workorders.order.created" }

// WorkOrderAssigned is published when a vendor is assigned to a work order.
type WorkOrderAssigned struct {
	BaseEvent
	WorkOrderID uuid.UUID `json:"workOrderId"`
	VendorID    uuid.UUID `json:"vendorId"`
	// Source identifies how the vendor was chosen: "emergency_rule" or "scoring".
	Source string `json:"source"`
}

func (e WorkOrderAssigned) EventName() string { return "workorders.order.assigned" }

// WorkOrderAssignmentFailed is published when no vendor could be resolved for
// a new work order; the order remains UNASSIGNED pending retry.
type WorkOrderAssignmentFailed struct {
	BaseEvent
	WorkOrderID uuid.UUID `json:"workOrderId"`
	Reason      string    `json:"reason"`
}

func (e WorkOrderAssignmentFailed) EventName() string { return "workorders.assignment.failed" }

// VisitScheduled is published when a scheduled event is booked for a work order.
type VisitScheduled struct {
	BaseEvent
	EventID     uuid.UUID  `json:"eventId"`
	WorkOrderID uuid.UUID  `json:"workOrderId"`
	VendorID    *uuid.UUID `json:"vendorId,omitempty"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     time.Time  `json:"endTime"`
}

func (e VisitScheduled) EventName() string { return "workorders.visit.scheduled" }

// VisitReminderDue is published by the worker when a scheduled visit is imminent.
type VisitReminderDue struct {
	BaseEvent
	EventID     uuid.UUID `json:"eventId"`
	WorkOrderID uuid.UUID `json:"workOrderId"`
}

func (e VisitReminderDue) EventName() string { return "workorders.visit.reminder_due" }
