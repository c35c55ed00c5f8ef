// Package transport defines the HTTP contracts for the work-orders module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateWorkOrderRequest materializes a work order from a maintenance request.
type CreateWorkOrderRequest struct {
	MaintenanceRequestID uuid.UUID `json:"maintenanceRequestId" validate:"required"`
}

// WorkOrderResponse is a work order on the wire, including its assignment
// outcome. VendorID is null when the order is unassigned.
type WorkOrderResponse struct {
	ID                   uuid.UUID  `json:"id"`
	MaintenanceRequestID uuid.UUID  `json:"maintenanceRequestId"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Priority             string     `json:"priority"`
	Status               string     `json:"status"`
	VendorID             *uuid.UUID `json:"vendorId"`
	// AssignmentSource identifies how the vendor was chosen:
	// "emergency_rule" or "scoring". Empty when unassigned.
	AssignmentSource string    `json:"assignmentSource,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// UpdateStatusRequest transitions a work order's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=OPEN UNASSIGNED ASSIGNED IN_PROGRESS COMPLETED"`
}

// ScheduleEventRequest books a visit window for a work order. StartTime
// defaults to now and DurationMinutes to 60.
type ScheduleEventRequest struct {
	StartTime       *time.Time `json:"startTime"`
	DurationMinutes int        `json:"durationMinutes" validate:"omitempty,gt=0,lte=1440"`
}

// ScheduledEventResponse is a booked visit on the wire.
type ScheduledEventResponse struct {
	ID          uuid.UUID  `json:"id"`
	WorkOrderID uuid.UUID  `json:"workOrderId"`
	VendorID    *uuid.UUID `json:"vendorId"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     time.Time  `json:"endTime"`
	CreatedAt   time.Time  `json:"createdAt"`
}
