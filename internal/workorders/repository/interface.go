package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Work order statuses. UNASSIGNED marks orders created without a vendor,
// pending a retry of assignment.
const (
	StatusOpen       = "OPEN"
	StatusUnassigned = "UNASSIGNED"
	StatusAssigned   = "ASSIGNED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// ValidStatus reports whether s is a known work-order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusUnassigned, StatusAssigned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// WorkOrder mirrors the work_orders table.
type WorkOrder struct {
	ID                   uuid.UUID
	MaintenanceRequestID uuid.UUID
	Title                string
	Description          string
	Priority             string
	Status               string
	CreatedAt            time.Time
}

// Assignment links a work order to its vendor. A work order has at most one.
type Assignment struct {
	ID          uuid.UUID
	WorkOrderID uuid.UUID
	VendorID    uuid.UUID
	CreatedAt   time.Time
}

// ScheduledEvent is a booked visit window for a work order.
type ScheduledEvent struct {
	ID          uuid.UUID
	WorkOrderID uuid.UUID
	VendorID    *uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
	CreatedAt   time.Time
}

// CreateWorkOrderParams are the inputs for materializing a work order.
type CreateWorkOrderParams struct {
	MaintenanceRequestID uuid.UUID
	Title                string
	Description          string
	Priority             string
}

// CreateEventParams are the inputs for booking a visit.
type CreateEventParams struct {
	WorkOrderID uuid.UUID
	VendorID    *uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
}

// Reader provides read access to work orders. Getters return nil when the
// entity does not exist.
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	List(ctx context.Context) ([]WorkOrder, error)
	GetAssignment(ctx context.Context, workOrderID uuid.UUID) (*Assignment, error)
}

// Writer mutates work orders and assignments.
type Writer interface {
	// CreateWithAssignment inserts the work order and, when vendorID is set,
	// its assignment in a single transaction. The returned assignment is nil
	// when no vendor was given.
	CreateWithAssignment(ctx context.Context, params CreateWorkOrderParams, vendorID *uuid.UUID) (*WorkOrder, *Assignment, error)
	// AssignVendor attaches a vendor to an existing work order and marks it
	// ASSIGNED. Idempotent: an existing assignment is returned unchanged.
	AssignVendor(ctx context.Context, workOrderID, vendorID uuid.UUID) (*Assignment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// EventStore manages scheduled visit windows.
type EventStore interface {
	CreateEvent(ctx context.Context, params CreateEventParams) (*ScheduledEvent, error)
	ListEvents(ctx context.Context, workOrderID uuid.UUID) ([]ScheduledEvent, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*ScheduledEvent, error)
	// HasVendorConflict reports whether the vendor already has a booking
	// overlapping [start, end).
	HasVendorConflict(ctx context.Context, vendorID uuid.UUID, start, end time.Time) (bool, error)
}

// Repository is the full work-order persistence surface.
type Repository interface {
	Reader
	Writer
	EventStore
}
