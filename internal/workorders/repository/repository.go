package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements Repository on pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new work-order repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const workOrderColumns = `id, maintenance_request_id, title, description, priority, status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkOrder(row rowScanner) (*WorkOrder, error) {
	var wo WorkOrder
	err := row.Scan(&wo.ID, &wo.MaintenanceRequestID, &wo.Title, &wo.Description,
		&wo.Priority, &wo.Status, &wo.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// GetByID returns a work order, or nil when it does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1`

	wo, err := scanWorkOrder(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get work order by id: %w", err)
	}
	return wo, nil
}

// List returns all work orders, newest first.
func (r *Repo) List(ctx context.Context) ([]WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()

	var orders []WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("list work orders: %w", err)
		}
		orders = append(orders, *wo)
	}
	return orders, rows.Err()
}

// GetAssignment returns the work order's assignment, or nil when unassigned.
func (r *Repo) GetAssignment(ctx context.Context, workOrderID uuid.UUID) (*Assignment, error) {
	query := `
		SELECT id, work_order_id, vendor_id, created_at
		FROM work_order_assignments
		WHERE work_order_id = $1`

	var a Assignment
	err := r.pool.QueryRow(ctx, query, workOrderID).Scan(&a.ID, &a.WorkOrderID, &a.VendorID, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get work order assignment: %w", err)
	}
	return &a, nil
}

// CreateWithAssignment inserts the work order and its assignment atomically.
// The order lands ASSIGNED when a vendor is given, UNASSIGNED otherwise.
func (r *Repo) CreateWithAssignment(ctx context.Context, params CreateWorkOrderParams, vendorID *uuid.UUID) (*WorkOrder, *Assignment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin create work order: %w", err)
	}
	defer tx.Rollback(ctx)

	status := StatusUnassigned
	if vendorID != nil {
		status = StatusAssigned
	}

	insertOrder := `
		INSERT INTO work_orders (maintenance_request_id, title, description, priority, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + workOrderColumns

	wo, err := scanWorkOrder(tx.QueryRow(ctx, insertOrder,
		params.MaintenanceRequestID, params.Title, params.Description, params.Priority, status))
	if err != nil {
		return nil, nil, fmt.Errorf("insert work order: %w", err)
	}

	var assignment *Assignment
	if vendorID != nil {
		insertAssignment := `
			INSERT INTO work_order_assignments (work_order_id, vendor_id)
			VALUES ($1, $2)
			RETURNING id, work_order_id, vendor_id, created_at`

		var a Assignment
		err = tx.QueryRow(ctx, insertAssignment, wo.ID, *vendorID).
			Scan(&a.ID, &a.WorkOrderID, &a.VendorID, &a.CreatedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("insert work order assignment: %w", err)
		}
		assignment = &a
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit create work order: %w", err)
	}
	return wo, assignment, nil
}

// AssignVendor attaches a vendor to an existing work order and marks it
// ASSIGNED. An order that already has an assignment keeps it.
func (r *Repo) AssignVendor(ctx context.Context, workOrderID, vendorID uuid.UUID) (*Assignment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin assign vendor: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO work_order_assignments (work_order_id, vendor_id)
		VALUES ($1, $2)
		ON CONFLICT (work_order_id) DO NOTHING`
	if _, err := tx.Exec(ctx, insert, workOrderID, vendorID); err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}

	update := `UPDATE work_orders SET status = $1 WHERE id = $2 AND status = $3`
	if _, err := tx.Exec(ctx, update, StatusAssigned, workOrderID, StatusUnassigned); err != nil {
		return nil, fmt.Errorf("mark work order assigned: %w", err)
	}

	var a Assignment
	query := `SELECT id, work_order_id, vendor_id, created_at FROM work_order_assignments WHERE work_order_id = $1`
	if err := tx.QueryRow(ctx, query, workOrderID).Scan(&a.ID, &a.WorkOrderID, &a.VendorID, &a.CreatedAt); err != nil {
		return nil, fmt.Errorf("load assignment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit assign vendor: %w", err)
	}
	return &a, nil
}

// UpdateStatus transitions a work order's status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE work_orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update work order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CreateEvent books a visit window.
func (r *Repo) CreateEvent(ctx context.Context, params CreateEventParams) (*ScheduledEvent, error) {
	query := `
		INSERT INTO scheduled_events (work_order_id, vendor_id, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, work_order_id, vendor_id, start_time, end_time, created_at`

	var e ScheduledEvent
	err := r.pool.QueryRow(ctx, query, params.WorkOrderID, params.VendorID, params.StartTime, params.EndTime).
		Scan(&e.ID, &e.WorkOrderID, &e.VendorID, &e.StartTime, &e.EndTime, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert scheduled event: %w", err)
	}
	return &e, nil
}

// ListEvents returns a work order's scheduled events in start order.
func (r *Repo) ListEvents(ctx context.Context, workOrderID uuid.UUID) ([]ScheduledEvent, error) {
	query := `
		SELECT id, work_order_id, vendor_id, start_time, end_time, created_at
		FROM scheduled_events
		WHERE work_order_id = $1
		ORDER BY start_time`

	rows, err := r.pool.Query(ctx, query, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list scheduled events: %w", err)
	}
	defer rows.Close()

	var events []ScheduledEvent
	for rows.Next() {
		var e ScheduledEvent
		if err := rows.Scan(&e.ID, &e.WorkOrderID, &e.VendorID, &e.StartTime, &e.EndTime, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("list scheduled events: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetEvent returns a scheduled event, or nil when it does not exist.
func (r *Repo) GetEvent(ctx context.Context, id uuid.UUID) (*ScheduledEvent, error) {
	query := `
		SELECT id, work_order_id, vendor_id, start_time, end_time, created_at
		FROM scheduled_events
		WHERE id = $1`

	var e ScheduledEvent
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&e.ID, &e.WorkOrderID, &e.VendorID, &e.StartTime, &e.EndTime, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scheduled event: %w", err)
	}
	return &e, nil
}

// HasVendorConflict reports whether the vendor has a booking overlapping
// [start, end).
func (r *Repo) HasVendorConflict(ctx context.Context, vendorID uuid.UUID, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM scheduled_events
			WHERE vendor_id = $1 AND start_time < $3 AND end_time > $2
		)`

	var conflict bool
	if err := r.pool.QueryRow(ctx, query, vendorID, start, end).Scan(&conflict); err != nil {
		return false, fmt.Errorf("check vendor booking conflict: %w", err)
	}
	return conflict, nil
}

var _ Repository = (*Repo)(nil)
