package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `id, title, description, priority, status, category_id, unit_id, actual_cost, created_at, completed_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new maintenance repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetRequestByID retrieves a maintenance request, or nil when absent.
func (r *Repo) GetRequestByID(ctx context.Context, id uuid.UUID) (*MaintenanceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM maintenance_requests
		WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get maintenance request by id: %w", err)
	}
	return req, nil
}

// ListRequests retrieves all maintenance requests, newest first.
func (r *Repo) ListRequests(ctx context.Context) ([]MaintenanceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM maintenance_requests
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list maintenance requests: %w", err)
	}
	defer rows.Close()

	var requests []MaintenanceRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("list maintenance requests: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// LatestCompletedForUnit retrieves the most recently completed request for a
// unit, or nil when the unit has no completed history.
func (r *Repo) LatestCompletedForUnit(ctx context.Context, unitID uuid.UUID) (*MaintenanceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM maintenance_requests
		WHERE unit_id = $1 AND status = 'COMPLETED' AND completed_at IS NOT NULL
		ORDER BY completed_at DESC
		LIMIT 1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, unitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest completed request for unit: %w", err)
	}
	return req, nil
}

// UnitExists reports whether the unit is known.
func (r *Repo) UnitExists(ctx context.Context, unitID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM units WHERE id = $1)`, unitID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("unit exists: %w", err)
	}
	return exists, nil
}

// CreateRequest files a new maintenance request.
func (r *Repo) CreateRequest(ctx context.Context, params CreateRequestParams) (MaintenanceRequest, error) {
	query := `
		INSERT INTO maintenance_requests (title, description, priority, unit_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + requestColumns

	req, err := scanRequest(r.pool.QueryRow(ctx, query, params.Title, params.Description, params.Priority, params.UnitID))
	if err != nil {
		return MaintenanceRequest{}, fmt.Errorf("create maintenance request: %w", err)
	}
	return *req, nil
}

// SetRequestCategory persists the categorization stage's decision.
func (r *Repo) SetRequestCategory(ctx context.Context, requestID, categoryID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE maintenance_requests SET category_id = $2 WHERE id = $1`,
		requestID, categoryID)
	if err != nil {
		return fmt.Errorf("set request category: %w", err)
	}
	return nil
}

// UpdateRequestPriority persists an escalated priority.
func (r *Repo) UpdateRequestPriority(ctx context.Context, requestID uuid.UUID, priority string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE maintenance_requests SET priority = $2 WHERE id = $1`,
		requestID, priority)
	if err != nil {
		return fmt.Errorf("update request priority: %w", err)
	}
	return nil
}

// GetCategoryByID retrieves a category, or nil when absent.
func (r *Repo) GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	var cat Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, keywords FROM maintenance_categories WHERE id = $1`, id).
		Scan(&cat.ID, &cat.Name, &cat.Keywords)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return &cat, nil
}

// ListCategories retrieves all categories ordered by name.
func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, keywords FROM maintenance_categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Keywords); err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// CreateCategory adds a new assignable category.
func (r *Repo) CreateCategory(ctx context.Context, name string, keywords []string) (Category, error) {
	if keywords == nil {
		keywords = []string{}
	}
	var cat Category
	err := r.pool.QueryRow(ctx,
		`INSERT INTO maintenance_categories (name, keywords) VALUES ($1, $2) RETURNING id, name, keywords`,
		name, keywords).
		Scan(&cat.ID, &cat.Name, &cat.Keywords)
	if err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

// CreateResponseTime appends a response-time measurement.
func (r *Repo) CreateResponseTime(ctx context.Context, requestID uuid.UUID, minutes float64) (ResponseTimeRecord, error) {
	var rec ResponseTimeRecord
	err := r.pool.QueryRow(ctx, `
		INSERT INTO maintenance_response_times (maintenance_request_id, response_minutes)
		VALUES ($1, $2)
		RETURNING id, maintenance_request_id, response_minutes, recorded_at`,
		requestID, minutes).
		Scan(&rec.ID, &rec.MaintenanceRequestID, &rec.ResponseMinutes, &rec.RecordedAt)
	if err != nil {
		return ResponseTimeRecord{}, fmt.Errorf("create response time: %w", err)
	}
	return rec, nil
}

// ListResponseTimes retrieves all measurements for a request, oldest first.
func (r *Repo) ListResponseTimes(ctx context.Context, requestID uuid.UUID) ([]ResponseTimeRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, maintenance_request_id, response_minutes, recorded_at
		FROM maintenance_response_times
		WHERE maintenance_request_id = $1
		ORDER BY recorded_at ASC`,
		requestID)
	if err != nil {
		return nil, fmt.Errorf("list response times: %w", err)
	}
	defer rows.Close()

	var records []ResponseTimeRecord
	for rows.Next() {
		var rec ResponseTimeRecord
		if err := rows.Scan(&rec.ID, &rec.MaintenanceRequestID, &rec.ResponseMinutes, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("list response times: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListSeverityRules loads escalation rules in evaluation order.
func (r *Repo) ListSeverityRules(ctx context.Context) ([]SeverityRule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT pattern, priority, position FROM severity_rules ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list severity rules: %w", err)
	}
	defer rows.Close()

	var rules []SeverityRule
	for rows.Next() {
		var rule SeverityRule
		if err := rows.Scan(&rule.Pattern, &rule.Priority, &rule.Position); err != nil {
			return nil, fmt.Errorf("list severity rules: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*MaintenanceRequest, error) {
	var req MaintenanceRequest
	err := row.Scan(
		&req.ID, &req.Title, &req.Description, &req.Priority, &req.Status,
		&req.CategoryID, &req.UnitID, &req.ActualCost, &req.CreatedAt, &req.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
