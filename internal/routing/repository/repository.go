package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"propertyai_backend/internal/routing/scoring"
	"propertyai_backend/platform/apperr"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo implements Repository on pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates the routing repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const ruleColumns = `id, priority, category_id, vendor_id, created_at`

func scanRule(row pgx.Row) (*RoutingRule, error) {
	var r RoutingRule
	err := row.Scan(&r.ID, &r.Priority, &r.CategoryID, &r.VendorID, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRule inserts a routing rule.
func (r *Repo) CreateRule(ctx context.Context, params CreateRuleParams) (*RoutingRule, error) {
	query := `
		INSERT INTO emergency_routing_rules (priority, category_id, vendor_id)
		VALUES ($1, $2, $3)
		RETURNING ` + ruleColumns

	rule, err := scanRule(r.pool.QueryRow(ctx, query, params.Priority, params.CategoryID, params.VendorID))
	if err != nil {
		return nil, fmt.Errorf("create routing rule: %w", err)
	}
	return rule, nil
}

// ListRules returns all routing rules, newest first.
func (r *Repo) ListRules(ctx context.Context) ([]RoutingRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM emergency_routing_rules ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list routing rules: %w", err)
	}
	defer rows.Close()

	var rules []RoutingRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("list routing rules: %w", err)
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

// DeleteRule removes a routing rule.
func (r *Repo) DeleteRule(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM emergency_routing_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete routing rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("routing rule not found")
	}
	return nil
}

// FindRuleVendor returns the vendor of the newest rule matching the priority
// and category. Multiple matching rules resolve to the most recently created.
func (r *Repo) FindRuleVendor(ctx context.Context, priority string, categoryID uuid.UUID) (*uuid.UUID, error) {
	query := `
		SELECT vendor_id FROM emergency_routing_rules
		WHERE priority = $1 AND category_id = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var vendorID uuid.UUID
	err := r.pool.QueryRow(ctx, query, priority, categoryID).Scan(&vendorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find routing rule vendor: %w", err)
	}
	return &vendorID, nil
}

// GetRequestRoutingInfo resolves a maintenance request with its category and
// the property it sits in. Returns nil when the request does not exist.
func (r *Repo) GetRequestRoutingInfo(ctx context.Context, requestID uuid.UUID) (*RequestRoutingInfo, error) {
	query := `
		SELECT mr.id, mr.priority, mr.category_id,
		       COALESCE(mc.name, ''), COALESCE(p.zip_code, ''),
		       p.latitude, p.longitude
		FROM maintenance_requests mr
		JOIN units u ON u.id = mr.unit_id
		JOIN properties p ON p.id = u.property_id
		LEFT JOIN maintenance_categories mc ON mc.id = mr.category_id
		WHERE mr.id = $1`

	var info RequestRoutingInfo
	err := r.pool.QueryRow(ctx, query, requestID).Scan(
		&info.RequestID, &info.Priority, &info.CategoryID,
		&info.CategoryName, &info.ServiceArea,
		&info.PropertyLatitude, &info.PropertyLongitude,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get request routing info: %w", err)
	}
	return &info, nil
}

// GetWorkOrderRoutingInfo resolves a work order's routing context through its
// originating request. Returns nil when the work order does not exist.
func (r *Repo) GetWorkOrderRoutingInfo(ctx context.Context, workOrderID uuid.UUID) (*WorkOrderRoutingInfo, error) {
	query := `
		SELECT wo.id, mr.id, mr.priority, mr.category_id,
		       COALESCE(mc.name, ''), COALESCE(p.zip_code, ''),
		       p.latitude, p.longitude
		FROM work_orders wo
		JOIN maintenance_requests mr ON mr.id = wo.maintenance_request_id
		JOIN units u ON u.id = mr.unit_id
		JOIN properties p ON p.id = u.property_id
		LEFT JOIN maintenance_categories mc ON mc.id = mr.category_id
		WHERE wo.id = $1`

	var info WorkOrderRoutingInfo
	err := r.pool.QueryRow(ctx, query, workOrderID).Scan(
		&info.WorkOrderID, &info.RequestID, &info.Priority, &info.CategoryID,
		&info.CategoryName, &info.ServiceArea,
		&info.PropertyLatitude, &info.PropertyLongitude,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get work order routing info: %w", err)
	}
	return &info, nil
}

// ListCandidates returns vendors matching the filter, without stats.
func (r *Repo) ListCandidates(ctx context.Context, filter CandidateFilter) ([]scoring.Candidate, error) {
	builder := psql.
		Select("id", "specialty", "hourly_rate", "certifications", "latitude", "longitude").
		From("vendors")

	if filter.AvailableOnly {
		builder = builder.Where(sq.Eq{"availability": "AVAILABLE"})
	}
	if filter.Specialty != "" {
		builder = builder.Where("LOWER(specialty) = LOWER(?)", filter.Specialty)
	}
	if filter.ServiceArea != "" {
		builder = builder.Where("? = ANY (service_areas)", filter.ServiceArea)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidate query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []scoring.Candidate
	for rows.Next() {
		var c scoring.Candidate
		if err := rows.Scan(&c.VendorID, &c.Specialty, &c.HourlyRate, &c.Certifications, &c.Latitude, &c.Longitude); err != nil {
			return nil, fmt.Errorf("list candidates: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// GetVendorStats aggregates the rating history and open assignment count for
// a single vendor.
func (r *Repo) GetVendorStats(ctx context.Context, vendorID uuid.UUID) (VendorStats, error) {
	var stats VendorStats

	ratingQuery := `
		SELECT COALESCE(AVG(score), 0), COUNT(*)
		FROM vendor_performance_ratings
		WHERE vendor_id = $1`
	if err := r.pool.QueryRow(ctx, ratingQuery, vendorID).Scan(&stats.AverageRating, &stats.RatingCount); err != nil {
		return VendorStats{}, fmt.Errorf("aggregate vendor ratings: %w", err)
	}

	workloadQuery := `
		SELECT COUNT(*)
		FROM work_order_assignments woa
		JOIN work_orders wo ON wo.id = woa.work_order_id
		WHERE woa.vendor_id = $1 AND wo.status IN ('OPEN', 'ASSIGNED', 'IN_PROGRESS')`
	if err := r.pool.QueryRow(ctx, workloadQuery, vendorID).Scan(&stats.OpenAssignments); err != nil {
		return VendorStats{}, fmt.Errorf("count open assignments: %w", err)
	}

	return stats, nil
}

var _ Repository = (*Repo)(nil)
