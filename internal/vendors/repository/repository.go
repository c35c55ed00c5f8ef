package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"propertyai_backend/platform/apperr"
)

const vendorColumns = `id, name, email, phone, specialty, hourly_rate, availability, service_areas, certifications, latitude, longitude, created_at`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new vendors repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetVendorByID retrieves a vendor, or nil when absent.
func (r *Repo) GetVendorByID(ctx context.Context, id uuid.UUID) (*Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`

	vendor, err := scanVendor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor by id: %w", err)
	}
	return vendor, nil
}

// ListVendors retrieves vendors matching the filters, ordered by name.
func (r *Repo) ListVendors(ctx context.Context, params ListParams) ([]Vendor, error) {
	builder := psql.Select(vendorColumns).From("vendors").OrderBy("name ASC")

	if params.Availability != "" {
		builder = builder.Where(sq.Eq{"availability": params.Availability})
	}
	if params.Specialty != "" {
		builder = builder.Where(sq.Eq{"specialty": params.Specialty})
	}
	if params.ServiceArea != "" {
		builder = builder.Where("? = ANY (service_areas)", params.ServiceArea)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build vendor list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []Vendor
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("list vendors: %w", err)
		}
		vendors = append(vendors, *vendor)
	}
	return vendors, rows.Err()
}

// CreateVendor registers a new vendor.
func (r *Repo) CreateVendor(ctx context.Context, params CreateVendorParams) (Vendor, error) {
	if params.ServiceAreas == nil {
		params.ServiceAreas = []string{}
	}
	if params.Certifications == nil {
		params.Certifications = []string{}
	}

	query := `
		INSERT INTO vendors (name, email, phone, specialty, hourly_rate, availability, service_areas, certifications, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + vendorColumns

	vendor, err := scanVendor(r.pool.QueryRow(ctx, query,
		params.Name, params.Email, params.Phone, params.Specialty, params.HourlyRate,
		params.Availability, params.ServiceAreas, params.Certifications, params.Latitude, params.Longitude,
	))
	if err != nil {
		return Vendor{}, fmt.Errorf("create vendor: %w", err)
	}
	return *vendor, nil
}

// DeleteVendor removes a vendor.
func (r *Repo) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("vendor not found")
	}
	return nil
}

// CreateRating records a performance score for a vendor.
func (r *Repo) CreateRating(ctx context.Context, vendorID uuid.UUID, score float64, comment string) (PerformanceRating, error) {
	var rating PerformanceRating
	err := r.pool.QueryRow(ctx, `
		INSERT INTO vendor_performance_ratings (vendor_id, score, comment)
		VALUES ($1, $2, $3)
		RETURNING id, vendor_id, score, comment, created_at`,
		vendorID, score, comment).
		Scan(&rating.ID, &rating.VendorID, &rating.Score, &rating.Comment, &rating.CreatedAt)
	if err != nil {
		return PerformanceRating{}, fmt.Errorf("create vendor rating: %w", err)
	}
	return rating, nil
}

// ListRatings retrieves the most recent ratings for a vendor.
func (r *Repo) ListRatings(ctx context.Context, vendorID uuid.UUID, limit int) ([]PerformanceRating, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, vendor_id, score, comment, created_at
		FROM vendor_performance_ratings
		WHERE vendor_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		vendorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list vendor ratings: %w", err)
	}
	defer rows.Close()

	var ratings []PerformanceRating
	for rows.Next() {
		var rating PerformanceRating
		if err := rows.Scan(&rating.ID, &rating.VendorID, &rating.Score, &rating.Comment, &rating.CreatedAt); err != nil {
			return nil, fmt.Errorf("list vendor ratings: %w", err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// AverageScore returns the vendor's mean rating and the rating count.
func (r *Repo) AverageScore(ctx context.Context, vendorID uuid.UUID) (float64, int, error) {
	var avg *float64
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT AVG(score), COUNT(*)
		FROM vendor_performance_ratings
		WHERE vendor_id = $1`,
		vendorID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("average vendor score: %w", err)
	}
	if avg == nil {
		return 0, 0, nil
	}
	return *avg, count, nil
}

// OpenAssignmentCount counts assignments whose work order is still active.
func (r *Repo) OpenAssignmentCount(ctx context.Context, vendorID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM work_order_assignments a
		JOIN work_orders w ON w.id = a.work_order_id
		WHERE a.vendor_id = $1 AND w.status IN ('OPEN', 'ASSIGNED', 'IN_PROGRESS')`,
		vendorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("open assignment count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVendor(row rowScanner) (*Vendor, error) {
	var v Vendor
	err := row.Scan(
		&v.ID, &v.Name, &v.Email, &v.Phone, &v.Specialty, &v.HourlyRate,
		&v.Availability, &v.ServiceAreas, &v.Certifications, &v.Latitude, &v.Longitude, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
