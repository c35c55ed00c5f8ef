package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Vendor is a contractor that can be assigned maintenance work.
type Vendor struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Phone          string
	Specialty      string
	HourlyRate     *float64
	Availability   string
	ServiceAreas   []string
	Certifications []string
	Latitude       *float64
	Longitude      *float64
	CreatedAt      time.Time
}

// PerformanceRating is a historical score for completed vendor work (1-5).
type PerformanceRating struct {
	ID        uuid.UUID
	VendorID  uuid.UUID
	Score     float64
	Comment   string
	CreatedAt time.Time
}

// CreateVendorParams contains parameters for registering a vendor.
type CreateVendorParams struct {
	Name           string
	Email          string
	Phone          string
	Specialty      string
	HourlyRate     *float64
	Availability   string
	ServiceAreas   []string
	Certifications []string
	Latitude       *float64
	Longitude      *float64
}

// ListParams filters the vendor listing. Zero values mean "no filter".
type ListParams struct {
	Availability string
	Specialty    string
	ServiceArea  string
}

// VendorReader provides read operations for vendors.
type VendorReader interface {
	GetVendorByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	ListVendors(ctx context.Context, params ListParams) ([]Vendor, error)
}

// VendorWriter provides write operations for vendors.
type VendorWriter interface {
	CreateVendor(ctx context.Context, params CreateVendorParams) (Vendor, error)
	DeleteVendor(ctx context.Context, id uuid.UUID) error
}

// RatingStore provides operations for vendor performance ratings.
type RatingStore interface {
	CreateRating(ctx context.Context, vendorID uuid.UUID, score float64, comment string) (PerformanceRating, error)
	ListRatings(ctx context.Context, vendorID uuid.UUID, limit int) ([]PerformanceRating, error)
	AverageScore(ctx context.Context, vendorID uuid.UUID) (float64, int, error)
}

// WorkloadReader reports how many open assignments a vendor currently has.
type WorkloadReader interface {
	OpenAssignmentCount(ctx context.Context, vendorID uuid.UUID) (int, error)
}

// Repository is the full data access interface for the vendors context.
type Repository interface {
	VendorReader
	VendorWriter
	RatingStore
	WorkloadReader
}
