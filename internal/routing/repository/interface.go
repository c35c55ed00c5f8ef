package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"propertyai_backend/internal/routing/scoring"
)

// RoutingRule maps an emergency category to a designated vendor.
type RoutingRule struct {
	ID         uuid.UUID
	Priority   string
	CategoryID uuid.UUID
	VendorID   uuid.UUID
	CreatedAt  time.Time
}

// CreateRuleParams are the inputs for creating a routing rule.
type CreateRuleParams struct {
	Priority   string
	CategoryID uuid.UUID
	VendorID   uuid.UUID
}

// RequestRoutingInfo is the request context routing reads: its priority,
// category, and the property the unit belongs to.
type RequestRoutingInfo struct {
	RequestID         uuid.UUID
	Priority          string
	CategoryID        *uuid.UUID
	CategoryName      string
	ServiceArea       string
	PropertyLatitude  *float64
	PropertyLongitude *float64
}

// WorkOrderRoutingInfo is the work-order context routing reads, resolved
// through the originating maintenance request.
type WorkOrderRoutingInfo struct {
	WorkOrderID       uuid.UUID
	RequestID         uuid.UUID
	Priority          string
	CategoryID        *uuid.UUID
	CategoryName      string
	ServiceArea       string
	PropertyLatitude  *float64
	PropertyLongitude *float64
}

// CandidateFilter narrows the vendor pool before scoring.
type CandidateFilter struct {
	Specialty     string
	ServiceArea   string
	AvailableOnly bool
}

// VendorStats are the per-vendor aggregates the scorer consumes.
type VendorStats struct {
	AverageRating   float64
	RatingCount     int
	OpenAssignments int
}

// RuleStore manages emergency routing rules.
type RuleStore interface {
	CreateRule(ctx context.Context, params CreateRuleParams) (*RoutingRule, error)
	ListRules(ctx context.Context) ([]RoutingRule, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
	// FindRuleVendor returns the vendor of the most recently created rule
	// matching the priority and category, or nil when no rule matches.
	FindRuleVendor(ctx context.Context, priority string, categoryID uuid.UUID) (*uuid.UUID, error)
}

// ContextReader resolves routing context for requests and work orders.
// Both getters return nil when the entity does not exist.
type ContextReader interface {
	GetRequestRoutingInfo(ctx context.Context, requestID uuid.UUID) (*RequestRoutingInfo, error)
	GetWorkOrderRoutingInfo(ctx context.Context, workOrderID uuid.UUID) (*WorkOrderRoutingInfo, error)
}

// CandidateReader lists and enriches vendor candidates.
type CandidateReader interface {
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]scoring.Candidate, error)
	GetVendorStats(ctx context.Context, vendorID uuid.UUID) (VendorStats, error)
}

// Repository is the full routing persistence surface.
type Repository interface {
	RuleStore
	ContextReader
	CandidateReader
}
