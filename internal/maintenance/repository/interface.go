package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaintenanceRequest is a tenant-submitted request for maintenance work.
type MaintenanceRequest struct {
	ID          uuid.UUID
	Title       string
	Description string
	Priority    string
	Status      string
	CategoryID  *uuid.UUID
	UnitID      uuid.UUID
	ActualCost  *float64
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Category is an assignable maintenance request category. Keywords feed the
// keyword classifier.
type Category struct {
	ID       uuid.UUID
	Name     string
	Keywords []string
}

// ResponseTimeRecord is an append-only measurement of elapsed minutes between
// a request's creation and a tracking checkpoint.
type ResponseTimeRecord struct {
	ID                   uuid.UUID
	MaintenanceRequestID uuid.UUID
	ResponseMinutes      float64
	RecordedAt           time.Time
}

// SeverityRule maps a text pattern to a priority, evaluated in position order.
type SeverityRule struct {
	Pattern  string
	Priority string
	Position int
}

// CreateRequestParams contains parameters for filing a maintenance request.
type CreateRequestParams struct {
	Title       string
	Description string
	Priority    string
	UnitID      uuid.UUID
}

// RequestReader provides read operations for maintenance requests.
// Getters return (nil, nil) when the row does not exist; per the pipeline's
// contract a missing request is a valid "nothing to do" outcome, not an error.
type RequestReader interface {
	GetRequestByID(ctx context.Context, id uuid.UUID) (*MaintenanceRequest, error)
	ListRequests(ctx context.Context) ([]MaintenanceRequest, error)
	LatestCompletedForUnit(ctx context.Context, unitID uuid.UUID) (*MaintenanceRequest, error)
	UnitExists(ctx context.Context, unitID uuid.UUID) (bool, error)
}

// RequestWriter provides write operations for maintenance requests.
type RequestWriter interface {
	CreateRequest(ctx context.Context, params CreateRequestParams) (MaintenanceRequest, error)
	SetRequestCategory(ctx context.Context, requestID, categoryID uuid.UUID) error
	UpdateRequestPriority(ctx context.Context, requestID uuid.UUID, priority string) error
}

// CategoryStore provides operations for maintenance categories.
type CategoryStore interface {
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string, keywords []string) (Category, error)
}

// ResponseTimeStore provides operations for response-time audit records.
type ResponseTimeStore interface {
	CreateResponseTime(ctx context.Context, requestID uuid.UUID, minutes float64) (ResponseTimeRecord, error)
	ListResponseTimes(ctx context.Context, requestID uuid.UUID) ([]ResponseTimeRecord, error)
}

// SeverityRuleReader loads the ordered escalation rule set.
type SeverityRuleReader interface {
	ListSeverityRules(ctx context.Context) ([]SeverityRule, error)
}

// Repository is the full data access interface for the maintenance context.
type Repository interface {
	RequestReader
	RequestWriter
	CategoryStore
	ResponseTimeStore
	SeverityRuleReader
}
