// Package adapters wires modules together behind the consumer-defined
// interfaces each module declares, keeping the bounded contexts decoupled
// from each other's types.
package adapters

import (
	"context"

	"github.com/google/uuid"

	maintrepo "propertyai_backend/internal/maintenance/repository"
	routingsvc "propertyai_backend/internal/routing/service"
	"propertyai_backend/internal/scheduler"
	workorderssvc "propertyai_backend/internal/workorders/service"
)

// MaintenanceRequestReader adapts the maintenance repository to the
// work-orders module's RequestReader.
type MaintenanceRequestReader struct {
	repo maintrepo.RequestReader
}

// NewMaintenanceRequestReader creates the adapter.
func NewMaintenanceRequestReader(repo maintrepo.RequestReader) *MaintenanceRequestReader {
	return &MaintenanceRequestReader{repo: repo}
}

// GetRequestSummary returns the request slice work orders consume, or nil
// when the request does not exist.
func (a *MaintenanceRequestReader) GetRequestSummary(ctx context.Context, id uuid.UUID) (*workorderssvc.RequestSummary, error) {
	req, err := a.repo.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, nil
	}
	return &workorderssvc.RequestSummary{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	}, nil
}

// RoutingVendorResolver adapts the routing service to the work-orders
// module's VendorResolver, dropping the score from selections.
type RoutingVendorResolver struct {
	routing *routingsvc.Service
}

// NewRoutingVendorResolver creates the adapter.
func NewRoutingVendorResolver(routing *routingsvc.Service) *RoutingVendorResolver {
	return &RoutingVendorResolver{routing: routing}
}

// RouteEmergencyRequest matches an emergency routing rule for the request.
func (a *RoutingVendorResolver) RouteEmergencyRequest(ctx context.Context, requestID uuid.UUID) (*uuid.UUID, error) {
	return a.routing.RouteEmergencyRequest(ctx, requestID)
}

// FindBestVendorForRequest scores the vendor pool for the request's context.
func (a *RoutingVendorResolver) FindBestVendorForRequest(ctx context.Context, requestID uuid.UUID) (*uuid.UUID, error) {
	selection, err := a.routing.FindBestVendorForRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if selection == nil {
		return nil, nil
	}
	return &selection.VendorID, nil
}

// Compile-time interface checks. The scheduler client satisfies the
// work-orders task enqueuer directly.
var (
	_ workorderssvc.RequestReader  = (*MaintenanceRequestReader)(nil)
	_ workorderssvc.VendorResolver = (*RoutingVendorResolver)(nil)
	_ workorderssvc.TaskEnqueuer   = (*scheduler.Client)(nil)
)
