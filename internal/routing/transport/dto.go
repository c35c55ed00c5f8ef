// Package transport defines the HTTP contracts for the routing module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateRoutingRuleRequest registers an emergency routing rule.
type CreateRoutingRuleRequest struct {
	Priority   string    `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH EMERGENCY"`
	CategoryID uuid.UUID `json:"categoryId" validate:"required"`
	VendorID   uuid.UUID `json:"vendorId" validate:"required"`
}

// RoutingRuleResponse is a routing rule on the wire.
type RoutingRuleResponse struct {
	ID         uuid.UUID `json:"id"`
	Priority   string    `json:"priority"`
	CategoryID uuid.UUID `json:"categoryId"`
	VendorID   uuid.UUID `json:"vendorId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RouteEmergencyResponse reports the outcome of rule-based routing.
// VendorID is null when no rule applied.
type RouteEmergencyResponse struct {
	RequestID uuid.UUID  `json:"requestId"`
	VendorID  *uuid.UUID `json:"vendorId"`
	Matched   bool       `json:"matched"`
}

// BestVendorResponse reports the top-scored vendor for a work order.
// VendorID is null when no vendors are registered.
type BestVendorResponse struct {
	WorkOrderID uuid.UUID  `json:"workOrderId"`
	VendorID    *uuid.UUID `json:"vendorId"`
	Score       float64    `json:"score"`
}
