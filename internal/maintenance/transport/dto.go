// Package transport defines request/response DTOs for the maintenance module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateMaintenanceRequestRequest is the intake payload for a new request.
type CreateMaintenanceRequestRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH EMERGENCY"`
	UnitID      uuid.UUID `json:"unitId" validate:"required"`
}

// MaintenanceRequestResponse is the API shape of a maintenance request.
type MaintenanceRequestResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CategoryID  *uuid.UUID `json:"categoryId,omitempty"`
	UnitID      uuid.UUID  `json:"unitId"`
	ActualCost  *float64   `json:"actualCost,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// CreateCategoryRequest adds an assignable category.
type CreateCategoryRequest struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Keywords []string `json:"keywords" validate:"dive,max=50"`
}

// CategoryResponse is the API shape of a category.
type CategoryResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Keywords []string  `json:"keywords"`
}

// CategorizationResponse reports the categorization stage's decision.
type CategorizationResponse struct {
	Category   CategoryResponse `json:"category"`
	Confidence float64          `json:"confidence"`
	// Strategy names the classifier that made the call: "keyword" or "random".
	Strategy string `json:"strategy"`
}

// EmergencyResponse reports whether a request is an emergency.
type EmergencyResponse struct {
	RequestID uuid.UUID `json:"requestId"`
	Emergency bool      `json:"emergency"`
}

// EscalationResponse reports the outcome of keyword escalation.
type EscalationResponse struct {
	RequestID    uuid.UUID `json:"requestId"`
	FromPriority string    `json:"fromPriority"`
	ToPriority   string    `json:"toPriority"`
	Escalated    bool      `json:"escalated"`
	MatchedRule  string    `json:"matchedRule,omitempty"`
}

// ResponseTimeResponse is a recorded response-time measurement.
type ResponseTimeResponse struct {
	ID                   uuid.UUID `json:"id"`
	MaintenanceRequestID uuid.UUID `json:"maintenanceRequestId"`
	ResponseMinutes      float64   `json:"responseMinutes"`
	RecordedAt           time.Time `json:"recordedAt"`
}

// PredictionResponse estimates a unit's next likely failure.
type PredictionResponse struct {
	UnitID               uuid.UUID `json:"unitId"`
	PredictedFailureDate time.Time `json:"predictedFailureDate"`
	Confidence           float64   `json:"confidence"`
	Component            string    `json:"component"`
}
