// Package service implements the maintenance-side pipeline stages:
// categorization, emergency detection, keyword escalation, response-time
// tracking, and predictive maintenance.
//
// Stage contracts follow the pipeline convention: a missing request, empty
// category set, or empty history is a valid "nothing to do" outcome signaled
// by a nil result, never an error. Errors are reserved for bad input and
// store failures.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"propertyai_backend/internal/events"
	"propertyai_backend/internal/maintenance/classify"
	"propertyai_backend/internal/maintenance/repository"
	"propertyai_backend/internal/maintenance/severity"
	"propertyai_backend/internal/maintenance/transport"
	"propertyai_backend/platform/apperr"
	"propertyai_backend/platform/logger"
)

const (
	// predictionHorizonMonths is how far after the last completed repair the
	// next failure is predicted. Placeholder estimator pending a real
	// time-series model; the contract (unit -> optional prediction) is stable.
	predictionHorizonMonths = 6
	predictionConfidence    = 0.75
	predictionComponent     = "HVAC"
)

// Service implements the maintenance pipeline stages.
type Service struct {
	repo       repository.Repository
	classifier classify.Classifier
	fallback   classify.Classifier
	// fileRules, when set, overrides store-backed escalation rules.
	fileRules *severity.RuleSet
	eventBus  events.Bus
	log       *logger.Logger
}

// New creates the maintenance service. fileRules may be nil, in which case
// escalation rules are loaded from the store on each call (the stages hold no
// cross-call state).
func New(repo repository.Repository, classifier classify.Classifier, fileRules *severity.RuleSet, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		classifier: classifier,
		fallback:   classify.NewRandomClassifier(nil),
		fileRules:  fileRules,
		eventBus:   eventBus,
		log:        log,
	}
}

// CreateRequest files a new maintenance request (intake).
func (s *Service) CreateRequest(ctx context.Context, req transport.CreateMaintenanceRequestRequest) (transport.MaintenanceRequestResponse, error) {
	priority := req.Priority
	if priority == "" {
		priority = severity.Low
	}
	if !severity.Valid(priority) {
		return transport.MaintenanceRequestResponse{}, apperr.Validation("unknown priority")
	}

	exists, err := s.repo.UnitExists(ctx, req.UnitID)
	if err != nil {
		return transport.MaintenanceRequestResponse{}, err
	}
	if !exists {
		return transport.MaintenanceRequestResponse{}, apperr.Validation("unit does not exist")
	}

	created, err := s.repo.CreateRequest(ctx, repository.CreateRequestParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		UnitID:      req.UnitID,
	})
	if err != nil {
		return transport.MaintenanceRequestResponse{}, err
	}

	s.eventBus.Publish(ctx, events.MaintenanceRequestCreated{
		BaseEvent: events.NewBaseEvent(),
		RequestID: created.ID,
		UnitID:    created.UnitID,
		Priority:  created.Priority,
	})

	return toRequestResponse(created), nil
}

// GetRequest retrieves a request for API consumers; absent ids are 404s here,
// unlike the pipeline stages.
func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (transport.MaintenanceRequestResponse, error) {
	req, err := s.repo.GetRequestByID(ctx, id)
	if err != nil {
		return transport.MaintenanceRequestResponse{}, err
	}
	if req == nil {
		return transport.MaintenanceRequestResponse{}, apperr.NotFound("maintenance request not found")
	}
	return toRequestResponse(*req), nil
}

// ListRequests retrieves all maintenance requests.
func (s *Service) ListRequests(ctx context.Context) ([]transport.MaintenanceRequestResponse, error) {
	requests, err := s.repo.ListRequests(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.MaintenanceRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, toRequestResponse(req))
	}
	return responses, nil
}

// Categorize assigns a category to the request by classifying its text.
// Returns nil when the request is absent or no categories exist. When the
// keyword classifier has no opinion the selection falls back to uniform
// random, preserving the legacy behavior as a last resort.
func (s *Service) Categorize(ctx context.Context, requestID uuid.UUID) (*transport.CategorizationResponse, error) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, nil
	}

	candidates := make([]classify.Candidate, 0, len(categories))
	for _, cat := range categories {
		candidates = append(candidates, classify.Candidate{
			ID:       cat.ID,
			Name:     cat.Name,
			Keywords: cat.Keywords,
		})
	}

	text := req.Title + " " + req.Description
	strategy := "keyword"
	result, ok := s.classifier.Classify(text, candidates)
	if !ok {
		strategy = "random"
		result, ok = s.fallback.Classify(text, candidates)
		if !ok {
			return nil, nil
		}
	}

	if err := s.repo.SetRequestCategory(ctx, req.ID, result.Candidate.ID); err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.RequestCategorized{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  req.ID,
		CategoryID: result.Candidate.ID,
		Category:   result.Candidate.Name,
		Confidence: result.Confidence,
	})
	s.log.PipelineStage("categorize", req.ID.String(), result.Candidate.Name)

	return &transport.CategorizationResponse{
		Category: transport.CategoryResponse{
			ID:       result.Candidate.ID,
			Name:     result.Candidate.Name,
			Keywords: result.Candidate.Keywords,
		},
		Confidence: result.Confidence,
		Strategy:   strategy,
	}, nil
}

// IsEmergency reports whether the request's stored priority is EMERGENCY.
// A missing request is not an emergency, not an error.
func (s *Service) IsEmergency(ctx context.Context, requestID uuid.UUID) (bool, error) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return false, err
	}
	if req == nil {
		return false, nil
	}
	return req.Priority == severity.Emergency, nil
}

// EscalatePriority scans the request description against the ordered severity
// rule set and raises the priority when a rule outranks the current value.
// Priorities are monotonic: escalation never lowers a priority, even when a
// matched rule maps to a lower level. Returns nil when the request is absent.
func (s *Service) EscalatePriority(ctx context.Context, requestID uuid.UUID) (*transport.EscalationResponse, error) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, nil
	}

	rules, err := s.escalationRules(ctx)
	if err != nil {
		return nil, err
	}

	resp := &transport.EscalationResponse{
		RequestID:    req.ID,
		FromPriority: req.Priority,
		ToPriority:   req.Priority,
	}

	rule, matched := rules.Match(req.Description)
	if !matched || severity.Rank(rule.Priority) <= severity.Rank(req.Priority) {
		return resp, nil
	}

	if err := s.repo.UpdateRequestPriority(ctx, req.ID, rule.Priority); err != nil {
		return nil, err
	}

	resp.ToPriority = rule.Priority
	resp.Escalated = true
	resp.MatchedRule = rule.Pattern

	s.eventBus.Publish(ctx, events.PriorityEscalated{
		BaseEvent:    events.NewBaseEvent(),
		RequestID:    req.ID,
		FromPriority: resp.FromPriority,
		ToPriority:   resp.ToPriority,
		MatchedRule:  rule.Pattern,
	})
	s.log.PipelineStage("escalate", req.ID.String(), resp.ToPriority)

	return resp, nil
}

// TrackResponseTime records elapsed minutes since the request was created.
// Each invocation appends a new measurement; cadence is the caller's choice.
// Returns nil when the request is absent or lacks a creation timestamp.
func (s *Service) TrackResponseTime(ctx context.Context, requestID uuid.UUID) (*transport.ResponseTimeResponse, error) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.CreatedAt.IsZero() {
		return nil, nil
	}

	minutes := time.Since(req.CreatedAt).Minutes()
	rec, err := s.repo.CreateResponseTime(ctx, req.ID, minutes)
	if err != nil {
		return nil, err
	}

	return &transport.ResponseTimeResponse{
		ID:                   rec.ID,
		MaintenanceRequestID: rec.MaintenanceRequestID,
		ResponseMinutes:      rec.ResponseMinutes,
		RecordedAt:           rec.RecordedAt,
	}, nil
}

// ListResponseTimes returns all recorded measurements for a request.
func (s *Service) ListResponseTimes(ctx context.Context, requestID uuid.UUID) ([]transport.ResponseTimeResponse, error) {
	records, err := s.repo.ListResponseTimes(ctx, requestID)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.ResponseTimeResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, transport.ResponseTimeResponse{
			ID:                   rec.ID,
			MaintenanceRequestID: rec.MaintenanceRequestID,
			ResponseMinutes:      rec.ResponseMinutes,
			RecordedAt:           rec.RecordedAt,
		})
	}
	return responses, nil
}

// PredictMaintenance estimates the unit's next failure from its most recent
// completed request. Returns nil when the unit has no completed history.
func (s *Service) PredictMaintenance(ctx context.Context, unitID uuid.UUID) (*transport.PredictionResponse, error) {
	latest, err := s.repo.LatestCompletedForUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if latest == nil || latest.CompletedAt == nil {
		return nil, nil
	}

	return &transport.PredictionResponse{
		UnitID:               unitID,
		PredictedFailureDate: latest.CompletedAt.AddDate(0, predictionHorizonMonths, 0),
		Confidence:           predictionConfidence,
		Component:            predictionComponent,
	}, nil
}

// ListCategories returns all assignable categories.
func (s *Service) ListCategories(ctx context.Context) ([]transport.CategoryResponse, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		responses = append(responses, transport.CategoryResponse{
			ID:       cat.ID,
			Name:     cat.Name,
			Keywords: cat.Keywords,
		})
	}
	return responses, nil
}

// CreateCategory adds a new category.
func (s *Service) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (transport.CategoryResponse, error) {
	cat, err := s.repo.CreateCategory(ctx, req.Name, req.Keywords)
	if err != nil {
		return transport.CategoryResponse{}, err
	}
	return transport.CategoryResponse{ID: cat.ID, Name: cat.Name, Keywords: cat.Keywords}, nil
}

func (s *Service) escalationRules(ctx context.Context) (*severity.RuleSet, error) {
	if s.fileRules != nil {
		return s.fileRules, nil
	}

	stored, err := s.repo.ListSeverityRules(ctx)
	if err != nil {
		return nil, err
	}
	rules := make([]severity.Rule, 0, len(stored))
	for _, r := range stored {
		rules = append(rules, severity.Rule{Pattern: r.Pattern, Priority: r.Priority})
	}
	return severity.NewRuleSet(rules)
}

func toRequestResponse(req repository.MaintenanceRequest) transport.MaintenanceRequestResponse {
	return transport.MaintenanceRequestResponse{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		CategoryID:  req.CategoryID,
		UnitID:      req.UnitID,
		ActualCost:  req.ActualCost,
		CreatedAt:   req.CreatedAt,
		CompletedAt: req.CompletedAt,
	}
}
