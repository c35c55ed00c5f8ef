// Package service implements work-order materialization, vendor assignment,
// and visit scheduling.
//
// Pipeline semantics: operations that consume upstream entities return a nil
// result and nil error when the entity does not exist. Plain API reads return
// a not-found error instead.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"propertyai_backend/internal/events"
	"propertyai_backend/internal/maintenance/severity"
	"propertyai_backend/internal/workorders/repository"
	"propertyai_backend/internal/workorders/transport"
	"propertyai_backend/platform/apperr"
	"propertyai_backend/platform/logger"
)

const (
	// defaultVisitDuration applies when a schedule request omits duration.
	defaultVisitDuration = time.Hour
	// reminderLead is how long before a visit the reminder fires.
	reminderLead = 24 * time.Hour

	sourceEmergencyRule = "emergency_rule"
	sourceScoring       = "scoring"
)

// RequestSummary is the slice of a maintenance request this module consumes.
type RequestSummary struct {
	ID          uuid.UUID
	Title       string
	Description string
	Priority    string
	Status      string
}

// RequestReader resolves maintenance requests. Returns nil when the request
// does not exist.
type RequestReader interface {
	GetRequestSummary(ctx context.Context, id uuid.UUID) (*RequestSummary, error)
}

// VendorResolver picks vendors for work orders. Both methods return nil when
// no vendor could be resolved.
type VendorResolver interface {
	// RouteEmergencyRequest matches an emergency routing rule.
	RouteEmergencyRequest(ctx context.Context, requestID uuid.UUID) (*uuid.UUID, error)
	// FindBestVendorForRequest scores the vendor pool for the request's context.
	FindBestVendorForRequest(ctx context.Context, requestID uuid.UUID) (*uuid.UUID, error)
}

// TaskEnqueuer dispatches background tasks. Nil-safe wiring is the caller's
// concern; the service treats enqueue failures as non-fatal.
type TaskEnqueuer interface {
	EnqueueAssignmentRetry(ctx context.Context, workOrderID uuid.UUID) error
	EnqueueVisitReminder(ctx context.Context, eventID uuid.UUID, remindAt time.Time) error
}

// Service coordinates work-order creation, assignment, and scheduling.
type Service struct {
	repo     repository.Repository
	requests RequestReader
	resolver VendorResolver
	tasks    TaskEnqueuer
	eventBus events.Bus
	log      *logger.Logger
}

// New creates the work-orders service.
func New(repo repository.Repository, requests RequestReader, resolver VendorResolver,
	tasks TaskEnqueuer, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		requests: requests,
		resolver: resolver,
		tasks:    tasks,
		eventBus: eventBus,
		log:      log,
	}
}

// CreateFromRequest materializes a work order from a maintenance request,
// copying its title, description, and priority, and assigns a vendor in the
// same transaction. Emergency requests consult routing rules first; all
// other paths fall through to scoring. Returns nil when the request does
// not exist.
func (s *Service) CreateFromRequest(ctx context.Context, requestID uuid.UUID) (*transport.WorkOrderResponse, error) {
	req, err := s.requests.GetRequestSummary(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		s.log.PipelineStage("create_work_order", requestID.String(), "request_missing")
		return nil, nil
	}

	vendorID, source, err := s.resolveVendor(ctx, req)
	if err != nil {
		return nil, err
	}

	wo, assignment, err := s.repo.CreateWithAssignment(ctx, repository.CreateWorkOrderParams{
		MaintenanceRequestID: req.ID,
		Title:                req.Title,
		Description:          req.Description,
		Priority:             req.Priority,
	}, vendorID)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.WorkOrderCreated{
		BaseEvent:   events.NewBaseEvent(),
		WorkOrderID: wo.ID,
		RequestID:   req.ID,
		Priority:    wo.Priority,
	})

	if assignment != nil {
		s.eventBus.Publish(ctx, events.WorkOrderAssigned{
			BaseEvent:   events.NewBaseEvent(),
			WorkOrderID: wo.ID,
			VendorID:    assignment.VendorID,
			Source:      source,
		})
		s.log.PipelineStage("assign_vendor", wo.ID.String(), source)
	} else {
		s.eventBus.Publish(ctx, events.WorkOrderAssignmentFailed{
			BaseEvent:   events.NewBaseEvent(),
			WorkOrderID: wo.ID,
			Reason:      "no vendor available",
		})
		s.log.PipelineStage("assign_vendor", wo.ID.String(), "unassigned")

		if err := s.tasks.EnqueueAssignmentRetry(ctx, wo.ID); err != nil {
			s.log.Error("failed to enqueue assignment retry",
				"work_order_id", wo.ID.String(), "error", err)
		}
	}

	resp := toWorkOrderResponse(*wo, assignment)
	resp.AssignmentSource = source
	return &resp, nil
}

// resolveVendor picks a vendor for the request. Emergency requests try
// routing rules before falling back to scoring.
func (s *Service) resolveVendor(ctx context.Context, req *RequestSummary) (*uuid.UUID, string, error) {
	if req.Priority == severity.Emergency {
		vendorID, err := s.resolver.RouteEmergencyRequest(ctx, req.ID)
		if err != nil {
			return nil, "", err
		}
		if vendorID != nil {
			return vendorID, sourceEmergencyRule, nil
		}
	}

	vendorID, err := s.resolver.FindBestVendorForRequest(ctx, req.ID)
	if err != nil {
		return nil, "", err
	}
	if vendorID == nil {
		return nil, "", nil
	}
	return vendorID, sourceScoring, nil
}

// AssignPending re-attempts vendor assignment for an UNASSIGNED work order.
// Called from the background worker; returning an error triggers a retry.
// Orders that vanished or already progressed are dropped silently.
func (s *Service) AssignPending(ctx context.Context, workOrderID uuid.UUID) error {
	wo, err := s.repo.GetByID(ctx, workOrderID)
	if err != nil {
		return err
	}
	if wo == nil || wo.Status != repository.StatusUnassigned {
		return nil
	}

	req := &RequestSummary{ID: wo.MaintenanceRequestID, Priority: wo.Priority}
	vendorID, source, err := s.resolveVendor(ctx, req)
	if err != nil {
		return err
	}
	if vendorID == nil {
		return fmt.Errorf("no vendor available for work order %s", workOrderID)
	}

	assignment, err := s.repo.AssignVendor(ctx, workOrderID, *vendorID)
	if err != nil {
		return err
	}

	s.eventBus.Publish(ctx, events.WorkOrderAssigned{
		BaseEvent:   events.NewBaseEvent(),
		WorkOrderID: workOrderID,
		VendorID:    assignment.VendorID,
		Source:      source,
	})
	s.log.PipelineStage("assign_vendor_retry", workOrderID.String(), source)
	return nil
}

// GetWorkOrder returns a work order with its assignment.
func (s *Service) GetWorkOrder(ctx context.Context, id uuid.UUID) (*transport.WorkOrderResponse, error) {
	wo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, apperr.NotFound("work order not found")
	}

	assignment, err := s.repo.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toWorkOrderResponse(*wo, assignment)
	return &resp, nil
}

// ListWorkOrders returns all work orders.
func (s *Service) ListWorkOrders(ctx context.Context) ([]transport.WorkOrderResponse, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]transport.WorkOrderResponse, 0, len(orders))
	for _, wo := range orders {
		resp = append(resp, toWorkOrderResponse(wo, nil))
	}
	return resp, nil
}

// UpdateStatus transitions a work order's status.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !repository.ValidStatus(status) {
		return apperr.Validation("unknown work order status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		wo, getErr := s.repo.GetByID(ctx, id)
		if getErr == nil && wo == nil {
			return apperr.NotFound("work order not found")
		}
		return err
	}
	return nil
}

// ScheduleEvent books a visit window for a work order. The window defaults
// to one hour starting now. When the order has an assigned vendor, an
// overlapping booking for that vendor is a conflict. Returns nil when the
// work order does not exist.
func (s *Service) ScheduleEvent(ctx context.Context, workOrderID uuid.UUID, req transport.ScheduleEventRequest) (*transport.ScheduledEventResponse, error) {
	wo, err := s.repo.GetByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		s.log.PipelineStage("schedule_visit", workOrderID.String(), "work_order_missing")
		return nil, nil
	}

	start := time.Now()
	if req.StartTime != nil {
		start = *req.StartTime
	}
	duration := defaultVisitDuration
	if req.DurationMinutes > 0 {
		duration = time.Duration(req.DurationMinutes) * time.Minute
	}
	end := start.Add(duration)

	var vendorID *uuid.UUID
	assignment, err := s.repo.GetAssignment(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if assignment != nil {
		vendorID = &assignment.VendorID

		conflict, err := s.repo.HasVendorConflict(ctx, assignment.VendorID, start, end)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, apperr.Conflict("vendor already booked for this window")
		}
	}

	event, err := s.repo.CreateEvent(ctx, repository.CreateEventParams{
		WorkOrderID: workOrderID,
		VendorID:    vendorID,
		StartTime:   start,
		EndTime:     end,
	})
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, events.VisitScheduled{
		BaseEvent:   events.NewBaseEvent(),
		EventID:     event.ID,
		WorkOrderID: workOrderID,
		VendorID:    vendorID,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
	})
	s.log.PipelineStage("schedule_visit", workOrderID.String(), "booked")

	if err := s.tasks.EnqueueVisitReminder(ctx, event.ID, event.StartTime.Add(-reminderLead)); err != nil {
		s.log.Error("failed to enqueue visit reminder",
			"event_id", event.ID.String(), "error", err)
	}

	resp := toEventResponse(*event)
	return &resp, nil
}

// ListEvents returns a work order's scheduled visits.
func (s *Service) ListEvents(ctx context.Context, workOrderID uuid.UUID) ([]transport.ScheduledEventResponse, error) {
	booked, err := s.repo.ListEvents(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	resp := make([]transport.ScheduledEventResponse, 0, len(booked))
	for _, e := range booked {
		resp = append(resp, toEventResponse(e))
	}
	return resp, nil
}

// RemindVisit publishes the reminder event for a scheduled visit. Called
// from the background worker. Vanished events are dropped silently.
func (s *Service) RemindVisit(ctx context.Context, eventID uuid.UUID) error {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return nil
	}

	s.eventBus.Publish(ctx, events.VisitReminderDue{
		BaseEvent:   events.NewBaseEvent(),
		EventID:     event.ID,
		WorkOrderID: event.WorkOrderID,
	})
	s.log.PipelineStage("visit_reminder", event.ID.String(), "published")
	return nil
}

func toWorkOrderResponse(wo repository.WorkOrder, assignment *repository.Assignment) transport.WorkOrderResponse {
	resp := transport.WorkOrderResponse{
		ID:                   wo.ID,
		MaintenanceRequestID: wo.MaintenanceRequestID,
		Title:                wo.Title,
		Description:          wo.Description,
		Priority:             wo.Priority,
		Status:               wo.Status,
		CreatedAt:            wo.CreatedAt,
	}
	if assignment != nil {
		resp.VendorID = &assignment.VendorID
	}
	return resp
}

func toEventResponse(e repository.ScheduledEvent) transport.ScheduledEventResponse {
	return transport.ScheduledEventResponse{
		ID:          e.ID,
		WorkOrderID: e.WorkOrderID,
		VendorID:    e.VendorID,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		CreatedAt:   e.CreatedAt,
	}
}
