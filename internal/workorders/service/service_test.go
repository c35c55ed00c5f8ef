package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"propertyai_backend/internal/events"
	"propertyai_backend/internal/maintenance/severity"
	"propertyai_backend/internal/workorders/repository"
	"propertyai_backend/internal/workorders/transport"
	"propertyai_backend/platform/apperr"
	"propertyai_backend/platform/logger"
)

type fakeWorkOrderRepo struct {
	orders      map[uuid.UUID]repository.WorkOrder
	assignments map[uuid.UUID]repository.Assignment
	booked      map[uuid.UUID]repository.ScheduledEvent
	conflicts   bool
}

func newFakeWorkOrderRepo() *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{
		orders:      make(map[uuid.UUID]repository.WorkOrder),
		assignments: make(map[uuid.UUID]repository.Assignment),
		booked:      make(map[uuid.UUID]repository.ScheduledEvent),
	}
}

func (f *fakeWorkOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*repository.WorkOrder, error) {
	wo, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	return &wo, nil
}

func (f *fakeWorkOrderRepo) List(_ context.Context) ([]repository.WorkOrder, error) {
	out := make([]repository.WorkOrder, 0, len(f.orders))
	for _, wo := range f.orders {
		out = append(out, wo)
	}
	return out, nil
}

func (f *fakeWorkOrderRepo) GetAssignment(_ context.Context, workOrderID uuid.UUID) (*repository.Assignment, error) {
	a, ok := f.assignments[workOrderID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeWorkOrderRepo) CreateWithAssignment(_ context.Context, params repository.CreateWorkOrderParams, vendorID *uuid.UUID) (*repository.WorkOrder, *repository.Assignment, error) {
	status := repository.StatusUnassigned
	if vendorID != nil {
		status = repository.StatusAssigned
	}
	wo := repository.WorkOrder{
		ID:                   uuid.New(),
		MaintenanceRequestID: params.MaintenanceRequestID,
		Title:                params.Title,
		Description:          params.Description,
		Priority:             params.Priority,
		Status:               status,
		CreatedAt:            time.Now(),
	}
	f.orders[wo.ID] = wo

	if vendorID == nil {
		return &wo, nil, nil
	}
	a := repository.Assignment{ID: uuid.New(), WorkOrderID: wo.ID, VendorID: *vendorID, CreatedAt: time.Now()}
	f.assignments[wo.ID] = a
	return &wo, &a, nil
}

func (f *fakeWorkOrderRepo) AssignVendor(_ context.Context, workOrderID, vendorID uuid.UUID) (*repository.Assignment, error) {
	if existing, ok := f.assignments[workOrderID]; ok {
		return &existing, nil
	}
	a := repository.Assignment{ID: uuid.New(), WorkOrderID: workOrderID, VendorID: vendorID, CreatedAt: time.Now()}
	f.assignments[workOrderID] = a
	wo := f.orders[workOrderID]
	wo.Status = repository.StatusAssigned
	f.orders[workOrderID] = wo
	return &a, nil
}

func (f *fakeWorkOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	wo := f.orders[id]
	wo.Status = status
	f.orders[id] = wo
	return nil
}

func (f *fakeWorkOrderRepo) CreateEvent(_ context.Context, params repository.CreateEventParams) (*repository.ScheduledEvent, error) {
	e := repository.ScheduledEvent{
		ID:          uuid.New(),
		WorkOrderID: params.WorkOrderID,
		VendorID:    params.VendorID,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		CreatedAt:   time.Now(),
	}
	f.booked[e.ID] = e
	return &e, nil
}

func (f *fakeWorkOrderRepo) ListEvents(_ context.Context, workOrderID uuid.UUID) ([]repository.ScheduledEvent, error) {
	var out []repository.ScheduledEvent
	for _, e := range f.booked {
		if e.WorkOrderID == workOrderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeWorkOrderRepo) GetEvent(_ context.Context, id uuid.UUID) (*repository.ScheduledEvent, error) {
	e, ok := f.booked[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeWorkOrderRepo) HasVendorConflict(_ context.Context, _ uuid.UUID, _, _ time.Time) (bool, error) {
	return f.conflicts, nil
}

var _ repository.Repository = (*fakeWorkOrderRepo)(nil)

type fakeRequests struct {
	requests map[uuid.UUID]RequestSummary
}

func (f *fakeRequests) GetRequestSummary(_ context.Context, id uuid.UUID) (*RequestSummary, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

type fakeResolver struct {
	ruleVendor   *uuid.UUID
	scoredVendor *uuid.UUID

	ruleCalls   int
	scoredCalls int
}

func (f *fakeResolver) RouteEmergencyRequest(_ context.Context, _ uuid.UUID) (*uuid.UUID, error) {
	f.ruleCalls++
	return f.ruleVendor, nil
}

func (f *fakeResolver) FindBestVendorForRequest(_ context.Context, _ uuid.UUID) (*uuid.UUID, error) {
	f.scoredCalls++
	return f.scoredVendor, nil
}

type fakeTasks struct {
	retries   []uuid.UUID
	reminders []uuid.UUID
}

func (f *fakeTasks) EnqueueAssignmentRetry(_ context.Context, workOrderID uuid.UUID) error {
	f.retries = append(f.retries, workOrderID)
	return nil
}

func (f *fakeTasks) EnqueueVisitReminder(_ context.Context, eventID uuid.UUID, _ time.Time) error {
	f.reminders = append(f.reminders, eventID)
	return nil
}

type fixture struct {
	repo     *fakeWorkOrderRepo
	requests *fakeRequests
	resolver *fakeResolver
	tasks    *fakeTasks
	svc      *Service
}

func newFixture() *fixture {
	log := logger.New("development")
	f := &fixture{
		repo:     newFakeWorkOrderRepo(),
		requests: &fakeRequests{requests: make(map[uuid.UUID]RequestSummary)},
		resolver: &fakeResolver{},
		tasks:    &fakeTasks{},
	}
	f.svc = New(f.repo, f.requests, f.resolver, f.tasks, events.NewInMemoryBus(log), log)
	return f
}

func (f *fixture) seedRequest(priority string) RequestSummary {
	req := RequestSummary{
		ID:          uuid.New(),
		Title:       "burst pipe",
		Description: "water everywhere in unit 4B",
		Priority:    priority,
		Status:      "OPEN",
	}
	f.requests.requests[req.ID] = req
	return req
}

func TestCreateFromRequestCopiesFieldsAndAssigns(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(severity.High)
	vendorID := uuid.New()
	f.resolver.scoredVendor = &vendorID

	resp, err := f.svc.CreateFromRequest(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("CreateFromRequest: %v", err)
	}
	if resp == nil {
		t.Fatal("expected a work order")
	}
	if resp.Title != req.Title || resp.Description != req.Description || resp.Priority != req.Priority {
		t.Fatalf("work order %+v must copy the request fields", resp)
	}
	if resp.Status != repository.StatusAssigned {
		t.Fatalf("status = %s, want ASSIGNED", resp.Status)
	}
	if resp.VendorID == nil || *resp.VendorID != vendorID {
		t.Fatalf("vendor = %v, want %v", resp.VendorID, vendorID)
	}
	if resp.AssignmentSource != "scoring" {
		t.Fatalf("source = %s, want scoring", resp.AssignmentSource)
	}
	if len(f.tasks.retries) != 0 {
		t.Fatal("an assigned order must not enqueue a retry")
	}
}

func TestCreateFromRequestMissingRequest(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreateFromRequest(context.Background(), uuid.New())
	if err != nil || resp != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", resp, err)
	}
}

func TestCreateFromRequestEmergencyUsesRoutingRule(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(severity.Emergency)
	ruleVendor := uuid.New()
	scoredVendor := uuid.New()
	f.resolver.ruleVendor = &ruleVendor
	f.resolver.scoredVendor = &scoredVendor

	resp, err := f.svc.CreateFromRequest(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("CreateFromRequest: %v", err)
	}
	if resp.VendorID == nil || *resp.VendorID != ruleVendor {
		t.Fatal("emergency requests must prefer the routing-rule vendor")
	}
	if resp.AssignmentSource != "emergency_rule" {
		t.Fatalf("source = %s, want emergency_rule", resp.AssignmentSource)
	}
	if f.resolver.scoredCalls != 0 {
		t.Fatal("scoring must not run when a rule matched")
	}
}

func TestCreateFromRequestEmergencyFallsBackToScoring(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(severity.Emergency)
	scoredVendor := uuid.New()
	f.resolver.scoredVendor = &scoredVendor

	resp, err := f.svc.CreateFromRequest(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("CreateFromRequest: %v", err)
	}
	if resp.VendorID == nil || *resp.VendorID != scoredVendor {
		t.Fatal("emergency without a rule must fall back to scoring")
	}
	if f.resolver.ruleCalls != 1 {
		t.Fatal("rules must be consulted first for emergencies")
	}
}

func TestCreateFromRequestNoVendorLeavesUnassigned(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(severity.Medium)

	resp, err := f.svc.CreateFromRequest(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("CreateFromRequest: %v", err)
	}
	if resp.Status != repository.StatusUnassigned {
		t.Fatalf("status = %s, want UNASSIGNED", resp.Status)
	}
	if resp.VendorID != nil {
		t.Fatal("an unassigned order must not carry a vendor")
	}
	if len(f.tasks.retries) != 1 || f.tasks.retries[0] != resp.ID {
		t.Fatal("an unassigned order must enqueue an assignment retry")
	}
}

func TestAssignPendingAssignsAndStops(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(severity.Medium)
	created, err := f.svc.CreateFromRequest(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("CreateFromRequest: %v", err)
	}

	// Still no vendor: the retry must error so the queue backs off.
	if err := f.svc.AssignPending(context.Background(), created.ID); err == nil {
		t.Fatal("expected an error while no vendor is available")
	}

	vendorID := uuid.New()
	f.resolver.scoredVendor = &vendorID
	if err := f.svc.AssignPending(context.Background(), created.ID); err != nil {
		t.Fatalf("AssignPending: %v", err)
	}

	wo, _ := f.repo.GetByID(context.Background(), created.ID)
	if wo.Status != repository.StatusAssigned {
		t.Fatalf("status = %s, want ASSIGNED", wo.Status)
	}

	// A second retry for an already-assigned order is a no-op.
	if err := f.svc.AssignPending(context.Background(), created.ID); err != nil {
		t.Fatalf("repeat AssignPending: %v", err)
	}
}

func TestAssignPendingDropsVanishedOrder(t *testing.T) {
	f := newFixture()

	if err := f.svc.AssignPending(context.Background(), uuid.New()); err != nil {
		t.Fatalf("vanished order must be dropped, got %v", err)
	}
}

func TestScheduleEventDefaultsToOneHour(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(severity.Medium)
	created, _ := f.svc.CreateFromRequest(context.Background(), req.ID)

	before := time.Now()
	event, err := f.svc.ScheduleEvent(context.Background(), created.ID, transport.ScheduleEventRequest{})
	if err != nil {
		t.Fatalf("ScheduleEvent: %v", err)
	}
	if event == nil {
		t.Fatal("expected a scheduled event")
	}
	if got := event.EndTime.Sub(event.StartTime); got != time.Hour {
		t.Fatalf("window = %v, want 1h", got)
	}
	if event.StartTime.Before(before.Add(-time.Second)) {
		t.Fatal("default start must be now")
	}
	if len(f.tasks.reminders) != 1 {
		t.Fatal("scheduling must enqueue a reminder")
	}
}

func TestScheduleEventHonorsExplicitWindow(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(severity.Medium)
	created, _ := f.svc.CreateFromRequest(context.Background(), req.ID)

	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	event, err := f.svc.ScheduleEvent(context.Background(), created.ID, transport.ScheduleEventRequest{
		StartTime:       &start,
		DurationMinutes: 90,
	})
	if err != nil {
		t.Fatalf("ScheduleEvent: %v", err)
	}
	if !event.StartTime.Equal(start) {
		t.Fatalf("start = %v, want %v", event.StartTime, start)
	}
	if got := event.EndTime.Sub(event.StartTime); got != 90*time.Minute {
		t.Fatalf("window = %v, want 90m", got)
	}
}

func TestScheduleEventVendorConflict(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(severity.Medium)
	vendorID := uuid.New()
	f.resolver.scoredVendor = &vendorID
	created, _ := f.svc.CreateFromRequest(context.Background(), req.ID)

	f.repo.conflicts = true
	_, err := f.svc.ScheduleEvent(context.Background(), created.ID, transport.ScheduleEventRequest{})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("got %v, want conflict error", err)
	}
}

func TestScheduleEventMissingWorkOrder(t *testing.T) {
	f := newFixture()

	event, err := f.svc.ScheduleEvent(context.Background(), uuid.New(), transport.ScheduleEventRequest{})
	if err != nil || event != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", event, err)
	}
}

func TestGetWorkOrderNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetWorkOrder(context.Background(), uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("got %v, want not-found error", err)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(severity.Low)
	created, _ := f.svc.CreateFromRequest(context.Background(), req.ID)

	if err := f.svc.UpdateStatus(context.Background(), created.ID, "BOGUS"); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("got %v, want validation error", err)
	}
	if err := f.svc.UpdateStatus(context.Background(), created.ID, repository.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	wo, _ := f.repo.GetByID(context.Background(), created.ID)
	if wo.Status != repository.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", wo.Status)
	}
}

func TestRemindVisitPublishesAndDropsVanished(t *testing.T) {
	f := newFixture()
	req := f.seedRequest(severity.Medium)
	created, _ := f.svc.CreateFromRequest(context.Background(), req.ID)
	event, err := f.svc.ScheduleEvent(context.Background(), created.ID, transport.ScheduleEventRequest{})
	if err != nil {
		t.Fatalf("ScheduleEvent: %v", err)
	}

	if err := f.svc.RemindVisit(context.Background(), event.ID); err != nil {
		t.Fatalf("RemindVisit: %v", err)
	}
	if err := f.svc.RemindVisit(context.Background(), uuid.New()); err != nil {
		t.Fatalf("vanished event must be dropped, got %v", err)
	}
}
