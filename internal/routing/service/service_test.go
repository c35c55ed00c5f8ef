package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"propertyai_backend/internal/maintenance/severity"
	"propertyai_backend/internal/routing/repository"
	"propertyai_backend/internal/routing/scoring"
	"propertyai_backend/platform/config"
	"propertyai_backend/platform/logger"
)

type fakeRoutingRepo struct {
	rules      []repository.RoutingRule
	requests   map[uuid.UUID]repository.RequestRoutingInfo
	workOrders map[uuid.UUID]repository.WorkOrderRoutingInfo
	candidates []scoring.Candidate
	stats      map[uuid.UUID]repository.VendorStats

	// lastFilter records the narrowest filter that produced candidates.
	filtersSeen []repository.CandidateFilter
}

func newFakeRoutingRepo() *fakeRoutingRepo {
	return &fakeRoutingRepo{
		requests:   make(map[uuid.UUID]repository.RequestRoutingInfo),
		workOrders: make(map[uuid.UUID]repository.WorkOrderRoutingInfo),
		stats:      make(map[uuid.UUID]repository.VendorStats),
	}
}

func (f *fakeRoutingRepo) CreateRule(_ context.Context, params repository.CreateRuleParams) (*repository.RoutingRule, error) {
	rule := repository.RoutingRule{
		ID:         uuid.New(),
		Priority:   params.Priority,
		CategoryID: params.CategoryID,
		VendorID:   params.VendorID,
	}
	f.rules = append(f.rules, rule)
	return &rule, nil
}

func (f *fakeRoutingRepo) ListRules(_ context.Context) ([]repository.RoutingRule, error) {
	return f.rules, nil
}

func (f *fakeRoutingRepo) DeleteRule(_ context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeRoutingRepo) FindRuleVendor(_ context.Context, priority string, categoryID uuid.UUID) (*uuid.UUID, error) {
	// Newest-first iteration mirrors the created_at DESC lookup.
	for i := len(f.rules) - 1; i >= 0; i-- {
		rule := f.rules[i]
		if rule.Priority == priority && rule.CategoryID == categoryID {
			return &rule.VendorID, nil
		}
	}
	return nil, nil
}

func (f *fakeRoutingRepo) GetRequestRoutingInfo(_ context.Context, requestID uuid.UUID) (*repository.RequestRoutingInfo, error) {
	info, ok := f.requests[requestID]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

func (f *fakeRoutingRepo) GetWorkOrderRoutingInfo(_ context.Context, workOrderID uuid.UUID) (*repository.WorkOrderRoutingInfo, error) {
	info, ok := f.workOrders[workOrderID]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

func (f *fakeRoutingRepo) ListCandidates(_ context.Context, filter repository.CandidateFilter) ([]scoring.Candidate, error) {
	f.filtersSeen = append(f.filtersSeen, filter)
	var out []scoring.Candidate
	for _, c := range f.candidates {
		if filter.Specialty != "" && c.Specialty != filter.Specialty {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRoutingRepo) GetVendorStats(_ context.Context, vendorID uuid.UUID) (repository.VendorStats, error) {
	return f.stats[vendorID], nil
}

var _ repository.Repository = (*fakeRoutingRepo)(nil)

var testWeights = config.ScoringWeights{
	Performance: 0.3, Workload: 0.2, Specialty: 0.2,
	Cost: 0.1, Proximity: 0.1, Certification: 0.1,
}

func newTestService(repo *fakeRoutingRepo) *Service {
	return New(repo, scoring.NewWeightedScorer(testWeights), logger.New("development"))
}

func TestRouteEmergencyRequestMatchesRule(t *testing.T) {
	repo := newFakeRoutingRepo()
	svc := newTestService(repo)

	categoryID := uuid.New()
	vendorID := uuid.New()
	repo.rules = []repository.RoutingRule{
		{ID: uuid.New(), Priority: severity.Emergency, CategoryID: categoryID, VendorID: vendorID},
	}
	requestID := uuid.New()
	repo.requests[requestID] = repository.RequestRoutingInfo{
		RequestID:  requestID,
		Priority:   severity.Emergency,
		CategoryID: &categoryID,
	}

	got, err := svc.RouteEmergencyRequest(context.Background(), requestID)
	if err != nil {
		t.Fatalf("RouteEmergencyRequest: %v", err)
	}
	if got == nil || *got != vendorID {
		t.Fatalf("got %v, want %v", got, vendorID)
	}
}

func TestRouteEmergencyRequestNewestRuleWins(t *testing.T) {
	repo := newFakeRoutingRepo()
	svc := newTestService(repo)

	categoryID := uuid.New()
	older := uuid.New()
	newer := uuid.New()
	repo.rules = []repository.RoutingRule{
		{ID: uuid.New(), Priority: severity.Emergency, CategoryID: categoryID, VendorID: older},
		{ID: uuid.New(), Priority: severity.Emergency, CategoryID: categoryID, VendorID: newer},
	}
	requestID := uuid.New()
	repo.requests[requestID] = repository.RequestRoutingInfo{
		RequestID: requestID, Priority: severity.Emergency, CategoryID: &categoryID,
	}

	got, err := svc.RouteEmergencyRequest(context.Background(), requestID)
	if err != nil {
		t.Fatalf("RouteEmergencyRequest: %v", err)
	}
	if got == nil || *got != newer {
		t.Fatal("the most recently created rule must win")
	}
}

func TestRouteEmergencyRequestNilCases(t *testing.T) {
	repo := newFakeRoutingRepo()
	svc := newTestService(repo)
	categoryID := uuid.New()

	// Missing request.
	if got, err := svc.RouteEmergencyRequest(context.Background(), uuid.New()); got != nil || err != nil {
		t.Fatalf("missing request: got (%v, %v), want (nil, nil)", got, err)
	}

	// Not an emergency.
	requestID := uuid.New()
	repo.requests[requestID] = repository.RequestRoutingInfo{
		RequestID: requestID, Priority: severity.High, CategoryID: &categoryID,
	}
	if got, err := svc.RouteEmergencyRequest(context.Background(), requestID); got != nil || err != nil {
		t.Fatalf("non-emergency: got (%v, %v), want (nil, nil)", got, err)
	}

	// Emergency without a category.
	uncategorized := uuid.New()
	repo.requests[uncategorized] = repository.RequestRoutingInfo{
		RequestID: uncategorized, Priority: severity.Emergency,
	}
	if got, err := svc.RouteEmergencyRequest(context.Background(), uncategorized); got != nil || err != nil {
		t.Fatalf("uncategorized: got (%v, %v), want (nil, nil)", got, err)
	}

	// Emergency with a category but no matching rule.
	requestID2 := uuid.New()
	repo.requests[requestID2] = repository.RequestRoutingInfo{
		RequestID: requestID2, Priority: severity.Emergency, CategoryID: &categoryID,
	}
	if got, err := svc.RouteEmergencyRequest(context.Background(), requestID2); got != nil || err != nil {
		t.Fatalf("no rule: got (%v, %v), want (nil, nil)", got, err)
	}
}

func TestFindBestVendorPicksHighestScore(t *testing.T) {
	repo := newFakeRoutingRepo()
	svc := newTestService(repo)

	specialist := uuid.New()
	generalist := uuid.New()
	repo.candidates = []scoring.Candidate{
		{VendorID: generalist, Specialty: "General"},
		{VendorID: specialist, Specialty: "Plumbing"},
	}
	repo.stats[specialist] = repository.VendorStats{AverageRating: 4.8, RatingCount: 20}
	repo.stats[generalist] = repository.VendorStats{AverageRating: 3.0, RatingCount: 20, OpenAssignments: 4}

	workOrderID := uuid.New()
	repo.workOrders[workOrderID] = repository.WorkOrderRoutingInfo{
		WorkOrderID:  workOrderID,
		Priority:     severity.High,
		CategoryName: "Plumbing",
	}

	selection, err := svc.FindBestVendor(context.Background(), workOrderID)
	if err != nil {
		t.Fatalf("FindBestVendor: %v", err)
	}
	if selection == nil {
		t.Fatal("expected a selection")
	}
	if selection.VendorID != specialist {
		t.Fatal("the matching specialist with better ratings must win")
	}
	if selection.Score <= 0 {
		t.Fatalf("score = %f, want > 0", selection.Score)
	}
}

func TestFindBestVendorMissingWorkOrder(t *testing.T) {
	repo := newFakeRoutingRepo()
	svc := newTestService(repo)

	selection, err := svc.FindBestVendor(context.Background(), uuid.New())
	if err != nil || selection != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", selection, err)
	}
}

func TestFindBestVendorEmptyPool(t *testing.T) {
	repo := newFakeRoutingRepo()
	svc := newTestService(repo)

	workOrderID := uuid.New()
	repo.workOrders[workOrderID] = repository.WorkOrderRoutingInfo{WorkOrderID: workOrderID}

	selection, err := svc.FindBestVendor(context.Background(), workOrderID)
	if err != nil || selection != nil {
		t.Fatalf("got (%v, %v), want (nil, nil) for empty vendor pool", selection, err)
	}
}

func TestFindBestVendorRelaxesFilters(t *testing.T) {
	repo := newFakeRoutingRepo()
	svc := newTestService(repo)

	// Only vendor has a different specialty; the filtered listing comes up
	// empty and the pool relaxes to any available vendor.
	vendorID := uuid.New()
	repo.candidates = []scoring.Candidate{{VendorID: vendorID, Specialty: "Electrical"}}

	workOrderID := uuid.New()
	repo.workOrders[workOrderID] = repository.WorkOrderRoutingInfo{
		WorkOrderID:  workOrderID,
		CategoryName: "Plumbing",
	}

	selection, err := svc.FindBestVendor(context.Background(), workOrderID)
	if err != nil {
		t.Fatalf("FindBestVendor: %v", err)
	}
	if selection == nil || selection.VendorID != vendorID {
		t.Fatal("selection must relax to the only registered vendor")
	}
	if len(repo.filtersSeen) < 2 {
		t.Fatalf("expected a relaxed second listing, saw %d filters", len(repo.filtersSeen))
	}
}

func TestFindBestVendorForRequest(t *testing.T) {
	repo := newFakeRoutingRepo()
	svc := newTestService(repo)

	vendorID := uuid.New()
	repo.candidates = []scoring.Candidate{{VendorID: vendorID, Specialty: "HVAC"}}

	requestID := uuid.New()
	repo.requests[requestID] = repository.RequestRoutingInfo{
		RequestID: requestID, Priority: severity.Medium, CategoryName: "HVAC",
	}

	selection, err := svc.FindBestVendorForRequest(context.Background(), requestID)
	if err != nil {
		t.Fatalf("FindBestVendorForRequest: %v", err)
	}
	if selection == nil || selection.VendorID != vendorID {
		t.Fatalf("got %+v, want vendor %v", selection, vendorID)
	}

	if got, err := svc.FindBestVendorForRequest(context.Background(), uuid.New()); got != nil || err != nil {
		t.Fatalf("missing request: got (%v, %v), want (nil, nil)", got, err)
	}
}
