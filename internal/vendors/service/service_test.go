package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"propertyai_backend/internal/vendors/repository"
	"propertyai_backend/internal/vendors/transport"
	"propertyai_backend/platform/apperr"
)

type fakeVendorRepo struct {
	vendors map[uuid.UUID]repository.Vendor
	ratings map[uuid.UUID][]repository.PerformanceRating
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{
		vendors: make(map[uuid.UUID]repository.Vendor),
		ratings: make(map[uuid.UUID][]repository.PerformanceRating),
	}
}

func (f *fakeVendorRepo) GetVendorByID(_ context.Context, id uuid.UUID) (*repository.Vendor, error) {
	v, ok := f.vendors[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (f *fakeVendorRepo) ListVendors(_ context.Context, params repository.ListParams) ([]repository.Vendor, error) {
	var out []repository.Vendor
	for _, v := range f.vendors {
		if params.Specialty != "" && v.Specialty != params.Specialty {
			continue
		}
		if params.Availability != "" && v.Availability != params.Availability {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVendorRepo) CreateVendor(_ context.Context, params repository.CreateVendorParams) (repository.Vendor, error) {
	v := repository.Vendor{
		ID:             uuid.New(),
		Name:           params.Name,
		Email:          params.Email,
		Phone:          params.Phone,
		Specialty:      params.Specialty,
		HourlyRate:     params.HourlyRate,
		Availability:   params.Availability,
		ServiceAreas:   params.ServiceAreas,
		Certifications: params.Certifications,
		Latitude:       params.Latitude,
		Longitude:      params.Longitude,
		CreatedAt:      time.Now(),
	}
	f.vendors[v.ID] = v
	return v, nil
}

func (f *fakeVendorRepo) DeleteVendor(_ context.Context, id uuid.UUID) error {
	delete(f.vendors, id)
	return nil
}

func (f *fakeVendorRepo) CreateRating(_ context.Context, vendorID uuid.UUID, score float64, comment string) (repository.PerformanceRating, error) {
	r := repository.PerformanceRating{
		ID:        uuid.New(),
		VendorID:  vendorID,
		Score:     score,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	f.ratings[vendorID] = append(f.ratings[vendorID], r)
	return r, nil
}

func (f *fakeVendorRepo) ListRatings(_ context.Context, vendorID uuid.UUID, limit int) ([]repository.PerformanceRating, error) {
	ratings := f.ratings[vendorID]
	if len(ratings) > limit {
		ratings = ratings[:limit]
	}
	return ratings, nil
}

func (f *fakeVendorRepo) AverageScore(_ context.Context, vendorID uuid.UUID) (float64, int, error) {
	ratings := f.ratings[vendorID]
	if len(ratings) == 0 {
		return 0, 0, nil
	}
	var sum float64
	for _, r := range ratings {
		sum += r.Score
	}
	return sum / float64(len(ratings)), len(ratings), nil
}

func (f *fakeVendorRepo) OpenAssignmentCount(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

var _ repository.Repository = (*fakeVendorRepo)(nil)

func TestCreateVendorNormalizesPhone(t *testing.T) {
	svc := New(newFakeVendorRepo())

	resp, err := svc.CreateVendor(context.Background(), transport.CreateVendorRequest{
		Name:      "Acme Plumbing",
		Email:     "dispatch@acmeplumbing.test",
		Phone:     "(212) 555-0142",
		Specialty: "Plumbing",
	})
	if err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}
	if resp.Phone != "+12125550142" {
		t.Fatalf("phone = %s, want +12125550142", resp.Phone)
	}
	if resp.Availability != "AVAILABLE" {
		t.Fatalf("availability = %s, want default AVAILABLE", resp.Availability)
	}
}

func TestGetVendorNotFound(t *testing.T) {
	svc := New(newFakeVendorRepo())

	_, err := svc.GetVendor(context.Background(), uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("got %v, want not-found error", err)
	}
}

func TestRateVendorRequiresVendor(t *testing.T) {
	svc := New(newFakeVendorRepo())

	_, err := svc.RateVendor(context.Background(), uuid.New(), transport.CreateRatingRequest{Score: 4})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("got %v, want not-found error", err)
	}
}

func TestRatingSummaryAggregates(t *testing.T) {
	repo := newFakeVendorRepo()
	svc := New(repo)

	created, err := svc.CreateVendor(context.Background(), transport.CreateVendorRequest{
		Name:      "Watt Electric",
		Email:     "jobs@wattelectric.test",
		Phone:     "+12125550199",
		Specialty: "Electrical",
	})
	if err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}

	for _, score := range []float64{5, 4, 3} {
		if _, err := svc.RateVendor(context.Background(), created.ID, transport.CreateRatingRequest{Score: score}); err != nil {
			t.Fatalf("RateVendor(%v): %v", score, err)
		}
	}

	summary, err := svc.RatingSummary(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("RatingSummary: %v", err)
	}
	if summary.RatingCount != 3 {
		t.Fatalf("count = %d, want 3", summary.RatingCount)
	}
	if summary.AverageScore != 4 {
		t.Fatalf("average = %v, want 4", summary.AverageScore)
	}
	if len(summary.Recent) != 3 {
		t.Fatalf("recent = %d entries, want 3", len(summary.Recent))
	}
}

func TestListVendorsAppliesFilters(t *testing.T) {
	svc := New(newFakeVendorRepo())

	for _, specialty := range []string{"Plumbing", "Electrical"} {
		if _, err := svc.CreateVendor(context.Background(), transport.CreateVendorRequest{
			Name:      specialty + " Co",
			Email:     "ops@example.test",
			Phone:     "+12125550100",
			Specialty: specialty,
		}); err != nil {
			t.Fatalf("CreateVendor: %v", err)
		}
	}

	got, err := svc.ListVendors(context.Background(), transport.ListVendorsRequest{Specialty: "Plumbing"})
	if err != nil {
		t.Fatalf("ListVendors: %v", err)
	}
	if len(got) != 1 || got[0].Specialty != "Plumbing" {
		t.Fatalf("got %+v, want the single plumbing vendor", got)
	}
}
