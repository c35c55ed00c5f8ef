package scoring

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"propertyai_backend/platform/config"
)

var testWeights = config.ScoringWeights{
	Performance:   0.3,
	Workload:      0.2,
	Specialty:     0.2,
	Cost:          0.1,
	Proximity:     0.1,
	Certification: 0.1,
}

func ptr[T any](v T) *T { return &v }

func TestSpecialtyMatchOutranksMismatch(t *testing.T) {
	ws := NewWeightedScorer(testWeights)
	work := WorkContext{CategoryName: "Plumbing"}

	plumber := Candidate{VendorID: uuid.New(), Specialty: "plumbing"}
	electrician := Candidate{VendorID: uuid.New(), Specialty: "Electrical"}

	if ws.Score(plumber, work) <= ws.Score(electrician, work) {
		t.Fatal("specialty match must score higher, all else equal")
	}
}

func TestWorkloadPenalty(t *testing.T) {
	ws := NewWeightedScorer(testWeights)
	work := WorkContext{CategoryName: "Plumbing"}

	idle := Candidate{VendorID: uuid.New(), Specialty: "Plumbing", OpenAssignments: 0}
	busy := Candidate{VendorID: uuid.New(), Specialty: "Plumbing", OpenAssignments: 5}

	if ws.Score(idle, work) <= ws.Score(busy, work) {
		t.Fatal("a vendor with fewer open assignments must score higher")
	}
}

func TestPerformanceFromRatings(t *testing.T) {
	ws := NewWeightedScorer(testWeights)
	work := WorkContext{}

	top := Candidate{VendorID: uuid.New(), AverageRating: 5, RatingCount: 12}
	poor := Candidate{VendorID: uuid.New(), AverageRating: 1, RatingCount: 12}
	unrated := Candidate{VendorID: uuid.New()}

	if ws.Score(top, work) <= ws.Score(unrated, work) {
		t.Fatal("a five-star vendor must outscore an unrated one")
	}
	if ws.Score(unrated, work) <= ws.Score(poor, work) {
		t.Fatal("an unrated vendor must outscore a one-star one")
	}
}

func TestProximityPreference(t *testing.T) {
	ws := NewWeightedScorer(testWeights)
	work := WorkContext{PropertyLatitude: ptr(40.7128), PropertyLongitude: ptr(-74.0060)}

	near := Candidate{VendorID: uuid.New(), Latitude: ptr(40.73), Longitude: ptr(-74.0)}
	far := Candidate{VendorID: uuid.New(), Latitude: ptr(42.36), Longitude: ptr(-71.06)}

	if ws.Score(near, work) <= ws.Score(far, work) {
		t.Fatal("a nearby vendor must score higher than one 300km away")
	}
}

func TestCostPreference(t *testing.T) {
	ws := NewWeightedScorer(testWeights)
	work := WorkContext{}

	cheap := Candidate{VendorID: uuid.New(), HourlyRate: ptr(40.0)}
	expensive := Candidate{VendorID: uuid.New(), HourlyRate: ptr(150.0)}

	if ws.Score(cheap, work) <= ws.Score(expensive, work) {
		t.Fatal("a cheaper vendor must score higher, all else equal")
	}
}

func TestScoreStaysInWeightRange(t *testing.T) {
	ws := NewWeightedScorer(testWeights)
	work := WorkContext{CategoryName: "HVAC", PropertyLatitude: ptr(40.0), PropertyLongitude: ptr(-74.0)}

	best := Candidate{
		VendorID:        uuid.New(),
		Specialty:       "HVAC",
		AverageRating:   5,
		RatingCount:     3,
		HourlyRate:      ptr(0.0),
		Certifications:  []string{"a", "b", "c", "d", "e"},
		Latitude:        ptr(40.0),
		Longitude:       ptr(-74.0),
		OpenAssignments: 0,
	}

	total := testWeights.Performance + testWeights.Workload + testWeights.Specialty +
		testWeights.Cost + testWeights.Proximity + testWeights.Certification
	score := ws.Score(best, work)
	if score <= 0 || score > total+1e-9 {
		t.Fatalf("score %f outside (0, %f]", score, total)
	}
}

func TestHaversine(t *testing.T) {
	// New York to Boston is roughly 306km.
	d := haversineKm(40.7128, -74.0060, 42.3601, -71.0589)
	if d < 290 || d > 320 {
		t.Fatalf("distance = %f km, want ~306", d)
	}
	if haversineKm(40, -74, 40, -74) != 0 {
		t.Fatal("identical points must be zero distance")
	}
}

func TestRandomScorerBounds(t *testing.T) {
	rs := NewRandomScorer(rand.New(rand.NewSource(42)))
	for i := 0; i < 100; i++ {
		score := rs.Score(Candidate{}, WorkContext{})
		if score < 0 || score >= 1 {
			t.Fatalf("score %f outside [0, 1)", score)
		}
	}
}
