// Package scoring computes vendor fitness scores for work-order routing.
// The Scorer interface keeps the ranking strategy swappable: the weighted
// scorer is the production default, and the random scorer preserves the
// legacy uniform selection as a named strategy for tests.
package scoring

import (
	"math"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"propertyai_backend/platform/config"
)

// Candidate is a vendor under consideration, enriched with the stats the
// scorer reads.
type Candidate struct {
	VendorID       uuid.UUID
	Specialty      string
	HourlyRate     *float64
	Certifications []string
	Latitude       *float64
	Longitude      *float64
	// AverageRating is the vendor's mean performance score (1-5); 0 when unrated.
	AverageRating float64
	RatingCount   int
	// OpenAssignments counts active work-order assignments (queue depth).
	OpenAssignments int
}

// WorkContext carries the work-order attributes relevant to scoring.
type WorkContext struct {
	CategoryName      string
	PropertyLatitude  *float64
	PropertyLongitude *float64
}

// Scorer ranks a candidate for a work context; higher is better.
type Scorer interface {
	Score(candidate Candidate, work WorkContext) float64
}

const (
	// baselineHourlyRate normalizes the cost factor.
	baselineHourlyRate = 100.0
	// proximityCutoffKm is the distance beyond which proximity scores zero.
	proximityCutoffKm = 50.0
	// neutralPerformance is assumed for vendors with no rating history.
	neutralPerformance = 0.5
)

// WeightedScorer combines normalized factor scores using configured weights.
type WeightedScorer struct {
	weights config.ScoringWeights
}

// NewWeightedScorer creates the production scorer.
func NewWeightedScorer(weights config.ScoringWeights) *WeightedScorer {
	return &WeightedScorer{weights: weights}
}

// Score returns the weighted sum of the candidate's factor scores, each
// normalized to [0,1].
func (ws *WeightedScorer) Score(candidate Candidate, work WorkContext) float64 {
	performance := neutralPerformance
	if candidate.RatingCount > 0 {
		performance = (candidate.AverageRating - 1) / 4
	}

	workload := 1.0 / float64(1+candidate.OpenAssignments)

	specialty := 0.0
	if work.CategoryName != "" && strings.EqualFold(candidate.Specialty, work.CategoryName) {
		specialty = 1.0
	}

	cost := 1.0
	if candidate.HourlyRate != nil {
		cost = 1 - math.Min(*candidate.HourlyRate/baselineHourlyRate, 1)
	}

	proximity := 1.0
	if candidate.Latitude != nil && candidate.Longitude != nil &&
		work.PropertyLatitude != nil && work.PropertyLongitude != nil {
		distance := haversineKm(*candidate.Latitude, *candidate.Longitude,
			*work.PropertyLatitude, *work.PropertyLongitude)
		proximity = math.Max(0, 1-distance/proximityCutoffKm)
	}

	certification := 0.0
	if len(candidate.Certifications) > 0 {
		certification = math.Min(float64(len(candidate.Certifications)), 5) / 5
	}

	return ws.weights.Performance*performance +
		ws.weights.Workload*workload +
		ws.weights.Specialty*specialty +
		ws.weights.Cost*cost +
		ws.weights.Proximity*proximity +
		ws.weights.Certification*certification
}

// RandomScorer assigns uniformly random scores, reducing selection to the
// legacy uniform-random vendor pick. Test double only.
type RandomScorer struct {
	rng *rand.Rand
}

// NewRandomScorer creates a random scorer with the given source.
// A nil source uses the shared global source.
func NewRandomScorer(rng *rand.Rand) *RandomScorer {
	return &RandomScorer{rng: rng}
}

// Score ignores the candidate and returns a random value.
func (rs *RandomScorer) Score(_ Candidate, _ WorkContext) float64 {
	if rs.rng != nil {
		return rs.rng.Float64()
	}
	return rand.Float64()
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Compile-time interface checks.
var (
	_ Scorer = (*WeightedScorer)(nil)
	_ Scorer = (*RandomScorer)(nil)
)
