// Package classify provides the swappable text classifier behind the
// categorization stage. The contract is stable (request text in, category
// plus confidence out) so the keyword classifier can later be replaced by an
// embedding or model-backed implementation without touching callers.
package classify

import (
	"math/rand"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Candidate is a category the classifier may select.
type Candidate struct {
	ID       uuid.UUID
	Name     string
	Keywords []string
}

// Result is a classification decision.
type Result struct {
	Candidate  Candidate
	Confidence float64
}

// Classifier selects the best-matching candidate for the given request text.
// The boolean is false when the classifier has no opinion.
type Classifier interface {
	Classify(text string, candidates []Candidate) (Result, bool)
}

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// KeywordClassifier scores candidates by keyword occurrences in the request
// text. Ties break toward the earlier candidate.
type KeywordClassifier struct{}

// NewKeywordClassifier creates the default classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify tokenizes text and counts hits against each candidate's keyword
// list and name. Confidence is the winner's share of all keyword hits.
func (kc *KeywordClassifier) Classify(text string, candidates []Candidate) (Result, bool) {
	tokens := make(map[string]int)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		tokens[word]++
	}
	if len(tokens) == 0 || len(candidates) == 0 {
		return Result{}, false
	}

	bestIdx := -1
	bestHits := 0
	totalHits := 0
	for i, candidate := range candidates {
		hits := 0
		for _, keyword := range candidate.Keywords {
			hits += tokens[strings.ToLower(keyword)]
		}
		hits += tokens[strings.ToLower(candidate.Name)]
		totalHits += hits
		if hits > bestHits {
			bestHits = hits
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return Result{}, false
	}

	return Result{
		Candidate:  candidates[bestIdx],
		Confidence: float64(bestHits) / float64(totalHits),
	}, true
}

// RandomClassifier selects a uniformly random candidate. It is the historical
// placeholder behavior, kept as a named fallback strategy and test double.
type RandomClassifier struct {
	rng *rand.Rand
}

// NewRandomClassifier creates a random classifier with the given source.
// A nil source uses the shared global source.
func NewRandomClassifier(rng *rand.Rand) *RandomClassifier {
	return &RandomClassifier{rng: rng}
}

// Classify picks any candidate with zero confidence.
func (rc *RandomClassifier) Classify(_ string, candidates []Candidate) (Result, bool) {
	if len(candidates) == 0 {
		return Result{}, false
	}
	var idx int
	if rc.rng != nil {
		idx = rc.rng.Intn(len(candidates))
	} else {
		idx = rand.Intn(len(candidates))
	}
	return Result{Candidate: candidates[idx], Confidence: 0}, true
}

// Compile-time interface checks.
var (
	_ Classifier = (*KeywordClassifier)(nil)
	_ Classifier = (*RandomClassifier)(nil)
)
