// Package service implements emergency routing and vendor selection.
//
// Routing stages follow the pipeline convention: a missing request or work
// order, or an empty vendor pool, yields a nil result and a nil error.
// Errors are reserved for infrastructure failures.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"propertyai_backend/internal/maintenance/severity"
	"propertyai_backend/internal/routing/repository"
	"propertyai_backend/internal/routing/scoring"
	"propertyai_backend/platform/apperr"
	"propertyai_backend/platform/logger"
)

// statsFanOutLimit bounds concurrent per-vendor stat queries.
const statsFanOutLimit = 8

// Selection is a scored vendor pick.
type Selection struct {
	VendorID uuid.UUID
	Score    float64
}

// Service coordinates routing rules and vendor scoring.
type Service struct {
	repo   repository.Repository
	scorer scoring.Scorer
	log    *logger.Logger
}

// New creates the routing service.
func New(repo repository.Repository, scorer scoring.Scorer, log *logger.Logger) *Service {
	return &Service{repo: repo, scorer: scorer, log: log}
}

// CreateRule registers an emergency routing rule.
func (s *Service) CreateRule(ctx context.Context, params repository.CreateRuleParams) (*repository.RoutingRule, error) {
	if params.Priority == "" {
		params.Priority = severity.Emergency
	}
	if !severity.Valid(params.Priority) {
		return nil, apperr.Validation(fmt.Sprintf("invalid priority %q", params.Priority))
	}

	rule, err := s.repo.CreateRule(ctx, params)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// ListRules returns all routing rules.
func (s *Service) ListRules(ctx context.Context) ([]repository.RoutingRule, error) {
	rules, err := s.repo.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// DeleteRule removes a routing rule.
func (s *Service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRule(ctx, id)
}

// RouteEmergencyRequest resolves the designated vendor for an emergency
// request via routing rules. Returns nil when the request does not exist, is
// not an emergency, has no category, or no rule matches.
func (s *Service) RouteEmergencyRequest(ctx context.Context, requestID uuid.UUID) (*uuid.UUID, error) {
	info, err := s.repo.GetRequestRoutingInfo(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		s.log.PipelineStage("route_emergency", requestID.String(), "request_missing")
		return nil, nil
	}
	if info.Priority != severity.Emergency || info.CategoryID == nil {
		s.log.PipelineStage("route_emergency", requestID.String(), "not_routable")
		return nil, nil
	}

	vendorID, err := s.repo.FindRuleVendor(ctx, info.Priority, *info.CategoryID)
	if err != nil {
		return nil, err
	}
	if vendorID == nil {
		s.log.PipelineStage("route_emergency", requestID.String(), "no_rule")
		return nil, nil
	}

	s.log.PipelineStage("route_emergency", requestID.String(), "matched")
	return vendorID, nil
}

// FindBestVendor scores the vendor pool against a work order's context and
// returns the top candidate. Returns nil when the work order does not exist
// or no vendors are registered.
func (s *Service) FindBestVendor(ctx context.Context, workOrderID uuid.UUID) (*Selection, error) {
	info, err := s.repo.GetWorkOrderRoutingInfo(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		s.log.PipelineStage("find_best_vendor", workOrderID.String(), "work_order_missing")
		return nil, nil
	}

	return s.selectVendor(ctx, scoring.WorkContext{
		CategoryName:      info.CategoryName,
		PropertyLatitude:  info.PropertyLatitude,
		PropertyLongitude: info.PropertyLongitude,
	}, info.CategoryName, info.ServiceArea)
}

// FindBestVendorForRequest scores the vendor pool against a maintenance
// request's context. Used during work-order creation, before the work order
// row is visible outside its transaction.
func (s *Service) FindBestVendorForRequest(ctx context.Context, requestID uuid.UUID) (*Selection, error) {
	info, err := s.repo.GetRequestRoutingInfo(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}

	return s.selectVendor(ctx, scoring.WorkContext{
		CategoryName:      info.CategoryName,
		PropertyLatitude:  info.PropertyLatitude,
		PropertyLongitude: info.PropertyLongitude,
	}, info.CategoryName, info.ServiceArea)
}

// selectVendor lists candidates, enriches them with stats concurrently, and
// returns the highest-scoring vendor. Pool filters relax in stages so a
// selection is only nil when the vendor table itself is empty.
func (s *Service) selectVendor(ctx context.Context, work scoring.WorkContext, specialty, serviceArea string) (*Selection, error) {
	candidates, err := s.listWithFallback(ctx, specialty, serviceArea)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if err := s.enrichStats(ctx, candidates); err != nil {
		return nil, err
	}

	best := 0
	bestScore := s.scorer.Score(candidates[0], work)
	for i := 1; i < len(candidates); i++ {
		if score := s.scorer.Score(candidates[i], work); score > bestScore {
			best, bestScore = i, score
		}
	}

	return &Selection{VendorID: candidates[best].VendorID, Score: bestScore}, nil
}

// listWithFallback narrows the pool by specialty and service area first, then
// relaxes to any available vendor, then to the full vendor table.
func (s *Service) listWithFallback(ctx context.Context, specialty, serviceArea string) ([]scoring.Candidate, error) {
	filters := []repository.CandidateFilter{
		{Specialty: specialty, ServiceArea: serviceArea, AvailableOnly: true},
		{AvailableOnly: true},
		{},
	}
	for _, f := range filters {
		candidates, err := s.repo.ListCandidates(ctx, f)
		if err != nil {
			return nil, err
		}
		if len(candidates) > 0 {
			return candidates, nil
		}
	}
	return nil, nil
}

// enrichStats fans out per-vendor aggregate queries.
func (s *Service) enrichStats(ctx context.Context, candidates []scoring.Candidate) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statsFanOutLimit)

	var mu sync.Mutex
	for i := range candidates {
		g.Go(func() error {
			stats, err := s.repo.GetVendorStats(gctx, candidates[i].VendorID)
			if err != nil {
				return err
			}
			mu.Lock()
			candidates[i].AverageRating = stats.AverageRating
			candidates[i].RatingCount = stats.RatingCount
			candidates[i].OpenAssignments = stats.OpenAssignments
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
