// Package service implements vendor registry operations.
package service

import (
	"context"

	"github.com/google/uuid"

	"propertyai_backend/internal/vendors/repository"
	"propertyai_backend/internal/vendors/transport"
	"propertyai_backend/platform/apperr"
	"propertyai_backend/platform/phone"
)

// Service handles vendor registry operations.
type Service struct {
	repo repository.Repository
}

// New creates a new vendors service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// CreateVendor registers a vendor; the phone number is normalized to E.164.
func (s *Service) CreateVendor(ctx context.Context, req transport.CreateVendorRequest) (transport.VendorResponse, error) {
	availability := req.Availability
	if availability == "" {
		availability = "AVAILABLE"
	}

	vendor, err := s.repo.CreateVendor(ctx, repository.CreateVendorParams{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          phone.NormalizeE164(req.Phone),
		Specialty:      req.Specialty,
		HourlyRate:     req.HourlyRate,
		Availability:   availability,
		ServiceAreas:   req.ServiceAreas,
		Certifications: req.Certifications,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
	})
	if err != nil {
		return transport.VendorResponse{}, err
	}
	return toVendorResponse(vendor), nil
}

// GetVendor retrieves a vendor by id; absent ids are 404s for API consumers.
func (s *Service) GetVendor(ctx context.Context, id uuid.UUID) (transport.VendorResponse, error) {
	vendor, err := s.repo.GetVendorByID(ctx, id)
	if err != nil {
		return transport.VendorResponse{}, err
	}
	if vendor == nil {
		return transport.VendorResponse{}, apperr.NotFound("vendor not found")
	}
	return toVendorResponse(*vendor), nil
}

// ListVendors retrieves vendors matching the filters.
func (s *Service) ListVendors(ctx context.Context, req transport.ListVendorsRequest) ([]transport.VendorResponse, error) {
	vendors, err := s.repo.ListVendors(ctx, repository.ListParams{
		Availability: req.Availability,
		Specialty:    req.Specialty,
		ServiceArea:  req.ServiceArea,
	})
	if err != nil {
		return nil, err
	}
	responses := make([]transport.VendorResponse, 0, len(vendors))
	for _, vendor := range vendors {
		responses = append(responses, toVendorResponse(vendor))
	}
	return responses, nil
}

// DeleteVendor removes a vendor.
func (s *Service) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteVendor(ctx, id)
}

// RateVendor records a performance score.
func (s *Service) RateVendor(ctx context.Context, vendorID uuid.UUID, req transport.CreateRatingRequest) (transport.RatingResponse, error) {
	vendor, err := s.repo.GetVendorByID(ctx, vendorID)
	if err != nil {
		return transport.RatingResponse{}, err
	}
	if vendor == nil {
		return transport.RatingResponse{}, apperr.NotFound("vendor not found")
	}

	rating, err := s.repo.CreateRating(ctx, vendorID, req.Score, req.Comment)
	if err != nil {
		return transport.RatingResponse{}, err
	}
	return toRatingResponse(rating), nil
}

// RatingSummary aggregates a vendor's rating history.
func (s *Service) RatingSummary(ctx context.Context, vendorID uuid.UUID) (transport.RatingSummaryResponse, error) {
	vendor, err := s.repo.GetVendorByID(ctx, vendorID)
	if err != nil {
		return transport.RatingSummaryResponse{}, err
	}
	if vendor == nil {
		return transport.RatingSummaryResponse{}, apperr.NotFound("vendor not found")
	}

	avg, count, err := s.repo.AverageScore(ctx, vendorID)
	if err != nil {
		return transport.RatingSummaryResponse{}, err
	}

	recent, err := s.repo.ListRatings(ctx, vendorID, 10)
	if err != nil {
		return transport.RatingSummaryResponse{}, err
	}

	summary := transport.RatingSummaryResponse{
		VendorID:     vendorID,
		AverageScore: avg,
		RatingCount:  count,
		Recent:       make([]transport.RatingResponse, 0, len(recent)),
	}
	for _, rating := range recent {
		summary.Recent = append(summary.Recent, toRatingResponse(rating))
	}
	return summary, nil
}

func toVendorResponse(v repository.Vendor) transport.VendorResponse {
	return transport.VendorResponse{
		ID:             v.ID,
		Name:           v.Name,
		Email:          v.Email,
		Phone:          v.Phone,
		Specialty:      v.Specialty,
		HourlyRate:     v.HourlyRate,
		Availability:   v.Availability,
		ServiceAreas:   v.ServiceAreas,
		Certifications: v.Certifications,
		Latitude:       v.Latitude,
		Longitude:      v.Longitude,
		CreatedAt:      v.CreatedAt,
	}
}

func toRatingResponse(r repository.PerformanceRating) transport.RatingResponse {
	return transport.RatingResponse{
		ID:        r.ID,
		VendorID:  r.VendorID,
		Score:     r.Score,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
