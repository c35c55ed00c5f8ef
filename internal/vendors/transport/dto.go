// Package transport defines request/response DTOs for the vendors module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateVendorRequest registers a new vendor.
type CreateVendorRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Email          string   `json:"email" validate:"omitempty,email"`
	Phone          string   `json:"phone" validate:"max=30"`
	Specialty      string   `json:"specialty" validate:"max=100"`
	HourlyRate     *float64 `json:"hourlyRate" validate:"omitempty,gte=0"`
	Availability   string   `json:"availability" validate:"omitempty,oneof=AVAILABLE UNAVAILABLE"`
	ServiceAreas   []string `json:"serviceAreas" validate:"dive,max=20"`
	Certifications []string `json:"certifications" validate:"dive,max=100"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// VendorResponse is the API shape of a vendor.
type VendorResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Specialty      string    `json:"specialty"`
	HourlyRate     *float64  `json:"hourlyRate,omitempty"`
	Availability   string    `json:"availability"`
	ServiceAreas   []string  `json:"serviceAreas"`
	Certifications []string  `json:"certifications"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListVendorsRequest filters the vendor listing.
type ListVendorsRequest struct {
	Availability string `form:"availability" validate:"omitempty,oneof=AVAILABLE UNAVAILABLE"`
	Specialty    string `form:"specialty" validate:"max=100"`
	ServiceArea  string `form:"serviceArea" validate:"max=20"`
}

// CreateRatingRequest records a performance score for a vendor.
type CreateRatingRequest struct {
	Score   float64 `json:"score" validate:"required,gte=1,lte=5"`
	Comment string  `json:"comment" validate:"max=1000"`
}

// RatingResponse is the API shape of a performance rating.
type RatingResponse struct {
	ID        uuid.UUID `json:"id"`
	VendorID  uuid.UUID `json:"vendorId"`
	Score     float64   `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// RatingSummaryResponse aggregates a vendor's rating history.
type RatingSummaryResponse struct {
	VendorID     uuid.UUID        `json:"vendorId"`
	AverageScore float64          `json:"averageScore"`
	RatingCount  int              `json:"ratingCount"`
	Recent       []RatingResponse `json:"recent"`
}
