// Package handler exposes the maintenance module over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"propertyai_backend/internal/maintenance/service"
	"propertyai_backend/internal/maintenance/transport"
	"propertyai_backend/platform/httpkit"
	"propertyai_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for the maintenance module.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new maintenance handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateRequest files a new maintenance request.
// POST /api/v1/maintenance-requests
func (h *Handler) CreateRequest(c *gin.Context) {
	var req transport.CreateMaintenanceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateRequest(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// GetRequest retrieves a maintenance request by id.
// GET /api/v1/maintenance-requests/:id
func (h *Handler) GetRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetRequest(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListRequests retrieves all maintenance requests.
// GET /api/v1/maintenance-requests
func (h *Handler) ListRequests(c *gin.Context) {
	result, err := h.svc.ListRequests(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Categorize runs the categorization stage for a request.
// POST /api/v1/maintenance-requests/:id/categorize
func (h *Handler) Categorize(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.Categorize(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// IsEmergency reports whether a request is an emergency.
// GET /api/v1/maintenance-requests/:id/emergency
func (h *Handler) IsEmergency(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	emergency, err := h.svc.IsEmergency(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.EmergencyResponse{RequestID: id, Emergency: emergency})
}

// Escalate applies the keyword escalation rules to a request.
// POST /api/v1/maintenance-requests/:id/escalate
func (h *Handler) Escalate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.EscalatePriority(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// TrackResponseTime records a response-time measurement for a request.
// POST /api/v1/maintenance-requests/:id/response-time
func (h *Handler) TrackResponseTime(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.TrackResponseTime(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListResponseTimes retrieves recorded measurements for a request.
// GET /api/v1/maintenance-requests/:id/response-times
func (h *Handler) ListResponseTimes(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListResponseTimes(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PredictMaintenance estimates a unit's next failure date.
// GET /api/v1/units/:id/maintenance-prediction
func (h *Handler) PredictMaintenance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.PredictMaintenance(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListCategories retrieves all categories.
// GET /api/v1/maintenance-categories
func (h *Handler) ListCategories(c *gin.Context) {
	result, err := h.svc.ListCategories(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateCategory adds a new category.
// POST /api/v1/maintenance-categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var req transport.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateCategory(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
