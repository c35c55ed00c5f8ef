// Package handler exposes the work-orders module over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"propertyai_backend/internal/workorders/service"
	"propertyai_backend/internal/workorders/transport"
	"propertyai_backend/platform/httpkit"
	"propertyai_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid work order id"
)

// Handler handles HTTP requests for work orders.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new work-orders handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create materializes a work order from a maintenance request.
// POST /api/v1/work-orders
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateFromRequest(c.Request.Context(), req.MaintenanceRequestID)
	if httpkit.HandleError(c, err) {
		return
	}
	if result == nil {
		httpkit.Error(c, http.StatusNotFound, "maintenance request not found", nil)
		return
	}
	httpkit.Created(c, result)
}

// List retrieves all work orders.
// GET /api/v1/work-orders
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.ListWorkOrders(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID retrieves a work order by id.
// GET /api/v1/work-orders/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetWorkOrder(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateStatus transitions a work order's status.
// PATCH /api/v1/work-orders/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if httpkit.HandleError(c, h.svc.UpdateStatus(c.Request.Context(), id, req.Status)) {
		return
	}
	httpkit.NoContent(c)
}

// Schedule books a visit window for a work order.
// POST /api/v1/work-orders/:id/schedule
func (h *Handler) Schedule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.ScheduleEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ScheduleEvent(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	if result == nil {
		httpkit.Error(c, http.StatusNotFound, "work order not found", nil)
		return
	}
	httpkit.Created(c, result)
}

// Events retrieves a work order's scheduled visits.
// GET /api/v1/work-orders/:id/events
func (h *Handler) Events(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListEvents(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
