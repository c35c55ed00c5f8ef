// Package handler exposes the routing module over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"propertyai_backend/internal/routing/repository"
	"propertyai_backend/internal/routing/service"
	"propertyai_backend/internal/routing/transport"
	"propertyai_backend/platform/httpkit"
	"propertyai_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for emergency routing and vendor selection.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new routing handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RouteEmergency resolves the designated vendor for an emergency request.
// POST /api/v1/maintenance-requests/:id/route-emergency
func (h *Handler) RouteEmergency(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	vendorID, err := h.svc.RouteEmergencyRequest(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.RouteEmergencyResponse{
		RequestID: id,
		VendorID:  vendorID,
		Matched:   vendorID != nil,
	})
}

// BestVendor returns the top-scored vendor for a work order.
// GET /api/v1/work-orders/:id/best-vendor
func (h *Handler) BestVendor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	selection, err := h.svc.FindBestVendor(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.BestVendorResponse{WorkOrderID: id}
	if selection != nil {
		resp.VendorID = &selection.VendorID
		resp.Score = selection.Score
	}
	httpkit.OK(c, resp)
}

// CreateRule registers an emergency routing rule.
// POST /api/v1/routing-rules
func (h *Handler) CreateRule(c *gin.Context) {
	var req transport.CreateRoutingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	rule, err := h.svc.CreateRule(c.Request.Context(), repository.CreateRuleParams{
		Priority:   req.Priority,
		CategoryID: req.CategoryID,
		VendorID:   req.VendorID,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, toRuleResponse(*rule))
}

// ListRules retrieves all routing rules.
// GET /api/v1/routing-rules
func (h *Handler) ListRules(c *gin.Context) {
	rules, err := h.svc.ListRules(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]transport.RoutingRuleResponse, 0, len(rules))
	for _, rule := range rules {
		resp = append(resp, toRuleResponse(rule))
	}
	httpkit.OK(c, resp)
}

// DeleteRule removes a routing rule.
// DELETE /api/v1/routing-rules/:id
func (h *Handler) DeleteRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteRule(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

func toRuleResponse(rule repository.RoutingRule) transport.RoutingRuleResponse {
	return transport.RoutingRuleResponse{
		ID:         rule.ID,
		Priority:   rule.Priority,
		CategoryID: rule.CategoryID,
		VendorID:   rule.VendorID,
		CreatedAt:  rule.CreatedAt,
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
