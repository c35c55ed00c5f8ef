// Package workorders provides the work-order lifecycle bounded context module.
package workorders

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"propertyai_backend/internal/events"
	apphttp "propertyai_backend/internal/http"
	"propertyai_backend/internal/workorders/handler"
	"propertyai_backend/internal/workorders/repository"
	"propertyai_backend/internal/workorders/service"
	"propertyai_backend/platform/logger"
	"propertyai_backend/platform/validator"
)

// Module is the work-orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the work-orders module. The request
// reader and vendor resolver are adapters over the maintenance and routing
// modules; the task enqueuer dispatches to the background worker.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, requests service.RequestReader,
	resolver service.VendorResolver, tasks service.TaskEnqueuer,
	eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, requests, resolver, tasks, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "workorders"
}

// Service returns the service layer for worker wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts work-order routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/work-orders")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.GetByID)
	group.PATCH("/:id/status", m.handler.UpdateStatus)
	group.POST("/:id/schedule", m.handler.Schedule)
	group.GET("/:id/events", m.handler.Events)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
