// Package vendors provides the vendor registry bounded context module.
package vendors

import (
	apphttp "propertyai_backend/internal/http"
	"propertyai_backend/internal/vendors/handler"
	"propertyai_backend/internal/vendors/repository"
	"propertyai_backend/internal/vendors/service"
	"propertyai_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the vendors bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the vendors module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "vendors"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for adapter wiring.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts vendor routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/vendors")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.GetByID)
	group.DELETE("/:id", m.handler.Delete)
	group.POST("/:id/ratings", m.handler.Rate)
	group.GET("/:id/ratings", m.handler.Ratings)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
