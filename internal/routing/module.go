// Package routing provides the emergency routing and vendor selection module.
package routing

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "propertyai_backend/internal/http"
	"propertyai_backend/internal/routing/handler"
	"propertyai_backend/internal/routing/repository"
	"propertyai_backend/internal/routing/scoring"
	"propertyai_backend/internal/routing/service"
	"propertyai_backend/platform/config"
	"propertyai_backend/platform/logger"
	"propertyai_backend/platform/validator"
)

// Module is the routing bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the routing module with the weighted
// scorer configured from routing settings.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, cfg config.RoutingConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	scorer := scoring.NewWeightedScorer(cfg.GetScoringWeights())
	svc := service.New(repo, scorer, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "routing"
}

// Service returns the service layer for adapter wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts routing routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/maintenance-requests/:id/route-emergency", m.handler.RouteEmergency)
	ctx.Protected.GET("/work-orders/:id/best-vendor", m.handler.BestVendor)

	rules := ctx.Protected.Group("/routing-rules")
	rules.POST("", m.handler.CreateRule)
	rules.GET("", m.handler.ListRules)
	rules.DELETE("/:id", m.handler.DeleteRule)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
