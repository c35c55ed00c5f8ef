// Package maintenance provides the maintenance bounded context module:
// request intake, categorization, emergency detection, keyword escalation,
// response-time tracking, and predictive maintenance.
package maintenance

import (
	"propertyai_backend/internal/events"
	apphttp "propertyai_backend/internal/http"
	"propertyai_backend/internal/maintenance/classify"
	"propertyai_backend/internal/maintenance/handler"
	"propertyai_backend/internal/maintenance/repository"
	"propertyai_backend/internal/maintenance/service"
	"propertyai_backend/internal/maintenance/severity"
	"propertyai_backend/platform/config"
	"propertyai_backend/platform/logger"
	"propertyai_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the maintenance bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the maintenance module. An invalid
// severity rules file is a startup error rather than a silent fallback.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.SeverityConfig, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)

	var fileRules *severity.RuleSet
	if path := cfg.GetSeverityRulesPath(); path != "" {
		rules, err := severity.LoadFile(path)
		if err != nil {
			return nil, err
		}
		fileRules = rules
		log.Info("severity rules loaded from file", "path", path, "rules", rules.Len())
	}

	svc := service.New(repo, classify.NewKeywordClassifier(), fileRules, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "maintenance"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for adapter wiring.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts maintenance routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	requests := ctx.Protected.Group("/maintenance-requests")
	requests.POST("", m.handler.CreateRequest)
	requests.GET("", m.handler.ListRequests)
	requests.GET("/:id", m.handler.GetRequest)
	requests.POST("/:id/categorize", m.handler.Categorize)
	requests.GET("/:id/emergency", m.handler.IsEmergency)
	requests.POST("/:id/escalate", m.handler.Escalate)
	requests.POST("/:id/response-time", m.handler.TrackResponseTime)
	requests.GET("/:id/response-times", m.handler.ListResponseTimes)

	ctx.Protected.GET("/units/:id/maintenance-prediction", m.handler.PredictMaintenance)

	categories := ctx.Protected.Group("/maintenance-categories")
	categories.GET("", m.handler.ListCategories)
	categories.POST("", m.handler.CreateCategory)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
