// Package quotes provides the quote management domain module.
package quotes

import (
	"chauffeurtop_backend/internal/events"
	apphttp "chauffeurtop_backend/internal/http"
	"chauffeurtop_backend/internal/quotes/handler"
	"chauffeurtop_backend/internal/quotes/repository"
	"chauffeurtop_backend/internal/quotes/service"
	"chauffeurtop_backend/platform/logger"
	"chauffeurtop_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotes domain module
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
	repo          *repository.Repository
}

// NewModule creates a new quotes module with all dependencies wired
func NewModule(pool *pgxpool.Pool, notifier service.Notifier, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, notifier, bus, log)

	return &Module{
		handler:       handler.New(svc, val),
		publicHandler: handler.NewPublicHandler(svc),
		service:       svc,
		repo:          repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for modules that share the quotes store
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	quotes := ctx.Protected.Group("/quotes")
	m.handler.RegisterRoutes(quotes)

	// Public routes, no auth middleware
	publicQuotes := ctx.V1.Group("/public/quotes")
	m.publicHandler.RegisterRoutes(publicQuotes)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
