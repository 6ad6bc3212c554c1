// Package bookings provides the public booking form module.
package bookings

import (
	"chauffeurtop_backend/internal/bookings/handler"
	"chauffeurtop_backend/internal/bookings/service"
	"chauffeurtop_backend/internal/events"
	apphttp "chauffeurtop_backend/internal/http"
	"chauffeurtop_backend/platform/logger"
	"chauffeurtop_backend/platform/validator"
)

// Module represents the bookings module
type Module struct {
	handler *handler.Handler
}

// NewModule creates a new bookings module with all dependencies wired
func NewModule(store service.QuoteStore, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store, bus, log)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "bookings"
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/public/bookings")
	public.Use(ctx.BookingRateLimiter.RateLimit())
	m.handler.RegisterRoutes(public)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
