// Package auth provides the staff authentication bounded context.
// Accounts are provisioned with the create-admin command; there is no
// public sign-up.
package auth

import (
	"chauffeurtop_backend/internal/auth/handler"
	"chauffeurtop_backend/internal/auth/repository"
	"chauffeurtop_backend/internal/auth/service"
	apphttp "chauffeurtop_backend/internal/http"
	"chauffeurtop_backend/platform/config"
	"chauffeurtop_backend/platform/logger"
	"chauffeurtop_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string { return "auth" }

// Service exposes the auth service for the create-admin command.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	ctx.Protected.GET("/auth/me", m.handler.GetMe)
	ctx.Protected.POST("/auth/password", m.handler.ChangePassword)
}

var _ apphttp.Module = (*Module)(nil)
