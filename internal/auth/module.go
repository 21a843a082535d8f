// Package auth provides the authentication and user management bounded
// context module.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"bess_quote_backend/internal/auth/handler"
	"bess_quote_backend/internal/auth/repository"
	"bess_quote_backend/internal/auth/service"
	"bess_quote_backend/internal/events"
	apphttp "bess_quote_backend/internal/http"
	"bess_quote_backend/platform/config"
	"bess_quote_backend/platform/httpkit"
	"bess_quote_backend/platform/logger"
	"bess_quote_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.NewPostgresRepository(pool)
	svc := service.New(repo, cfg, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth and user routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Login carries a stricter per-IP rate limit.
	authGroup := ctx.V1.Group("/auth")
	authGroup.POST("/login", ctx.AuthRateLimiter.RateLimit(), m.handler.Login)
	authGroup.POST("/logout", ctx.AuthMiddleware, m.handler.Logout)

	ctx.Protected.GET("/users/me", m.handler.Me)
	ctx.Protected.POST("/users/me/password", m.handler.ChangePassword)

	// User directory is visible to admins and managers.
	staff := ctx.Protected.Group("", httpkit.RequireRole("admin", "manager"))
	staff.GET("/users", m.handler.ListUsers)
	staff.GET("/users/:id", m.handler.GetUser)
	staff.GET("/users/:id/stats", m.handler.GetUserStats)

	ctx.Admin.POST("/users", m.handler.CreateUser)
	ctx.Admin.PUT("/users/:id", m.handler.UpdateUser)
	ctx.Admin.PATCH("/users/:id/active", m.handler.SetUserActive)
	ctx.Admin.POST("/users/:id/reset-password", m.handler.ResetUserPassword)
	ctx.Admin.DELETE("/users/:id", m.handler.DeleteUser)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
