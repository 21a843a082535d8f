// Package activity provides the audit trail bounded context module.
package activity

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"bess_quote_backend/internal/activity/handler"
	"bess_quote_backend/internal/activity/repository"
	"bess_quote_backend/internal/activity/service"
	"bess_quote_backend/internal/events"
	apphttp "bess_quote_backend/internal/http"
	"bess_quote_backend/platform/httpkit"
	"bess_quote_backend/platform/logger"
	"bess_quote_backend/platform/validator"
)

// Module is the activity bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the activity module and subscribes it to the domain
// events it audits.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.NewPostgresRepository(pool)
	svc := service.New(repo, log)
	svc.RegisterSubscribers(bus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "activity"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts activity routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/activity", httpkit.RequireRole("admin", "manager"), m.handler.List)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
