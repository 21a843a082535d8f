// Package quotes provides the quote generation and lifecycle bounded
// context module.
package quotes

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"bess_quote_backend/internal/events"
	apphttp "bess_quote_backend/internal/http"
	"bess_quote_backend/internal/quotes/handler"
	"bess_quote_backend/internal/quotes/repository"
	"bess_quote_backend/internal/quotes/service"
	"bess_quote_backend/platform/logger"
	"bess_quote_backend/platform/validator"
)

// Module is the quotes bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the quotes module. The catalog reader
// is injected by the composition root through an adapter.
func NewModule(pool *pgxpool.Pool, catalog service.CatalogReader, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.NewPostgresRepository(pool)
	svc := service.New(repo, catalog, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts quote routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/quotes/generate", m.handler.Generate)
	ctx.Protected.POST("/quotes/generate/from-items", m.handler.GenerateFromItems)
	ctx.Protected.GET("/quotes", m.handler.List)
	ctx.Protected.GET("/quotes/:id", m.handler.Get)
	ctx.Protected.PUT("/quotes/:id", m.handler.Update)
	ctx.Protected.PATCH("/quotes/:id/status", m.handler.UpdateStatus)
	ctx.Protected.PATCH("/quotes/:id/items/:itemId/discount", m.handler.UpdateItemDiscount)
	ctx.Protected.DELETE("/quotes/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
