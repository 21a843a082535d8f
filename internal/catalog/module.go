// Package catalog provides the product catalog bounded context module.
package catalog

import (
	"bess_quote_backend/internal/catalog/client"
	"bess_quote_backend/internal/catalog/handler"
	"bess_quote_backend/internal/catalog/service"
	apphttp "bess_quote_backend/internal/http"
	"bess_quote_backend/platform/config"
	"bess_quote_backend/platform/logger"
	"bess_quote_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the catalog module. Without a configured
// pricing service the module serves the built-in catalog only.
func NewModule(cfg config.PricingConfig, val *validator.Validator, log *logger.Logger) *Module {
	var remote *client.Client
	if cfg.IsPricingServiceEnabled() {
		remote = client.New(cfg.GetPricingServiceURL(), cfg.GetPricingServiceAPIKey(), cfg.GetPricingServiceTimeout())
	}

	svc := service.New(remote, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/catalog/products", m.handler.ListProducts)
	ctx.Protected.GET("/catalog/products/:code", m.handler.GetProductByCode)
	ctx.Protected.POST("/catalog/prices/refresh", m.handler.RefreshPrices)
	ctx.Protected.GET("/catalog/health", m.handler.Health)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
