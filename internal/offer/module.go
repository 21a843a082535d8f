// Package offer provides the offer document bounded context module:
// PDF rendering, email drafting and sending.
package offer

import (
	"bess_quote_backend/internal/email"
	apphttp "bess_quote_backend/internal/http"
	"bess_quote_backend/internal/offer/handler"
	"bess_quote_backend/internal/offer/renderer"
	"bess_quote_backend/internal/offer/service"
	"bess_quote_backend/internal/pdf"
	"bess_quote_backend/internal/storage"
	"bess_quote_backend/platform/config"
	"bess_quote_backend/platform/logger"
	"bess_quote_backend/platform/validator"
)

// Module is the offer bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the offer module. store may be nil
// when object storage is not configured.
func NewModule(quotes service.QuoteSource, converter pdf.Converter, sender email.Sender, store storage.ObjectStore, cfg interface {
	config.OfferConfig
	config.MinIOConfig
}, val *validator.Validator, log *logger.Logger) (*Module, error) {
	r, err := renderer.New(cfg)
	if err != nil {
		return nil, err
	}
	svc := service.New(quotes, r, converter, sender, store, cfg.GetMinioBucketOfferPDFs(), log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "offer"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts offer routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/quotes/:id/pdf", m.handler.GetPDF)
	ctx.Protected.GET("/quotes/:id/email-draft", m.handler.GetEmailDraft)
	ctx.Protected.POST("/quotes/:id/send", m.handler.Send)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
