// Package extraction provides the document analysis bounded context module.
package extraction

import (
	"bess_quote_backend/internal/extraction/engine"
	"bess_quote_backend/internal/extraction/handler"
	apphttp "bess_quote_backend/internal/http"
	"bess_quote_backend/platform/validator"
)

// Module is the extraction bounded context module implementing http.Module.
type Module struct {
	handler   *handler.Handler
	extractor engine.Extractor
}

// NewModule creates the extraction module with the canned extractor bound.
// A real analysis engine slots in by implementing engine.Extractor.
func NewModule(val *validator.Validator) *Module {
	extractor := engine.NewMockExtractor()
	return &Module{
		handler:   handler.New(extractor, val),
		extractor: extractor,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "extraction"
}

// Extractor returns the bound extraction engine.
func (m *Module) Extractor() engine.Extractor {
	return m.extractor
}

// RegisterRoutes mounts extraction routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/extraction/analyze", m.handler.Analyze)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
