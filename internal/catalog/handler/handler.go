package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bess_quote_backend/internal/catalog/service"
	"bess_quote_backend/internal/catalog/transport"
	"bess_quote_backend/platform/httpkit"
	"bess_quote_backend/platform/validator"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListProducts retrieves the product catalog.
// GET /api/v1/catalog/products
func (h *Handler) ListProducts(c *gin.Context) {
	httpkit.OK(c, h.svc.ListProducts(c.Request.Context()))
}

// GetProductByCode retrieves a single product.
// GET /api/v1/catalog/products/:code
func (h *Handler) GetProductByCode(c *gin.Context) {
	result, err := h.svc.GetProduct(c.Request.Context(), c.Param("code"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RefreshPrices fetches current prices for the requested product codes.
// POST /api/v1/catalog/prices/refresh
func (h *Handler) RefreshPrices(c *gin.Context) {
	var req transport.RefreshPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	prices := h.svc.RefreshPrices(c.Request.Context(), req.Codes)
	httpkit.OK(c, transport.RefreshPricesResponse{Prices: prices})
}

// Health reports remote pricing service reachability.
// GET /api/v1/catalog/health
func (h *Handler) Health(c *gin.Context) {
	configured, reachable := h.svc.Health(c.Request.Context())
	httpkit.OK(c, transport.HealthResponse{Configured: configured, Reachable: reachable})
}
