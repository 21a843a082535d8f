package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bess_quote_backend/internal/quotes/service"
	"bess_quote_backend/internal/quotes/transport"
	"bess_quote_backend/platform/httpkit"
	"bess_quote_backend/platform/validator"
)

// Handler handles HTTP requests for quotes.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid quote id"
)

// New creates a new quote handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func actorFrom(c *gin.Context) service.Actor {
	id := httpkit.GetIdentity(c)
	name := id.FullName()
	if name == "" {
		name = id.Username()
	}
	return service.Actor{ID: id.UserID(), Name: name}
}

func quoteID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

// Generate runs the automatic selection pipeline and creates a draft quote.
// POST /api/v1/quotes/generate
func (h *Handler) Generate(c *gin.Context) {
	var req transport.GenerateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	quote, err := h.svc.Generate(c.Request.Context(), actorFrom(c), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, quote)
}

// GenerateFromItems creates a draft quote from an operator-picked item list.
// POST /api/v1/quotes/generate/from-items
func (h *Handler) GenerateFromItems(c *gin.Context) {
	var req transport.GenerateFromItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	quote, err := h.svc.GenerateFromItems(c.Request.Context(), actorFrom(c), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, quote)
}

// List returns a filtered, paginated quote list.
// GET /api/v1/quotes
func (h *Handler) List(c *gin.Context) {
	var req transport.ListQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get returns one quote with its items.
// GET /api/v1/quotes/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	quote, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, quote)
}

// Update edits quote fields and optionally replaces the item list.
// PUT /api/v1/quotes/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req transport.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	quote, err := h.svc.Update(c.Request.Context(), actorFrom(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, quote)
}

// UpdateStatus moves a quote through its lifecycle.
// PATCH /api/v1/quotes/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	quote, err := h.svc.UpdateStatus(c.Request.Context(), actorFrom(c), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, quote)
}

// UpdateItemDiscount sets the discount percentage on one quote item.
// PATCH /api/v1/quotes/:id/items/:itemId/discount
func (h *Handler) UpdateItemDiscount(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid item id", nil)
		return
	}

	var req transport.UpdateItemDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	quote, err := h.svc.UpdateItemDiscount(c.Request.Context(), actorFrom(c), id, itemID, req.DiscountPct)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, quote)
}

// Delete removes a quote.
// DELETE /api/v1/quotes/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
