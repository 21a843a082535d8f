// Package handler exposes offer rendering and sending over HTTP.
package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bess_quote_backend/internal/offer/service"
	"bess_quote_backend/internal/offer/transport"
	"bess_quote_backend/platform/httpkit"
	"bess_quote_backend/platform/validator"
)

// Handler handles offer endpoints.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new offer handler.
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
		httpkit.Error(c, http.StatusBadRequest, "invalid quote id", nil)
		return uuid.Nil, false
	}
	return id, true
}

// GetPDF renders the offer document and streams it as a PDF download.
// GET /api/v1/quotes/:id/pdf
func (h *Handler) GetPDF(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	data, fileName, err := h.svc.RenderPDF(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, "application/pdf", data)
}

// GetEmailDraft returns the prefilled offer email for a quote.
// GET /api/v1/quotes/:id/email-draft
func (h *Handler) GetEmailDraft(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	draft, err := h.svc.EmailDraft(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, draft)
}

// Send emails the offer PDF to the customer and marks the quote sent.
// POST /api/v1/quotes/:id/send
func (h *Handler) Send(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req transport.SendQuoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
	}

	result, err := h.svc.Send(c.Request.Context(), actorFrom(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
