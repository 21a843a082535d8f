package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bess_quote_backend/internal/activity/service"
	"bess_quote_backend/internal/activity/transport"
	"bess_quote_backend/platform/httpkit"
	"bess_quote_backend/platform/validator"
)

// Handler handles HTTP requests for the activity log.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new activity handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns recent activity entries, newest first.
// GET /api/v1/activity
func (h *Handler) List(c *gin.Context) {
	var req transport.ListActivityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	entries, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, entries)
}
