package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bess_quote_backend/internal/extraction/engine"
	"bess_quote_backend/internal/extraction/transport"
	"bess_quote_backend/platform/httpkit"
	"bess_quote_backend/platform/validator"
)

// Handler handles HTTP requests for document extraction.
type Handler struct {
	extractor engine.Extractor
	val       *validator.Validator
}

// New creates a new extraction handler.
func New(extractor engine.Extractor, val *validator.Validator) *Handler {
	return &Handler{extractor: extractor, val: val}
}

// Analyze extracts a requirement profile from uploaded file descriptors.
// POST /api/v1/extraction/analyze
func (h *Handler) Analyze(c *gin.Context) {
	var req transport.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	profile, err := h.extractor.Extract(c.Request.Context(), req.Files)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.AnalyzeResponse{
		Data:    profile,
		Summary: h.extractor.Summarize(req.Files),
	})
}
