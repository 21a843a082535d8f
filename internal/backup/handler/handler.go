// Package handler exposes backup configuration and runs over HTTP.
package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bess_quote_backend/internal/backup/service"
	"bess_quote_backend/internal/backup/transport"
	"bess_quote_backend/platform/httpkit"
	"bess_quote_backend/platform/validator"
)

// Enqueuer hands a backup run off to the background worker.
type Enqueuer interface {
	EnqueueBackup(ctx context.Context, trigger string) error
}

// Handler handles backup endpoints.
type Handler struct {
	svc      *service.Service
	val      *validator.Validator
	enqueuer Enqueuer
}

// New creates a new backup handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// SetEnqueuer enables the async run path through the task queue.
func (h *Handler) SetEnqueuer(enqueuer Enqueuer) {
	h.enqueuer = enqueuer
}

// GetStatus returns the backup configuration and last run outcome.
// GET /api/v1/backup/status
func (h *Handler) GetStatus(c *gin.Context) {
	status, err := h.svc.Status(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, status)
}

// UpdateConfig changes the provider configuration.
// PUT /api/v1/backup/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req transport.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	status, err := h.svc.UpdateConfig(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, status)
}

// Run triggers a backup. With ?async=true the run is handed to the
// background worker instead of blocking the request.
// POST /api/v1/backup/run
func (h *Handler) Run(c *gin.Context) {
	if c.Query("async") == "true" && h.enqueuer != nil {
		if err := h.enqueuer.EnqueueBackup(c.Request.Context(), "manual"); err != nil {
			httpkit.Error(c, http.StatusServiceUnavailable, "failed to queue backup", err.Error())
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
		return
	}

	result, err := h.svc.Run(c.Request.Context(), "manual")
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListSnapshots returns stored snapshots.
// GET /api/v1/backup/snapshots
func (h *Handler) ListSnapshots(c *gin.Context) {
	snapshots, err := h.svc.ListSnapshots(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": snapshots, "total": len(snapshots)})
}

// DownloadSnapshot streams one snapshot document.
// GET /api/v1/backup/snapshots/:name
func (h *Handler) DownloadSnapshot(c *gin.Context) {
	name := c.Param("name")

	data, err := h.svc.DownloadSnapshot(c.Request.Context(), name)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/json", data)
}
