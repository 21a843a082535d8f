package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bess_quote_backend/internal/auth/service"
	"bess_quote_backend/internal/auth/transport"
	"bess_quote_backend/platform/httpkit"
	"bess_quote_backend/platform/validator"
)

// Handler handles HTTP requests for authentication and user management.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid user id"
)

// New creates a new auth handler.
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

func userID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

// Login authenticates by email and password.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Logout records the logout; the client discards its token.
// POST /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	h.svc.Logout(c.Request.Context(), actorFrom(c))
	c.Status(http.StatusNoContent)
}

// Me returns the caller's own account.
// GET /api/v1/users/me
func (h *Handler) Me(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	user, err := h.svc.Me(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, user)
}

// ChangePassword rotates the caller's own password.
// POST /api/v1/users/me/password
func (h *Handler) ChangePassword(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	err := h.svc.ChangePassword(c.Request.Context(), id.UserID(), req.CurrentPassword, req.NewPassword)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUsers returns all accounts.
// GET /api/v1/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, users)
}

// GetUser returns one account.
// GET /api/v1/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, user)
}

// GetUserStats aggregates a user's quoting activity.
// GET /api/v1/users/:id/stats
func (h *Handler) GetUserStats(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}

// CreateUser registers a new account.
// POST /api/v1/admin/users
func (h *Handler) CreateUser(c *gin.Context) {
	var req transport.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	user, err := h.svc.Create(c.Request.Context(), actorFrom(c), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, user)
}

// UpdateUser edits account fields.
// PUT /api/v1/admin/users/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req transport.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	user, err := h.svc.Update(c.Request.Context(), actorFrom(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, user)
}

// SetUserActive enables or disables an account.
// PATCH /api/v1/admin/users/:id/active
func (h *Handler) SetUserActive(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req transport.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	user, err := h.svc.SetActive(c.Request.Context(), actorFrom(c), id, *req.IsActive)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, user)
}

// ResetUserPassword generates a temporary password for an account.
// POST /api/v1/admin/users/:id/reset-password
func (h *Handler) ResetUserPassword(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	temp, err := h.svc.ResetPassword(c.Request.Context(), actorFrom(c), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ResetPasswordResponse{TemporaryPassword: temp})
}

// DeleteUser removes an account.
// DELETE /api/v1/admin/users/:id
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
