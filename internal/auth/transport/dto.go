// Package transport defines the wire types for the auth and user APIs.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// User is the public account representation. The password hash never
// crosses this boundary.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	Role        string     `json:"role"`
	Department  string     `json:"department"`
	Phone       string     `json:"phone"`
	Avatar      string     `json:"avatar"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLogin,omitempty"`
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse carries the access token and the authenticated user.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
	User        User   `json:"user"`
}

// CreateUserRequest is the admin user-creation payload.
type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FullName   string `json:"fullName" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=admin commerciale manager"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	Avatar     string `json:"avatar"`
}

// UpdateUserRequest edits account fields; nil fields are left unchanged.
type UpdateUserRequest struct {
	Email      *string `json:"email" validate:"omitempty,email"`
	FullName   *string `json:"fullName"`
	Role       *string `json:"role" validate:"omitempty,oneof=admin commerciale manager"`
	Department *string `json:"department"`
	Phone      *string `json:"phone"`
	Avatar     *string `json:"avatar"`
}

// SetActiveRequest enables or disables an account.
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// ChangePasswordRequest rotates the caller's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// ResetPasswordResponse returns the generated temporary password after an
// admin reset.
type ResetPasswordResponse struct {
	TemporaryPassword string `json:"temporaryPassword"`
}

// UserStats aggregates a user's quoting activity.
type UserStats struct {
	TotalQuotes     int        `json:"totalQuotes"`
	QuotesThisMonth int        `json:"quotesThisMonth"`
	TotalValue      float64    `json:"totalValue"`
	LastActivity    *time.Time `json:"lastActivity,omitempty"`
}
