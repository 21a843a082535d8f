// Package transport defines the wire types for the activity log API.
package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Activity is one audit trail entry.
type Activity struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	UserName    string          `json:"userName"`
	Action      string          `json:"action"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"timestamp"`
}

// ListActivityRequest holds activity query parameters.
type ListActivityRequest struct {
	UserID string `form:"userId" validate:"omitempty,uuid"`
	Action string `form:"action"`
	Limit  int    `form:"limit" validate:"omitempty,gte=1,lte=1000"`
}
