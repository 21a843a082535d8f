package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one activity log record.
type Entry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	UserName    string
	Action      string
	Description string
	Metadata    []byte
	CreatedAt   time.Time
}

// ListParams filters and limits activity queries.
type ListParams struct {
	UserID *uuid.UUID
	Action string
	Limit  int
}

// Repository is the persistence port for the activity log.
type Repository interface {
	// Insert appends an entry and trims the log to its retention cap.
	Insert(ctx context.Context, entry *Entry) error
	List(ctx context.Context, params ListParams) ([]Entry, error)
	LastForUser(ctx context.Context, userID uuid.UUID) (*time.Time, error)
}
