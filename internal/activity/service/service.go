// Package service implements the bounded activity log: an audit trail of
// user and quote operations, fed by domain events and capped at the most
// recent thousand entries.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"bess_quote_backend/internal/activity/repository"
	"bess_quote_backend/internal/activity/transport"
	"bess_quote_backend/platform/logger"
)

// Service provides activity writes and queries.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
	now  func() time.Time
}

// New creates an activity service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Record appends one entry. Metadata may be nil.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, userName, action, description string, metadata map[string]any) error {
	var raw []byte
	if len(metadata) > 0 {
		encoded, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		raw = encoded
	}

	return s.repo.Insert(ctx, &repository.Entry{
		ID:          uuid.New(),
		UserID:      userID,
		UserName:    userName,
		Action:      action,
		Description: description,
		Metadata:    raw,
		CreatedAt:   s.now(),
	})
}

// List returns recent entries, newest first. The default page is 50.
func (s *Service) List(ctx context.Context, req transport.ListActivityRequest) ([]transport.Activity, error) {
	params := repository.ListParams{
		Action: req.Action,
		Limit:  req.Limit,
	}
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err == nil {
			params.UserID = &id
		}
	}

	entries, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]transport.Activity, 0, len(entries))
	for _, e := range entries {
		out = append(out, transport.Activity{
			ID:          e.ID,
			UserID:      e.UserID,
			UserName:    e.UserName,
			Action:      e.Action,
			Description: e.Description,
			Metadata:    e.Metadata,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out, nil
}

// LastActivity returns the timestamp of a user's most recent entry, or nil.
func (s *Service) LastActivity(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	return s.repo.LastForUser(ctx, userID)
}
