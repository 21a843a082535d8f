package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bess_quote_backend/platform/apperr"
)

// maxEntries caps the log size; the oldest rows beyond it are dropped on
// every insert.
const maxEntries = 1000

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a Postgres-backed activity repository.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Insert(ctx context.Context, entry *Entry) error {
	const op = "activity.repository.Insert"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Internal("failed to begin transaction", err).WithOp(op)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO bess_activity_log (id, user_id, user_name, action, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.UserID, entry.UserName, entry.Action, entry.Description, entry.Metadata, entry.CreatedAt)
	if err != nil {
		return apperr.Internal("failed to insert activity", err).WithOp(op)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM bess_activity_log
		WHERE id IN (
			SELECT id FROM bess_activity_log
			ORDER BY created_at DESC, id
			OFFSET $1
		)
	`, maxEntries)
	if err != nil {
		return apperr.Internal("failed to trim activity log", err).WithOp(op)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal("failed to commit transaction", err).WithOp(op)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, params ListParams) ([]Entry, error) {
	const op = "activity.repository.List"

	if params.Limit < 1 || params.Limit > maxEntries {
		params.Limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, user_name, action, description, metadata, created_at
		FROM bess_activity_log
		WHERE ($1::uuid IS NULL OR user_id = $1)
		AND ($2 = '' OR action = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, params.UserID, params.Action, params.Limit)
	if err != nil {
		return nil, apperr.Internal("failed to query activity", err).WithOp(op)
	}
	defer rows.Close()

	entries := make([]Entry, 0, params.Limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &e.Action, &e.Description, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, apperr.Internal("failed to scan activity", err).WithOp(op)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to read activity", err).WithOp(op)
	}
	return entries, nil
}

func (r *postgresRepository) LastForUser(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	const op = "activity.repository.LastForUser"

	var at time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT created_at FROM bess_activity_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID).Scan(&at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal("failed to query last activity", err).WithOp(op)
	}
	return &at, nil
}
