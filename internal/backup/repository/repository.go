package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bess_quote_backend/platform/apperr"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a Postgres-backed backup config repository.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// The configuration is a single row keyed by id 1.

func (r *postgresRepository) Get(ctx context.Context) (*Config, error) {
	const op = "backup.repository.Get"

	var cfg Config
	err := r.pool.QueryRow(ctx, `
		SELECT provider, folder, connected, last_run_at, last_status, last_detail, updated_at
		FROM bess_backup_config
		WHERE id = 1
	`).Scan(&cfg.Provider, &cfg.Folder, &cfg.Connected, &cfg.LastRunAt, &cfg.LastStatus, &cfg.LastDetail, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &Config{Provider: "minio", Folder: "backups"}, nil
		}
		return nil, apperr.Internal("failed to get backup config", err).WithOp(op)
	}
	return &cfg, nil
}

func (r *postgresRepository) Save(ctx context.Context, cfg *Config) error {
	const op = "backup.repository.Save"

	_, err := r.pool.Exec(ctx, `
		INSERT INTO bess_backup_config (id, provider, folder, connected, updated_at)
		VALUES (1, $1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			provider = EXCLUDED.provider,
			folder = EXCLUDED.folder,
			connected = EXCLUDED.connected,
			updated_at = now()
	`, cfg.Provider, cfg.Folder, cfg.Connected)
	if err != nil {
		return apperr.Internal("failed to save backup config", err).WithOp(op)
	}
	return nil
}

func (r *postgresRepository) RecordRun(ctx context.Context, at time.Time, status, detail string) error {
	const op = "backup.repository.RecordRun"

	_, err := r.pool.Exec(ctx, `
		INSERT INTO bess_backup_config (id, provider, folder, connected, last_run_at, last_status, last_detail, updated_at)
		VALUES (1, 'minio', 'backups', false, $1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			last_run_at = EXCLUDED.last_run_at,
			last_status = EXCLUDED.last_status,
			last_detail = EXCLUDED.last_detail,
			updated_at = now()
	`, at, status, detail)
	if err != nil {
		return apperr.Internal("failed to record backup run", err).WithOp(op)
	}
	return nil
}
