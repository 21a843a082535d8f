// Package repository persists the backup provider configuration and the
// outcome of the latest backup run.
package repository

import (
	"context"
	"time"
)

// Config is the single backup configuration row.
type Config struct {
	Provider   string
	Folder     string
	Connected  bool
	LastRunAt  *time.Time
	LastStatus string
	LastDetail string
	UpdatedAt  time.Time
}

// Repository stores the backup configuration.
type Repository interface {
	// Get returns the configuration, or sensible defaults when none was
	// ever saved.
	Get(ctx context.Context) (*Config, error)

	// Save upserts provider, folder and connected flag.
	Save(ctx context.Context, cfg *Config) error

	// RecordRun stores the outcome of a backup attempt.
	RecordRun(ctx context.Context, at time.Time, status, detail string) error
}
