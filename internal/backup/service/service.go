// Package service implements backup snapshot runs and provider
// configuration.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	acttr "bess_quote_backend/internal/activity/transport"
	authtr "bess_quote_backend/internal/auth/transport"
	"bess_quote_backend/internal/backup/repository"
	"bess_quote_backend/internal/backup/transport"
	"bess_quote_backend/internal/events"
	qt "bess_quote_backend/internal/quotes/transport"
	"bess_quote_backend/internal/storage"
	"bess_quote_backend/platform/apperr"
	"bess_quote_backend/platform/config"
	"bess_quote_backend/platform/logger"
)

// snapshotVersion is bumped when the snapshot encoding changes shape.
const snapshotVersion = 1

// Provider is the object-storage surface backups are written to. The
// rest of the system never depends on it succeeding.
type Provider interface {
	Name() string
	Connect(ctx context.Context) error
	Upload(ctx context.Context, key string, data []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	Remove(ctx context.Context, key string) error
}

// DataSource supplies the data a snapshot is built from.
type DataSource interface {
	ExportQuotes(ctx context.Context) ([]qt.Quote, error)
	ExportUsers(ctx context.Context) ([]authtr.User, error)
	ExportActivity(ctx context.Context) ([]acttr.Activity, error)
}

// snapshotFile is the JSON document uploaded to the provider.
type snapshotFile struct {
	Version   int              `json:"version"`
	CreatedAt time.Time        `json:"createdAt"`
	Trigger   string           `json:"trigger"`
	Quotes    []qt.Quote       `json:"quotes"`
	Users     []authtr.User    `json:"users"`
	Activity  []acttr.Activity `json:"activity"`
}

// Service implements backup operations.
type Service struct {
	repo      repository.Repository
	provider  Provider
	source    DataSource
	retention int
	bus       events.Bus
	log       *logger.Logger
	now       func() time.Time
}

// New creates the backup service. provider may be nil when object storage
// is not configured; runs then fail softly with a not-connected status.
func New(repo repository.Repository, provider Provider, source DataSource, cfg config.BackupConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		provider:  provider,
		source:    source,
		retention: cfg.GetBackupRetention(),
		bus:       bus,
		log:       log,
		now:       time.Now,
	}
}

// Status returns the backup configuration and last run outcome.
func (s *Service) Status(ctx context.Context) (*transport.Status, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &transport.Status{
		Provider:   cfg.Provider,
		Folder:     cfg.Folder,
		Connected:  cfg.Connected,
		LastRunAt:  cfg.LastRunAt,
		LastStatus: cfg.LastStatus,
		LastDetail: cfg.LastDetail,
	}, nil
}

// UpdateConfig saves the provider configuration. Connecting verifies the
// provider is reachable first.
func (s *Service) UpdateConfig(ctx context.Context, req transport.UpdateConfigRequest) (*transport.Status, error) {
	const op = "backup.UpdateConfig"

	connected := req.Connected != nil && *req.Connected
	if connected {
		if s.provider == nil {
			return nil, apperr.Unavailable("backup storage is not configured").WithCode("backup_disabled").WithOp(op)
		}
		if err := s.provider.Connect(ctx); err != nil {
			return nil, apperr.Wrap(apperr.KindUnavailable, "backup provider unreachable", err).WithOp(op)
		}
	}

	cfg := &repository.Config{
		Provider:  req.Provider,
		Folder:    strings.Trim(req.Folder, "/"),
		Connected: connected,
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return s.Status(ctx)
}

// Run serializes all quotes, users and activity into one JSON snapshot
// and uploads it. Failures are recoverable: the outcome is recorded and
// returned, never raised as an error.
func (s *Service) Run(ctx context.Context, trigger string) (*transport.RunResult, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if !cfg.Connected || s.provider == nil {
		return s.finish(ctx, &transport.RunResult{Detail: "backup provider not connected"}), nil
	}

	result := &transport.RunResult{}

	quotes, err := s.source.ExportQuotes(ctx)
	if err != nil {
		result.Detail = fmt.Sprintf("export quotes: %v", err)
		return s.finish(ctx, result), nil
	}
	users, err := s.source.ExportUsers(ctx)
	if err != nil {
		result.Detail = fmt.Sprintf("export users: %v", err)
		return s.finish(ctx, result), nil
	}
	activity, err := s.source.ExportActivity(ctx)
	if err != nil {
		result.Detail = fmt.Sprintf("export activity: %v", err)
		return s.finish(ctx, result), nil
	}

	now := s.now().UTC()
	snapshot := snapshotFile{
		Version:   snapshotVersion,
		CreatedAt: now,
		Trigger:   trigger,
		Quotes:    quotes,
		Users:     users,
		Activity:  activity,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		result.Detail = fmt.Sprintf("encode snapshot: %v", err)
		return s.finish(ctx, result), nil
	}

	key := fmt.Sprintf("%s/bess-backup-%s.json", cfg.Folder, now.Format("20060102-150405"))
	if err := s.provider.Upload(ctx, key, data); err != nil {
		result.Detail = fmt.Sprintf("upload snapshot: %v", err)
		return s.finish(ctx, result), nil
	}

	result.Success = true
	result.Object = key
	result.Quotes = len(quotes)
	result.Users = len(users)
	result.Activities = len(activity)

	s.prune(ctx, cfg.Folder)
	return s.finish(ctx, result), nil
}

// ListSnapshots returns stored snapshots, oldest first.
func (s *Service) ListSnapshots(ctx context.Context) ([]transport.Snapshot, error) {
	if s.provider == nil {
		return nil, apperr.Unavailable("backup storage is not configured").WithCode("backup_disabled")
	}
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	objects, err := s.provider.List(ctx, cfg.Folder+"/")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to list snapshots", err).WithOp("backup.ListSnapshots")
	}

	snapshots := make([]transport.Snapshot, 0, len(objects))
	for _, obj := range objects {
		snapshots = append(snapshots, transport.Snapshot{
			Key:       obj.Key,
			Size:      obj.Size,
			CreatedAt: obj.LastModified,
		})
	}
	return snapshots, nil
}

// DownloadSnapshot returns the raw snapshot document by file name.
func (s *Service) DownloadSnapshot(ctx context.Context, name string) ([]byte, error) {
	const op = "backup.DownloadSnapshot"

	if s.provider == nil {
		return nil, apperr.Unavailable("backup storage is not configured").WithCode("backup_disabled")
	}
	if strings.Contains(name, "/") || strings.Contains(name, "..") {
		return nil, apperr.BadRequest("invalid snapshot name").WithOp(op)
	}

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	data, err := s.provider.Download(ctx, cfg.Folder+"/"+name)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "snapshot not found", err).WithOp(op)
	}
	return data, nil
}

// finish records the run outcome, publishes the completion event and
// logs it. Bookkeeping failures are logged only.
func (s *Service) finish(ctx context.Context, result *transport.RunResult) *transport.RunResult {
	status := "ok"
	if !result.Success {
		status = "failed"
	}

	if err := s.repo.RecordRun(ctx, s.now().UTC(), status, result.Detail); err != nil {
		s.log.Warn("failed to record backup run", "error", err)
	}

	provider := "none"
	if s.provider != nil {
		provider = s.provider.Name()
	}
	s.log.BackupEvent("backup_run", provider, result.Success, result.Detail)
	s.bus.Publish(ctx, events.BackupCompleted{
		Provider: provider,
		Object:   result.Object,
		Success:  result.Success,
		Detail:   result.Detail,
	})
	return result
}

// prune removes the oldest snapshots beyond the retention count.
func (s *Service) prune(ctx context.Context, folder string) {
	if s.retention <= 0 {
		return
	}

	objects, err := s.provider.List(ctx, folder+"/")
	if err != nil {
		s.log.Warn("failed to list snapshots for pruning", "error", err)
		return
	}
	if len(objects) <= s.retention {
		return
	}

	for _, obj := range objects[:len(objects)-s.retention] {
		if err := s.provider.Remove(ctx, obj.Key); err != nil {
			s.log.Warn("failed to prune snapshot", "key", obj.Key, "error", err)
		}
	}
}
