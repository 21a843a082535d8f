package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	acttr "bess_quote_backend/internal/activity/transport"
	authtr "bess_quote_backend/internal/auth/transport"
	"bess_quote_backend/internal/backup/repository"
	"bess_quote_backend/internal/backup/transport"
	qt "bess_quote_backend/internal/quotes/transport"
	"bess_quote_backend/internal/storage"
	"bess_quote_backend/platform/apperr"
	"bess_quote_backend/platform/config"
	platformevents "bess_quote_backend/platform/events"
	"bess_quote_backend/platform/logger"
)

type fakeRepo struct {
	cfg  repository.Config
	runs []string
}

func (f *fakeRepo) Get(context.Context) (*repository.Config, error) {
	cfg := f.cfg
	if cfg.Provider == "" {
		cfg.Provider = "minio"
		cfg.Folder = "backups"
	}
	return &cfg, nil
}

func (f *fakeRepo) Save(_ context.Context, cfg *repository.Config) error {
	f.cfg = *cfg
	return nil
}

func (f *fakeRepo) RecordRun(_ context.Context, at time.Time, status, detail string) error {
	t := at
	f.cfg.LastRunAt = &t
	f.cfg.LastStatus = status
	f.cfg.LastDetail = detail
	f.runs = append(f.runs, status)
	return nil
}

type fakeProvider struct {
	objects    map[string][]byte
	uploadErr  error
	connectErr error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{objects: map[string][]byte{}}
}

func (f *fakeProvider) Name() string { return "minio" }

func (f *fakeProvider) Connect(context.Context) error { return f.connectErr }

func (f *fakeProvider) Upload(_ context.Context, key string, data []byte) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeProvider) Download(_ context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return data, nil
}

func (f *fakeProvider) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var infos []storage.ObjectInfo
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, storage.ObjectInfo{Key: key, Size: int64(len(f.objects[key]))})
		}
	}
	// deterministic oldest-first ordering by key
	for i := range infos {
		for j := i + 1; j < len(infos); j++ {
			if infos[j].Key < infos[i].Key {
				infos[i], infos[j] = infos[j], infos[i]
			}
		}
		infos[i].LastModified = base.Add(time.Duration(i) * time.Hour)
	}
	return infos, nil
}

func (f *fakeProvider) Remove(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

type fakeSource struct {
	quotesErr error
}

func (f *fakeSource) ExportQuotes(context.Context) ([]qt.Quote, error) {
	if f.quotesErr != nil {
		return nil, f.quotesErr
	}
	return []qt.Quote{{ID: uuid.New(), QuoteNumber: "FFD-BESS-20260315-0001"}}, nil
}

func (f *fakeSource) ExportUsers(context.Context) ([]authtr.User, error) {
	return []authtr.User{{ID: uuid.New(), Username: "marco.rossi"}}, nil
}

func (f *fakeSource) ExportActivity(context.Context) ([]acttr.Activity, error) {
	return []acttr.Activity{{ID: uuid.New(), Action: "login"}}, nil
}

type testBackupConfig struct {
	retention int
}

func (c testBackupConfig) GetBackupCronSpec() string { return "@every 24h" }
func (c testBackupConfig) GetBackupRetention() int   { return c.retention }

var _ config.BackupConfig = testBackupConfig{}

func testService(repo *fakeRepo, provider *fakeProvider, source *fakeSource, retention int) *Service {
	log := logger.New("test")
	var p Provider
	if provider != nil {
		p = provider
	}
	svc := New(repo, p, source, testBackupConfig{retention: retention}, platformevents.NewInMemoryBus(log), log)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func connect(t *testing.T, svc *Service) {
	t.Helper()
	connected := true
	_, err := svc.UpdateConfig(context.Background(), transport.UpdateConfigRequest{
		Provider:  "minio",
		Folder:    "backups",
		Connected: &connected,
	})
	if err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
}

func TestRunUploadsSnapshot(t *testing.T) {
	repo := &fakeRepo{}
	provider := newFakeProvider()
	svc := testService(repo, provider, &fakeSource{}, 0)
	connect(t, svc)

	result, err := svc.Run(context.Background(), "manual")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Object != "backups/bess-backup-20260315-120000.json" {
		t.Errorf("unexpected object key %q", result.Object)
	}
	if result.Quotes != 1 || result.Users != 1 || result.Activities != 1 {
		t.Errorf("unexpected counts %+v", result)
	}

	data, ok := provider.objects[result.Object]
	if !ok {
		t.Fatal("snapshot not uploaded")
	}
	var snapshot snapshotFile
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("snapshot not valid JSON: %v", err)
	}
	if snapshot.Version != snapshotVersion || snapshot.Trigger != "manual" {
		t.Errorf("unexpected snapshot header %+v", snapshot)
	}
	if len(snapshot.Quotes) != 1 || snapshot.Quotes[0].QuoteNumber != "FFD-BESS-20260315-0001" {
		t.Errorf("unexpected snapshot quotes %+v", snapshot.Quotes)
	}

	if repo.cfg.LastStatus != "ok" {
		t.Errorf("run not recorded: %+v", repo.cfg)
	}
}

func TestRunFailsSoftlyWhenNotConnected(t *testing.T) {
	repo := &fakeRepo{}
	svc := testService(repo, newFakeProvider(), &fakeSource{}, 0)

	result, err := svc.Run(context.Background(), "manual")
	if err != nil {
		t.Fatalf("Run must not fail hard: %v", err)
	}
	if result.Success || result.Detail != "backup provider not connected" {
		t.Errorf("unexpected result %+v", result)
	}
	if repo.cfg.LastStatus != "failed" {
		t.Errorf("failed run not recorded: %+v", repo.cfg)
	}
}

func TestRunFailsSoftlyOnUploadError(t *testing.T) {
	repo := &fakeRepo{}
	provider := newFakeProvider()
	provider.uploadErr = errors.New("connection refused")
	svc := testService(repo, provider, &fakeSource{}, 0)
	connect(t, svc)

	result, err := svc.Run(context.Background(), "scheduled")
	if err != nil {
		t.Fatalf("Run must not fail hard: %v", err)
	}
	if result.Success || !strings.Contains(result.Detail, "upload snapshot") {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestRunFailsSoftlyOnExportError(t *testing.T) {
	repo := &fakeRepo{}
	svc := testService(repo, newFakeProvider(), &fakeSource{quotesErr: errors.New("db down")}, 0)
	connect(t, svc)

	result, err := svc.Run(context.Background(), "manual")
	if err != nil {
		t.Fatalf("Run must not fail hard: %v", err)
	}
	if result.Success || !strings.Contains(result.Detail, "export quotes") {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestRetentionPrunesOldestSnapshots(t *testing.T) {
	repo := &fakeRepo{}
	provider := newFakeProvider()
	svc := testService(repo, provider, &fakeSource{}, 2)
	connect(t, svc)

	for i := 0; i < 4; i++ {
		svc.now = func() time.Time {
			return time.Date(2026, 3, 15, 12, i, 0, 0, time.UTC)
		}
		if _, err := svc.Run(context.Background(), "scheduled"); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}

	if len(provider.objects) != 2 {
		t.Fatalf("expected 2 retained snapshots, got %d", len(provider.objects))
	}
	for key := range provider.objects {
		if key != "backups/bess-backup-20260315-120200.json" && key != "backups/bess-backup-20260315-120300.json" {
			t.Errorf("unexpected retained snapshot %q", key)
		}
	}
}

func TestUpdateConfigRejectsUnreachableProvider(t *testing.T) {
	provider := newFakeProvider()
	provider.connectErr = errors.New("dial tcp: refused")
	svc := testService(&fakeRepo{}, provider, &fakeSource{}, 0)

	connected := true
	_, err := svc.UpdateConfig(context.Background(), transport.UpdateConfigRequest{
		Provider:  "minio",
		Folder:    "backups",
		Connected: &connected,
	})
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Errorf("expected unavailable, got %v", err)
	}
}

func TestDownloadSnapshotRejectsPathTraversal(t *testing.T) {
	svc := testService(&fakeRepo{}, newFakeProvider(), &fakeSource{}, 0)

	for _, name := range []string{"../secrets.json", "a/b.json"} {
		_, err := svc.DownloadSnapshot(context.Background(), name)
		if apperr.GetKind(err) != apperr.KindBadRequest {
			t.Errorf("DownloadSnapshot(%q): expected bad request, got %v", name, err)
		}
	}
}
