package adapters

import (
	"context"

	activitysvc "bess_quote_backend/internal/activity/service"
	acttr "bess_quote_backend/internal/activity/transport"
	authsvc "bess_quote_backend/internal/auth/service"
	authtr "bess_quote_backend/internal/auth/transport"
	backupsvc "bess_quote_backend/internal/backup/service"
	quotessvc "bess_quote_backend/internal/quotes/service"
	qt "bess_quote_backend/internal/quotes/transport"
)

// BackupDataSource composes the quotes, auth and activity services into
// the snapshot source, satisfying backup/service.DataSource.
type BackupDataSource struct {
	quotes   *quotessvc.Service
	users    *authsvc.Service
	activity *activitysvc.Service
}

// NewBackupDataSource creates a backup data source adapter.
func NewBackupDataSource(quotes *quotessvc.Service, users *authsvc.Service, activity *activitysvc.Service) *BackupDataSource {
	return &BackupDataSource{quotes: quotes, users: users, activity: activity}
}

// ExportQuotes returns every quote with items.
func (a *BackupDataSource) ExportQuotes(ctx context.Context) ([]qt.Quote, error) {
	return a.quotes.ExportAll(ctx)
}

// ExportUsers returns every user record.
func (a *BackupDataSource) ExportUsers(ctx context.Context) ([]authtr.User, error) {
	return a.users.List(ctx)
}

// ExportActivity returns the retained activity log.
func (a *BackupDataSource) ExportActivity(ctx context.Context) ([]acttr.Activity, error) {
	return a.activity.List(ctx, acttr.ListActivityRequest{Limit: 1000})
}

var _ backupsvc.DataSource = (*BackupDataSource)(nil)
