package backup

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"bess_quote_backend/internal/backup/handler"
	"bess_quote_backend/internal/backup/repository"
	"bess_quote_backend/internal/backup/service"
	"bess_quote_backend/internal/events"
	apphttp "bess_quote_backend/internal/http"
	"bess_quote_backend/platform/config"
	"bess_quote_backend/platform/logger"
	"bess_quote_backend/platform/validator"
)

// Module is the backup bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the backup module. provider may be
// nil when object storage is not configured.
func NewModule(pool *pgxpool.Pool, provider service.Provider, source service.DataSource, cfg config.BackupConfig, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.NewPostgresRepository(pool)
	svc := service.New(repo, provider, source, cfg, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "backup"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetEnqueuer wires the task queue client so manual runs can be handed
// to the background worker.
func (m *Module) SetEnqueuer(enqueuer handler.Enqueuer) {
	m.handler.SetEnqueuer(enqueuer)
}

// RegisterRoutes mounts backup routes on the provided router context.
// Backup administration is admin-only.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/backup/status", m.handler.GetStatus)
	ctx.Admin.PUT("/backup/config", m.handler.UpdateConfig)
	ctx.Admin.POST("/backup/run", m.handler.Run)
	ctx.Admin.GET("/backup/snapshots", m.handler.ListSnapshots)
	ctx.Admin.GET("/backup/snapshots/:name", m.handler.DownloadSnapshot)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
