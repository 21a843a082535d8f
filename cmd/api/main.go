package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bess_quote_backend/internal/activity"
	"bess_quote_backend/internal/adapters"
	"bess_quote_backend/internal/auth"
	"bess_quote_backend/internal/backup"
	"bess_quote_backend/internal/catalog"
	"bess_quote_backend/internal/email"
	"bess_quote_backend/internal/extraction"
	apphttp "bess_quote_backend/internal/http"
	"bess_quote_backend/internal/http/router"
	"bess_quote_backend/internal/offer"
	"bess_quote_backend/internal/pdf"
	"bess_quote_backend/internal/quotes"
	"bess_quote_backend/internal/scheduler"
	"bess_quote_backend/internal/storage"
	"bess_quote_backend/platform/config"
	"bess_quote_backend/platform/db"
	"bess_quote_backend/platform/events"
	"bess_quote_backend/platform/logger"
	"bess_quote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, store storage.ObjectStore, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return store.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Email sender for offer dispatch. Without SMTP config the noop
	// sender lets the rest of the app run in development.
	var sender email.Sender = email.NoopSender{}
	if cfg.GetSMTPEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("smtp sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("SMTP not configured; offer emails are disabled")
	}

	// Object storage for offer PDFs and backup snapshots
	var store storage.ObjectStore
	if cfg.IsMinIOEnabled() {
		minioStore, err := storage.NewMinIOStore(cfg)
		if err != nil {
			log.Error("failed to initialize object storage", "error", err)
			panic("failed to initialize object storage: " + err.Error())
		}
		store = minioStore
		ensureBucket(ctx, log, store, "offer-pdfs", cfg.GetMinioBucketOfferPDFs())
		ensureBucket(ctx, log, store, "backups", cfg.GetMinioBucketBackups())
		log.Info(
			"object storage initialized",
			"endpoint", cfg.GetMinIOEndpoint(),
			"offerPDFsBucket", cfg.GetMinioBucketOfferPDFs(),
			"backupsBucket", cfg.GetMinioBucketBackups(),
		)
	} else {
		log.Warn("MinIO not configured; PDF archive and backups are disabled")
	}

	// Gotenberg renders offer HTML to PDF
	var converter pdf.Converter = pdf.DisabledConverter{}
	if cfg.IsGotenbergEnabled() {
		converter = pdf.NewGotenbergClient(cfg)
		log.Info("gotenberg PDF converter initialized", "url", cfg.GetGotenbergURL())
	} else {
		log.Warn("Gotenberg not configured; offer PDF rendering is disabled")
	}

	backupEnqueuer, closeEnqueuer := initBackupEnqueuer(cfg, log)
	if closeEnqueuer != nil {
		defer closeEnqueuer()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogModule := catalog.NewModule(cfg, val, log)
	extractionModule := extraction.NewModule(val)

	// Quotes read product data through the catalog reader adapter.
	catalogReader := adapters.NewCatalogReader(catalogModule.Service())
	quotesModule := quotes.NewModule(pool, catalogReader, eventBus, val, log)

	authModule := auth.NewModule(pool, cfg, eventBus, val, log)
	if err := authModule.Service().Seed(ctx); err != nil {
		log.Error("failed to seed users", "error", err)
		panic("failed to seed users: " + err.Error())
	}

	// Activity module subscribes to domain events on construction.
	activityModule := activity.NewModule(pool, eventBus, val, log)

	// User stats combine quote aggregates with the activity log.
	authModule.Service().BindStatsProviders(
		adapters.NewQuoteStatsProvider(quotesModule.Service()),
		activityModule.Service(),
	)

	offerModule, err := offer.NewModule(
		adapters.NewOfferQuoteSource(quotesModule.Service()),
		converter,
		sender,
		store,
		cfg,
		val,
		log,
	)
	if err != nil {
		log.Error("failed to initialize offer module", "error", err)
		panic("failed to initialize offer module: " + err.Error())
	}

	var provider *backup.MinIOProvider
	if store != nil {
		provider = backup.NewMinIOProvider(store, cfg.GetMinioBucketBackups())
	}
	backupSource := adapters.NewBackupDataSource(quotesModule.Service(), authModule.Service(), activityModule.Service())
	backupModule := newBackupModule(pool, provider, backupSource, cfg, eventBus, val, log)
	if backupEnqueuer != nil {
		backupModule.SetEnqueuer(backupEnqueuer)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			catalogModule,
			extractionModule,
			quotesModule,
			offerModule,
			activityModule,
			backupModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// newBackupModule keeps the nil-provider handoff explicit. A typed nil
// *MinIOProvider must not reach the service as a non-nil interface.
func newBackupModule(pool *pgxpool.Pool, provider *backup.MinIOProvider, source *adapters.BackupDataSource, cfg *config.Config, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *backup.Module {
	if provider == nil {
		return backup.NewModule(pool, nil, source, cfg, eventBus, val, log)
	}
	return backup.NewModule(pool, provider, source, cfg, eventBus, val, log)
}

func initBackupEnqueuer(cfg config.RedisConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisAddr() == "" {
		log.Warn("Redis not configured; async backup runs disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize backup queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
