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
	backuprepo "bess_quote_backend/internal/backup/repository"
	backupservice "bess_quote_backend/internal/backup/service"
	"bess_quote_backend/internal/catalog"
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

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting backup worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// Worker-side data export wiring (no HTTP handlers required).
	catalogModule := catalog.NewModule(cfg, val, log)
	catalogReader := adapters.NewCatalogReader(catalogModule.Service())
	quotesModule := quotes.NewModule(pool, catalogReader, eventBus, val, log)
	authModule := auth.NewModule(pool, cfg, eventBus, val, log)
	activityModule := activity.NewModule(pool, eventBus, val, log)

	var provider backupservice.Provider
	if cfg.IsMinIOEnabled() {
		store, err := storage.NewMinIOStore(cfg)
		if err != nil {
			log.Error("failed to initialize object storage", "error", err)
			panic("failed to initialize object storage: " + err.Error())
		}
		provider = backup.NewMinIOProvider(store, cfg.GetMinioBucketBackups())
	} else {
		log.Warn("MinIO not configured; backup runs will fail until storage is available")
	}

	source := adapters.NewBackupDataSource(quotesModule.Service(), authModule.Service(), activityModule.Service())
	backupSvc := backupservice.New(backuprepo.NewPostgresRepository(pool), provider, source, cfg, eventBus, log)

	worker, err := scheduler.NewWorker(cfg, backupSvc, log)
	if err != nil {
		log.Error("failed to initialize backup worker", "error", err)
		panic("failed to initialize backup worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("backup worker stopped")
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
