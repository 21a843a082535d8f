package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"bess_quote_backend/internal/backup/transport"
	"bess_quote_backend/platform/config"
	"bess_quote_backend/platform/logger"
)

// BackupRunner executes one backup snapshot run.
type BackupRunner interface {
	Run(ctx context.Context, trigger string) (*transport.RunResult, error)
}

// WorkerConfig is the configuration surface the worker needs.
type WorkerConfig interface {
	config.RedisConfig
	config.BackupConfig
}

// Worker consumes backup tasks and schedules the periodic snapshot.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	runner    BackupRunner
	log       *logger.Logger
}

// NewWorker creates the asynq server, the task mux and the cron entry
// for the periodic backup.
func NewWorker(cfg WorkerConfig, runner BackupRunner, log *logger.Logger) (*Worker, error) {
	if cfg.GetRedisAddr() == "" {
		return nil, fmt.Errorf("redis addr not configured")
	}

	opt := redisClientOpt(cfg)

	concurrency := cfg.GetWorkerConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
	})

	w := &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
		runner: runner,
		log:    log,
	}
	w.mux.HandleFunc(TaskBackupSnapshot, w.handleBackupSnapshot)

	if spec := cfg.GetBackupCronSpec(); spec != "" {
		scheduler := asynq.NewScheduler(opt, nil)
		task, err := NewBackupSnapshotTask(BackupSnapshotPayload{Trigger: "scheduled"})
		if err != nil {
			return nil, err
		}
		if _, err := scheduler.Register(spec, task); err != nil {
			return nil, fmt.Errorf("register backup schedule %q: %w", spec, err)
		}
		w.scheduler = scheduler
	}

	return w, nil
}

// handleBackupSnapshot runs one backup. An unsuccessful run is a
// recoverable condition already recorded by the service; returning an
// error here would only make asynq retry a run that will be repeated by
// the schedule anyway.
func (w *Worker) handleBackupSnapshot(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBackupSnapshotPayload(task)
	if err != nil {
		return err
	}

	trigger := payload.Trigger
	if trigger == "" {
		trigger = "queued"
	}

	result, err := w.runner.Run(ctx, trigger)
	if err != nil {
		return err
	}
	if !result.Success {
		w.log.Warn("backup run unsuccessful", "trigger", trigger, "detail", result.Detail)
	}
	return nil
}

// Run starts the worker and, when configured, the cron scheduler. It
// blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		w.server.Shutdown()
	}()

	if w.scheduler != nil {
		go func() {
			if err := w.scheduler.Run(); err != nil {
				w.log.Error("backup scheduler stopped", "error", err)
			}
		}()
	}

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("backup worker stopped", "error", err)
	}
}
