package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"bess_quote_backend/platform/config"
)

// Client enqueues background jobs.
type Client struct {
	client *asynq.Client
}

// BackupEnqueuer is the surface the API uses to queue backup runs.
type BackupEnqueuer interface {
	EnqueueBackup(ctx context.Context, trigger string) error
}

// NewClient creates an asynq client from configuration.
func NewClient(cfg config.RedisConfig) (*Client, error) {
	if cfg.GetRedisAddr() == "" {
		return nil, fmt.Errorf("redis addr not configured")
	}

	return &Client{
		client: asynq.NewClient(redisClientOpt(cfg)),
	}, nil
}

// Close releases the underlying redis connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueBackup queues one backup snapshot run.
func (c *Client) EnqueueBackup(ctx context.Context, trigger string) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewBackupSnapshotTask(BackupSnapshotPayload{Trigger: trigger})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task)
	return err
}

func redisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
	}
}
