// Package scheduler queues and processes background jobs over asynq.
// The only job today is the periodic backup snapshot.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskBackupSnapshot serializes all data and uploads it to the backup
// provider.
const TaskBackupSnapshot = "backup.snapshot"

// BackupSnapshotPayload carries the trigger source for audit purposes.
type BackupSnapshotPayload struct {
	Trigger string `json:"trigger"`
}

// NewBackupSnapshotTask builds the asynq task for a backup run.
func NewBackupSnapshotTask(payload BackupSnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBackupSnapshot, data), nil
}

// ParseBackupSnapshotPayload decodes a backup task payload.
func ParseBackupSnapshotPayload(task *asynq.Task) (BackupSnapshotPayload, error) {
	var payload BackupSnapshotPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return BackupSnapshotPayload{}, err
	}
	return payload, nil
}
