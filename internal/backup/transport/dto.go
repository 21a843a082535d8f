// Package transport defines the wire types for the backup API.
package transport

import "time"

// Status reports the backup configuration and the latest run outcome.
type Status struct {
	Provider   string     `json:"provider"`
	Folder     string     `json:"folder"`
	Connected  bool       `json:"connected"`
	LastRunAt  *time.Time `json:"lastRunAt,omitempty"`
	LastStatus string     `json:"lastStatus,omitempty"`
	LastDetail string     `json:"lastDetail,omitempty"`
}

// UpdateConfigRequest changes the backup provider configuration.
// Setting Connected true verifies the provider is reachable.
type UpdateConfigRequest struct {
	Provider  string `json:"provider" validate:"required,oneof=minio"`
	Folder    string `json:"folder" validate:"required,max=128"`
	Connected *bool  `json:"connected" validate:"required"`
}

// RunResult reports the outcome of a backup run. Success false with a
// populated Detail is a recoverable condition, not an error.
type RunResult struct {
	Success    bool   `json:"success"`
	Object     string `json:"object,omitempty"`
	Quotes     int    `json:"quotes"`
	Users      int    `json:"users"`
	Activities int    `json:"activities"`
	Detail     string `json:"detail,omitempty"`
}

// Snapshot describes one stored backup object.
type Snapshot struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
