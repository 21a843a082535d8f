// Package backup provides the cloud backup bounded context: snapshot
// serialization, provider upload, retention pruning and run status.
package backup

import (
	"bytes"
	"context"
	"io"

	"bess_quote_backend/internal/storage"
)

// MinIOProvider implements service.Provider on a MinIO bucket.
type MinIOProvider struct {
	store  storage.ObjectStore
	bucket string
}

// NewMinIOProvider creates a backup provider writing to the given bucket.
func NewMinIOProvider(store storage.ObjectStore, bucket string) *MinIOProvider {
	return &MinIOProvider{store: store, bucket: bucket}
}

// Name returns the provider identifier.
func (p *MinIOProvider) Name() string { return "minio" }

// Connect verifies the bucket exists, creating it if needed.
func (p *MinIOProvider) Connect(ctx context.Context) error {
	return p.store.EnsureBucketExists(ctx, p.bucket)
}

// Upload stores a snapshot object.
func (p *MinIOProvider) Upload(ctx context.Context, key string, data []byte) error {
	return p.store.Put(ctx, p.bucket, key, "application/json", bytes.NewReader(data), int64(len(data)))
}

// Download retrieves a snapshot object.
func (p *MinIOProvider) Download(ctx context.Context, key string) ([]byte, error) {
	rc, err := p.store.Get(ctx, p.bucket, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// List returns snapshot objects under the prefix, oldest first.
func (p *MinIOProvider) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return p.store.List(ctx, p.bucket, prefix)
}

// Remove deletes a snapshot object.
func (p *MinIOProvider) Remove(ctx context.Context, key string) error {
	return p.store.Remove(ctx, p.bucket, key)
}
