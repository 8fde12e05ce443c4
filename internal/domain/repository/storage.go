package repository

import "context"

// ObjectStorage defines the interface for object storage operations.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type ObjectStorage interface {
	// Fetch retrieves an object's full contents.
	// Returns ErrObjectNotFound if the object does not exist.
	Fetch(ctx context.Context, key string) ([]byte, error)

	// Ping verifies the storage connection is alive.
	Ping(ctx context.Context) error
}
