package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	cfg "github.com/retrocade/retrocade/internal/config"
)

var ErrNotFound = errors.New("object not found")

// Storage is a get/put-by-key object store for uploaded payloads
type Storage interface {
	// Save stores the content of r under path, replacing any previous object
	Save(ctx context.Context, path string, r io.Reader) error

	// Open returns a reader for the object at path; callers must close it
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path
	Delete(ctx context.Context, path string) error
}

// New creates the storage backend selected by STORAGE_DRIVER
func New(c *cfg.Config, database *sqlx.DB) (Storage, error) {
	switch c.StorageDriver {
	case "", "db":
		slog.Info("initializing database blob storage")
		return NewDBStorage(database), nil
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
