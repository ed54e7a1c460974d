package storage

import (
	"context"
	"io"
)

// StorageInterface is the archive backend retrieved files are copied to.
type StorageInterface interface {
	BucketName() string
	UploadWithMetadata(ctx context.Context, key string, data io.Reader, contentType string, metadata map[string]string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}
