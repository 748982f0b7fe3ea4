package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one stored media object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service stores post media attachments in remote object storage.
type Service interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) (string, error)
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	Delete(ctx context.Context, bucket, key string) error
	PresignURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
