package storage

import (
	"context"
	"io"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// UploadInput describes one attachment object to store.
type UploadInput struct {
	Bucket      string
	Key         string
	ContentType string
	Body        io.Reader
}

// Service stores post attachments in remote object storage.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
