// Package storage archives generated files in S3-compatible object storage.
package storage

import (
	"context"
	"io"
	"time"
)

// Object describes a stored file. Size must be exact; -1 lets the backend stream
// an unknown length in parts.
type Object struct {
	Key         string
	ContentType string
	Size        int64
	ETag        string
	Metadata    map[string]string
}

// Storage is the object store used for roster archives.
type Storage interface {
	Upload(ctx context.Context, obj Object, r io.Reader) (Object, error)
	Remove(ctx context.Context, key string) error
	// SignedURL returns a download link that expires after ttl.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
