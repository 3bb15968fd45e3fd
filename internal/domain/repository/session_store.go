package repository

import (
	"context"
	"time"
)

// SessionStore is a generic string map whose entries expire on their own.
type SessionStore interface {
	// Set overwrites any previous value for key.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get reports found=false for missing or expired keys.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
}

// ContentStore persists opaque file bytes.
type ContentStore interface {
	// EnsureDir is idempotent and tolerates an existing directory.
	EnsureDir(ctx context.Context, dir string) error
	Write(ctx context.Context, path string, data []byte) error
	// Read returns an error wrapping apperror.ErrNotFound for missing content.
	Read(ctx context.Context, path string) ([]byte, error)
	// Delete is idempotent; missing content is not an error.
	Delete(ctx context.Context, path string) error
	// Root is the directory new top-level content is written into.
	Root() string
}

// JobPublisher submits work to a named queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, queue string, body any) error
}

// ProgressReporter receives advisory job progress.
type ProgressReporter interface {
	Report(ctx context.Context, jobKey string, percent int) error
}

type ProgressReader interface {
	// Progress returns the last reported value, or -1 when there is none.
	Progress(ctx context.Context, jobKey string) (int, error)
}

type ProgressStore interface {
	ProgressReporter
	ProgressReader
}
