package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/files-manager/internal/domain/repository"
	"github.com/oksasatya/files-manager/pkg/apperror"
)

// GCSStore maps content paths onto object names in one bucket.
type GCSStore struct {
	client *gcs.Client
	bucket string
	prefix string
}

func NewGCSStore(client *gcs.Client, bucket, prefix string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *GCSStore) Root() string { return s.prefix }

// EnsureDir is a no-op: object stores have no directories.
func (s *GCSStore) EnsureDir(context.Context, string) error { return nil }

func (s *GCSStore) Write(ctx context.Context, path string, data []byte) error {
	wc := s.client.Bucket(s.bucket).Object(objectName(path)).NewWriter(ctx)
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return fmt.Errorf("gcs write %s: %w", path, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", path, err)
	}
	return nil
}

func (s *GCSStore) Read(ctx context.Context, path string) ([]byte, error) {
	rc, err := s.client.Bucket(s.bucket).Object(objectName(path)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, fmt.Errorf("gcs read %s: %w", path, apperror.NotFound())
		}
		return nil, fmt.Errorf("gcs read %s: %w", path, err)
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(objectName(path)).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete %s: %w", path, err)
	}
	return nil
}

func objectName(path string) string {
	return strings.TrimPrefix(path, "/")
}

var _ repository.ContentStore = (*GCSStore)(nil)
