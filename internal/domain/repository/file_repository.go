package repository

import (
	"context"

	"github.com/oksasatya/files-manager/internal/domain/entity"
)

// FileRepository is the file metadata store. Lookups of unknown ids return
// apperror.ErrNotFound.
type FileRepository interface {
	Create(ctx context.Context, f *entity.File) error
	GetByID(ctx context.Context, id string) (*entity.File, error)
	// ListByParent returns the owner's records under parent in insertion order.
	ListByParent(ctx context.Context, userID string, parent entity.ParentRef, limit, offset int) ([]entity.File, error)
	// SetPublic updates the flag of a record owned by userID in a single
	// atomic statement and returns the updated record.
	SetPublic(ctx context.Context, id, userID string, public bool) (*entity.File, error)
	Count(ctx context.Context) (int64, error)
}

// FileIndex is an optional secondary index used for name search.
type FileIndex interface {
	Index(ctx context.Context, f *entity.File) error
	// Search returns ids of files owned by userID whose name matches q.
	Search(ctx context.Context, userID, q string, size int) ([]string, error)
}
