package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	"github.com/oksasatya/files-manager/internal/domain/repository"
)

type indexEntry struct {
	id, userID, name string
}

// FileIndex matches names by case-insensitive substring.
type FileIndex struct {
	mu      sync.Mutex
	entries []indexEntry
	Err     error
}

func NewFileIndex() *FileIndex { return &FileIndex{} }

func (x *FileIndex) Index(_ context.Context, f *entity.File) error {
	if x.Err != nil {
		return x.Err
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	for i := range x.entries {
		if x.entries[i].id == f.ID {
			x.entries[i] = indexEntry{f.ID, f.UserID, f.Name}
			return nil
		}
	}
	x.entries = append(x.entries, indexEntry{f.ID, f.UserID, f.Name})
	return nil
}

func (x *FileIndex) Search(_ context.Context, userID, q string, size int) ([]string, error) {
	if x.Err != nil {
		return nil, x.Err
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	q = strings.ToLower(q)
	var ids []string
	for _, e := range x.entries {
		if len(ids) == size {
			break
		}
		if e.userID == userID && strings.Contains(strings.ToLower(e.name), q) {
			ids = append(ids, e.id)
		}
	}
	return ids, nil
}

// Len reports how many records are indexed.
func (x *FileIndex) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.entries)
}

var _ repository.FileIndex = (*FileIndex)(nil)
