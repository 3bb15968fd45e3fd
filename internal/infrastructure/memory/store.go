// Package memory holds in-process implementations of the repository ports.
// They back the service tests and local runs without external services.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	"github.com/oksasatya/files-manager/internal/domain/repository"
	"github.com/oksasatya/files-manager/pkg/apperror"
)

type sessionEntry struct {
	value    string
	deadline time.Time
}

// SessionStore expires entries lazily on read using Now.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]sessionEntry
	Now     func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]sessionEntry), Now: time.Now}
}

func (s *SessionStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = sessionEntry{value: value, deadline: s.Now().Add(ttl)}
	return nil
}

func (s *SessionStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if !s.Now().Before(e.deadline) {
		delete(s.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *SessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]*entity.User), byEmail: make(map[string]*entity.User)}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[u.Email]; exists {
		return apperror.AlreadyExists()
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	stored := *u
	r.byID[u.ID] = &stored
	r.byEmail[u.Email] = &stored
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, apperror.NotFound()
	}
	out := *u
	return &out, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, apperror.NotFound()
	}
	out := *u
	return &out, nil
}

func (r *UserRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

// Delete removes a user; only tests use it to simulate a dangling session.
func (r *UserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byID, id)
	}
}

// FileRepository keeps records in insertion order.
type FileRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*entity.File

	// Err, when set, fails every Create.
	Err error
}

func NewFileRepository() *FileRepository {
	return &FileRepository{byID: make(map[string]*entity.File)}
}

func (r *FileRepository) Create(_ context.Context, f *entity.File) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = uuid.NewString()
	f.CreatedAt = time.Now()
	if f.ParentID.IsRoot() {
		f.ParentID = entity.RootParent
	}
	stored := *f
	r.byID[f.ID] = &stored
	r.order = append(r.order, f.ID)
	return nil
}

func (r *FileRepository) GetByID(_ context.Context, id string) (*entity.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, apperror.NotFound()
	}
	out := *f
	return &out, nil
}

func (r *FileRepository) ListByParent(_ context.Context, userID string, parent entity.ParentRef, limit, offset int) ([]entity.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if parent.IsRoot() {
		parent = entity.RootParent
	}
	out := make([]entity.File, 0, limit)
	skipped := 0
	for _, id := range r.order {
		f := r.byID[id]
		if f.UserID != userID || f.ParentID != parent {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, *f)
	}
	return out, nil
}

func (r *FileRepository) SetPublic(_ context.Context, id, userID string, public bool) (*entity.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok || f.UserID != userID {
		return nil, apperror.NotFound()
	}
	f.IsPublic = public
	out := *f
	return &out, nil
}

func (r *FileRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

var (
	_ repository.SessionStore   = (*SessionStore)(nil)
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.FileRepository = (*FileRepository)(nil)
)
