package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	"github.com/oksasatya/files-manager/internal/domain/repository"
	"github.com/oksasatya/files-manager/pkg/apperror"
)

// ContentStore keeps blobs in a map keyed by path.
type ContentStore struct {
	mu    sync.RWMutex
	root  string
	dirs  map[string]bool
	blobs map[string][]byte
	// FailWrite, when set, is consulted before every write.
	FailWrite func(path string) error
}

func NewContentStore(root string) *ContentStore {
	return &ContentStore{root: root, dirs: make(map[string]bool), blobs: make(map[string][]byte)}
}

func (s *ContentStore) Root() string { return s.root }

func (s *ContentStore) EnsureDir(_ context.Context, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[dir] = true
	return nil
}

func (s *ContentStore) Write(_ context.Context, path string, data []byte) error {
	if s.FailWrite != nil {
		if err := s.FailWrite(path); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[path] = append([]byte(nil), data...)
	return nil
}

func (s *ContentStore) Read(_ context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, apperror.NotFound())
	}
	return append([]byte(nil), b...), nil
}

func (s *ContentStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, path)
	return nil
}

// Paths lists stored paths with the given prefix.
func (s *ContentStore) Paths(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for p := range s.blobs {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

// Publisher records published messages per queue.
type Publisher struct {
	mu       sync.Mutex
	messages map[string][]any
	Err      error
}

func NewPublisher() *Publisher {
	return &Publisher{messages: make(map[string][]any)}
}

func (p *Publisher) PublishJSON(_ context.Context, queue string, body any) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages[queue] = append(p.messages[queue], body)
	return nil
}

func (p *Publisher) Messages(queue string) []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]any(nil), p.messages[queue]...)
}

// ThumbnailJobs returns the thumbnail jobs published to queue.
func (p *Publisher) ThumbnailJobs(queue string) []entity.ThumbnailJob {
	var out []entity.ThumbnailJob
	for _, m := range p.Messages(queue) {
		if j, ok := m.(entity.ThumbnailJob); ok {
			out = append(out, j)
		}
	}
	return out
}

// Progress records every reported value per job.
type Progress struct {
	mu     sync.Mutex
	values map[string][]int
}

func NewProgress() *Progress {
	return &Progress{values: make(map[string][]int)}
}

func (p *Progress) Report(_ context.Context, jobKey string, percent int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[jobKey] = append(p.values[jobKey], percent)
	return nil
}

func (p *Progress) Progress(_ context.Context, jobKey string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := p.values[jobKey]
	if len(v) == 0 {
		return -1, nil
	}
	return v[len(v)-1], nil
}

func (p *Progress) Values(jobKey string) []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.values[jobKey]...)
}

var (
	_ repository.ContentStore  = (*ContentStore)(nil)
	_ repository.JobPublisher  = (*Publisher)(nil)
	_ repository.ProgressStore = (*Progress)(nil)
)
