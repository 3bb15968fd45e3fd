package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/files-manager/internal/domain/repository"
)

const progressTTL = 24 * time.Hour

func progressKey(jobKey string) string {
	return "thumbnail:progress:" + jobKey
}

// ProgressStore records the latest advisory progress of a job.
type ProgressStore struct {
	rdb *redis.Client
}

func NewProgressStore(rdb *redis.Client) *ProgressStore {
	return &ProgressStore{rdb: rdb}
}

func (p *ProgressStore) Report(ctx context.Context, jobKey string, percent int) error {
	return p.rdb.Set(ctx, progressKey(jobKey), percent, progressTTL).Err()
}

// Progress returns the last reported value, or -1 when nothing was reported.
func (p *ProgressStore) Progress(ctx context.Context, jobKey string) (int, error) {
	n, err := p.rdb.Get(ctx, progressKey(jobKey)).Int()
	if errors.Is(err, redis.Nil) {
		return -1, nil
	}
	return n, err
}

var _ repository.ProgressStore = (*ProgressStore)(nil)
