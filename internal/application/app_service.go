package application

import (
	"context"

	repo "github.com/oksasatya/files-manager/internal/domain/repository"
)

// Probe reports whether a backing service answers.
type Probe func(ctx context.Context) bool

type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// AppService answers the health and counter endpoints.
type AppService struct {
	Users      repo.UserRepository
	Files      repo.FileRepository
	RedisAlive Probe
	DBAlive    Probe
}

func NewAppService(users repo.UserRepository, files repo.FileRepository, redisAlive, dbAlive Probe) *AppService {
	return &AppService{Users: users, Files: files, RedisAlive: redisAlive, DBAlive: dbAlive}
}

func (s *AppService) Status(ctx context.Context) Status {
	var st Status
	if s.RedisAlive != nil {
		st.Redis = s.RedisAlive(ctx)
	}
	if s.DBAlive != nil {
		st.DB = s.DBAlive(ctx)
	}
	return st
}

func (s *AppService) Stats(ctx context.Context) (Stats, error) {
	users, err := s.Users.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	files, err := s.Files.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Users: users, Files: files}, nil
}
