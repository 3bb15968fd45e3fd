package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	repo "github.com/oksasatya/files-manager/internal/domain/repository"
	"github.com/oksasatya/files-manager/pkg/apperror"
	"github.com/oksasatya/files-manager/pkg/helpers"
)

func sessionKey(token string) string {
	return "auth_" + token
}

// Authenticator resolves session tokens to users.
type Authenticator struct {
	Users    repo.UserRepository
	Sessions repo.SessionStore
	Logger   *logrus.Logger
}

func NewAuthenticator(users repo.UserRepository, sessions repo.SessionStore, logger *logrus.Logger) *Authenticator {
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	return &Authenticator{Users: users, Sessions: sessions, Logger: logger}
}

// Resolve returns the user behind token. Every authentication miss,
// including a session pointing at a user that no longer exists, yields the
// same Unauthenticated error. Store outages are returned as internal errors.
func (a *Authenticator) Resolve(ctx context.Context, token string) (*entity.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperror.Unauthenticated()
	}
	uid, ok, err := a.Sessions.Get(ctx, sessionKey(token))
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if !ok || uid == "" {
		return nil, apperror.Unauthenticated()
	}
	u, err := a.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			a.Logger.WithField("user_id", uid).Warn("session references missing user")
			return nil, apperror.Unauthenticated()
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	return u, nil
}
