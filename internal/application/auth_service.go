package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	repo "github.com/oksasatya/files-manager/internal/domain/repository"
	"github.com/oksasatya/files-manager/pkg/apperror"
	"github.com/oksasatya/files-manager/pkg/helpers"
)

const DefaultSessionTTL = 24 * time.Hour

// AuthService covers registration and the session lifecycle.
type AuthService struct {
	Users      repo.UserRepository
	Sessions   repo.SessionStore
	Auth       *Authenticator
	Publisher  repo.JobPublisher
	UserQueue  string
	SessionTTL time.Duration
	Logger     *logrus.Logger
}

func NewAuthService(users repo.UserRepository, sessions repo.SessionStore, auth *Authenticator, pub repo.JobPublisher, userQueue string, ttl time.Duration, logger *logrus.Logger) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	return &AuthService{
		Users:      users,
		Sessions:   sessions,
		Auth:       auth,
		Publisher:  pub,
		UserQueue:  userQueue,
		SessionTTL: ttl,
		Logger:     logger,
	}
}

// Register creates a user with a unique email and queues the welcome mail.
func (s *AuthService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.MissingField("email")
	}
	if password == "" {
		return nil, apperror.MissingField("password")
	}

	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.AlreadyExists()
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Email: email, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.enqueueWelcome(ctx, u)
	return u, nil
}

// enqueueWelcome is best effort; a stalled broker never holds up registration.
func (s *AuthService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Publisher == nil || s.UserQueue == "" {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.Publisher.PublishJSON(pctx, s.UserQueue, entity.WelcomeJob{UserID: u.ID}); err != nil {
		helpers.LogWarn(s.Logger, "welcome job not queued", err, logrus.Fields{"user_id": u.ID})
	}
}

// Login checks credentials and opens a session for SessionTTL.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperror.Unauthenticated()
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.Unauthenticated()
		}
		return "", err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return "", apperror.Unauthenticated()
	}

	token := uuid.NewString()
	if err := s.Sessions.Set(ctx, sessionKey(token), u.ID, s.SessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	s.Logger.WithField("user_id", u.ID).Debug("session opened")
	return token, nil
}

// Logout revokes the session behind token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	u, err := s.Auth.Resolve(ctx, token)
	if err != nil {
		return err
	}
	if err := s.Sessions.Delete(ctx, sessionKey(strings.TrimSpace(token))); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.Logger.WithField("user_id", u.ID).Debug("session closed")
	return nil
}
