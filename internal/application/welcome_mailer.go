package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	repo "github.com/oksasatya/files-manager/internal/domain/repository"
	"github.com/oksasatya/files-manager/pkg/apperror"
	"github.com/oksasatya/files-manager/pkg/helpers"
	"github.com/oksasatya/files-manager/pkg/mailer/templates"
)

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// WelcomeMailer handles jobs from the user queue. Without a Mailer the
// greeting is only logged.
type WelcomeMailer struct {
	Users   repo.UserRepository
	Mailer  Mailer
	AppName string
	Logger  *logrus.Logger
}

func NewWelcomeMailer(users repo.UserRepository, mailer Mailer, logger *logrus.Logger) *WelcomeMailer {
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	return &WelcomeMailer{Users: users, Mailer: mailer, Logger: logger}
}

func (m *WelcomeMailer) HandleMessage(ctx context.Context, body []byte) error {
	var job entity.WelcomeJob
	if err := json.Unmarshal(body, &job); err != nil {
		return apperror.InvalidJob("Malformed job payload")
	}
	return m.Process(ctx, job)
}

func (m *WelcomeMailer) Process(ctx context.Context, job entity.WelcomeJob) error {
	if job.UserID == "" {
		return apperror.InvalidJob("Missing userId")
	}
	u, err := m.Users.GetByID(ctx, job.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.InvalidJob("User not found")
		}
		return err
	}

	if m.Mailer == nil {
		helpers.LogInfo(m.Logger, fmt.Sprintf("Welcome %s!", u.Email), logrus.Fields{"user_id": u.ID})
		return nil
	}
	subject, text, html, err := templates.Render(templates.Welcome, templates.EmailData{
		Email:   u.Email,
		AppName: m.AppName,
		TimeAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("render welcome mail: %w", err)
	}
	if err := m.Mailer.Send(ctx, u.Email, subject, text, html); err != nil {
		return fmt.Errorf("send welcome mail: %w", err)
	}
	helpers.LogInfo(m.Logger, "welcome mail sent", logrus.Fields{"user_id": u.ID})
	return nil
}
