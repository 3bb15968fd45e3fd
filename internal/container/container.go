// Package container builds the application services from explicitly passed
// ports. Nothing here is global; tests build a Container from in-memory
// adapters and the binaries from OpenInfra.
package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/config"
	"github.com/oksasatya/files-manager/internal/application"
	repo "github.com/oksasatya/files-manager/internal/domain/repository"
	"github.com/oksasatya/files-manager/pkg/helpers"
)

// Deps are the ports services are built from. Index, Progress and Mailer
// are optional.
type Deps struct {
	Users     repo.UserRepository
	Files     repo.FileRepository
	Sessions  repo.SessionStore
	Content   repo.ContentStore
	Publisher repo.JobPublisher
	Index     repo.FileIndex
	Progress  repo.ProgressStore
	Mailer    application.Mailer

	RedisAlive application.Probe
	DBAlive    application.Probe

	// Redis backs rate limiting; nil disables it.
	Redis *redis.Client
}

type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Redis  *redis.Client

	Authenticator *application.Authenticator
	Auth          *application.AuthService
	Files         *application.FileService
	App           *application.AppService
	Thumbnails    *application.ThumbnailWorker
	Welcome       *application.WelcomeMailer
}

func New(cfg *config.Config, logger *logrus.Logger, d Deps) *Container {
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	widths := cfg.ThumbnailSizes()

	authn := application.NewAuthenticator(d.Users, d.Sessions, logger)
	files := application.NewFileService(d.Files, d.Content, d.Publisher, d.Index, cfg.RabbitMQFileQueue, logger)
	files.ThumbnailWidths = widths
	files.Progress = d.Progress

	thumbs := application.NewThumbnailWorker(d.Files, d.Content, d.Progress, widths, logger)
	thumbs.MaxPixels = cfg.ThumbnailMaxPixels

	welcome := application.NewWelcomeMailer(d.Users, d.Mailer, logger)
	welcome.AppName = cfg.AppName

	return &Container{
		Config:        cfg,
		Logger:        logger,
		Redis:         d.Redis,
		Authenticator: authn,
		Auth:          application.NewAuthService(d.Users, d.Sessions, authn, d.Publisher, cfg.RabbitMQUserQueue, cfg.SessionTTL, logger),
		Files:         files,
		App:           application.NewAppService(d.Users, d.Files, d.RedisAlive, d.DBAlive),
		Thumbnails:    thumbs,
		Welcome:       welcome,
	}
}
