package container

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/config"
	repo "github.com/oksasatya/files-manager/internal/domain/repository"
	pginfra "github.com/oksasatya/files-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/files-manager/internal/infrastructure/redisstore"
	"github.com/oksasatya/files-manager/internal/infrastructure/search"
	"github.com/oksasatya/files-manager/internal/infrastructure/storage"
	"github.com/oksasatya/files-manager/pkg/helpers"
	"github.com/oksasatya/files-manager/pkg/mailer"
)

// Infra owns the connections to external services.
type Infra struct {
	PG     *pgxpool.Pool
	Redis  *redis.Client
	Rabbit *helpers.RabbitPublisher
	GCS    *gcs.Client
	ES     *elasticsearch.Client
}

// OpenInfra connects to Postgres, Redis and RabbitMQ, plus GCS and
// Elasticsearch when configured. On error everything opened so far is
// closed.
func OpenInfra(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (_ *Infra, err error) {
	in := &Infra{}
	defer func() {
		if err != nil {
			in.Close()
		}
	}()

	in.PG, err = pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	in.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if !helpers.RedisAlive(ctx, in.Redis) {
		logger.WithField("addr", cfg.RedisAddr).Warn("redis not reachable at startup")
	}

	in.Rabbit, err = helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQFileQueue, cfg.RabbitMQUserQueue)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: %w", err)
	}

	if cfg.StorageDriver == "gcs" {
		in.GCS, err = helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
	}

	if cfg.SearchEnabled {
		in.ES, err = helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			return nil, fmt.Errorf("elasticsearch: %w", err)
		}
	}
	return in, nil
}

// Deps adapts the open connections to the service ports.
func (in *Infra) Deps(cfg *config.Config) Deps {
	d := Deps{
		Users:      pginfra.NewUserRepository(in.PG),
		Files:      pginfra.NewFileRepository(in.PG),
		Sessions:   redisstore.NewSessionStore(in.Redis),
		Content:    ContentStore(cfg, in.GCS),
		Publisher:  in.Rabbit,
		Progress:   redisstore.NewProgressStore(in.Redis),
		RedisAlive: func(ctx context.Context) bool { return helpers.RedisAlive(ctx, in.Redis) },
		DBAlive:    func(ctx context.Context) bool { return pginfra.Alive(ctx, in.PG) },
	}
	if cfg.RateLimitEnabled {
		d.Redis = in.Redis
	}
	if in.ES != nil {
		d.Index = search.NewFileIndex(in.ES, cfg.ESFilesIndex)
	}
	if cfg.MailEnabled() {
		mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		mg.APIBase = cfg.MailgunAPIBase
		d.Mailer = mg
	}
	return d
}

// ContentStore picks the storage driver. GCS object names reuse FolderPath
// as their prefix.
func ContentStore(cfg *config.Config, client *gcs.Client) repo.ContentStore {
	if cfg.StorageDriver == "gcs" && client != nil {
		return storage.NewGCSStore(client, cfg.GCSBucket, cfg.FolderPath)
	}
	return storage.NewLocalStore(cfg.FolderPath)
}

func (in *Infra) Close() {
	if in == nil {
		return
	}
	in.Rabbit.Close()
	if in.GCS != nil {
		_ = in.GCS.Close()
	}
	if in.Redis != nil {
		_ = in.Redis.Close()
	}
	if in.PG != nil {
		in.PG.Close()
	}
}
