package main

import (
	"context"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/config"
	"github.com/oksasatya/files-manager/internal/container"
	"github.com/oksasatya/files-manager/pkg/helpers"
)

// The worker consumes the thumbnail and welcome-mail queues until SIGINT or
// SIGTERM. Failed jobs are logged and dropped.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := container.OpenInfra(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to init infrastructure: %v", err)
	}
	defer infra.Close()

	c := container.New(cfg, logger, infra.Deps(cfg))
	if !cfg.MailEnabled() {
		logger.Info("mail sending disabled; welcome jobs are only logged")
	}

	queues := map[string]helpers.MessageHandler{
		cfg.RabbitMQFileQueue: c.Thumbnails.HandleMessage,
		cfg.RabbitMQUserQueue: c.Welcome.HandleMessage,
	}

	var wg sync.WaitGroup
	for queue, handle := range queues {
		queue, handle := queue, handle
		consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, queue, cfg.WorkerPrefetch, logger)
		if err != nil {
			log.Fatalf("consumer %s: %v", queue, err)
		}
		defer consumer.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.WithField("queue", queue).Info("consuming")
			if err := consumer.Run(ctx, handle); err != nil {
				helpers.LogError(logger, "consumer stopped", err, logrus.Fields{"queue": queue})
				stop()
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down worker")
	wg.Wait()
	logger.Info("worker exited properly")
}
