package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/files-manager/config"
	"github.com/oksasatya/files-manager/internal/application"
	"github.com/oksasatya/files-manager/internal/domain/entity"
	pginfra "github.com/oksasatya/files-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/files-manager/internal/infrastructure/storage"
	"github.com/oksasatya/files-manager/pkg/apperror"
	"github.com/oksasatya/files-manager/pkg/helpers"
)

// Seeds a demo user with a root folder and a text file inside it.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	email := "demo@files.local"
	password := "password123"

	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		hash, hErr := helpers.HashPassword(password)
		if hErr != nil {
			log.Fatalf("failed to hash password: %v", hErr)
		}
		u = &entity.User{Email: email, Password: hash}
		err = users.Create(ctx, u)
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, password)

	files := application.NewFileService(pginfra.NewFileRepository(pool), storage.NewLocalStore(cfg.FolderPath), nil, nil, "", nil)
	docs, err := files.Create(ctx, u, application.CreateFileInput{Name: "docs", Kind: entity.KindFolder})
	if err != nil {
		log.Fatalf("failed to seed folder: %v", err)
	}
	readme, err := files.Create(ctx, u, application.CreateFileInput{
		Name:     "README.txt",
		Kind:     entity.KindFile,
		ParentID: entity.ParentRef(docs.ID),
		IsPublic: true,
		Data:     []byte("Hello from files-manager!\n"),
	})
	if err != nil {
		log.Fatalf("failed to seed file: %v", err)
	}
	fmt.Printf("seeded files: folder=%s file=%s\n", docs.ID, readme.ID)
}
