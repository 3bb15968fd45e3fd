package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/files-manager/config"
	"github.com/oksasatya/files-manager/internal/application"
	"github.com/oksasatya/files-manager/internal/infrastructure/memory"
	"github.com/oksasatya/files-manager/internal/infrastructure/storage"
)

func TestNewWiresServices(t *testing.T) {
	cfg := &config.Config{
		AppName:           "files-manager",
		RabbitMQFileQueue: "files",
		RabbitMQUserQueue: "users",
		ThumbnailWidths:   "320,64",
	}
	users := memory.NewUserRepository()
	pub := memory.NewPublisher()
	c := New(cfg, nil, Deps{
		Users:     users,
		Files:     memory.NewFileRepository(),
		Sessions:  memory.NewSessionStore(),
		Content:   memory.NewContentStore("/data"),
		Publisher: pub,
	})

	assert.Equal(t, []int{320, 64}, c.Files.ThumbnailWidths)
	assert.Equal(t, []int{320, 64}, c.Thumbnails.Widths)
	assert.Equal(t, "files", c.Files.FileQueue)
	assert.Equal(t, application.DefaultSessionTTL, c.Auth.SessionTTL)
	assert.Nil(t, c.Files.Index)

	ctx := context.Background()
	_, err := c.Auth.Register(ctx, "alice@x.com", "secret")
	require.NoError(t, err)
	assert.Len(t, pub.Messages("users"), 1)

	token, err := c.Auth.Login(ctx, "alice@x.com", "secret")
	require.NoError(t, err)
	u, err := c.Authenticator.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", u.Email)
}

func TestContentStoreDriver(t *testing.T) {
	cfg := &config.Config{StorageDriver: "local", FolderPath: "/tmp/fm"}
	s := ContentStore(cfg, nil)
	require.IsType(t, &storage.LocalStore{}, s)
	assert.Equal(t, "/tmp/fm", s.Root())

	cfg.StorageDriver = "gcs"
	assert.IsType(t, &storage.LocalStore{}, ContentStore(cfg, nil))
}
