package application

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	"github.com/oksasatya/files-manager/internal/infrastructure/memory"
)

const (
	testFileQueue = "file_queue"
	testUserQueue = "user_queue"
)

type fixture struct {
	users    *memory.UserRepository
	sessions *memory.SessionStore
	files    *memory.FileRepository
	content  *memory.ContentStore
	pub      *memory.Publisher
	index    *memory.FileIndex
	progress *memory.Progress

	auth    *Authenticator
	authSvc *AuthService
	fileSvc *FileService
	worker  *ThumbnailWorker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    memory.NewUserRepository(),
		sessions: memory.NewSessionStore(),
		files:    memory.NewFileRepository(),
		content:  memory.NewContentStore("/tmp/files_manager"),
		pub:      memory.NewPublisher(),
		index:    memory.NewFileIndex(),
		progress: memory.NewProgress(),
	}
	f.auth = NewAuthenticator(f.users, f.sessions, nil)
	f.authSvc = NewAuthService(f.users, f.sessions, f.auth, f.pub, testUserQueue, 0, nil)
	f.fileSvc = NewFileService(f.files, f.content, f.pub, f.index, testFileQueue, nil)
	f.worker = NewThumbnailWorker(f.files, f.content, f.progress, nil, nil)
	return f
}

// session registers a user, logs in and resolves the token.
func (f *fixture) session(t *testing.T, email string) (*entity.User, string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.authSvc.Register(ctx, email, "secret")
	require.NoError(t, err)
	token, err := f.authSvc.Login(ctx, email, "secret")
	require.NoError(t, err)
	u, err := f.auth.Resolve(ctx, token)
	require.NoError(t, err)
	return u, token
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
