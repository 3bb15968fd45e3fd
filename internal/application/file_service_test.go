package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	"github.com/oksasatya/files-manager/pkg/apperror"
)

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	u, _ := f.session(t, "alice@x.com")
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateFileInput
		msg  string
	}{
		{"no name", CreateFileInput{Kind: entity.KindFolder}, "Missing name"},
		{"blank name", CreateFileInput{Name: "  ", Kind: entity.KindFolder}, "Missing name"},
		{"no type", CreateFileInput{Name: "a"}, "Missing type"},
		{"bad type", CreateFileInput{Name: "a", Kind: "video"}, "Missing type"},
		{"file without data", CreateFileInput{Name: "a", Kind: entity.KindFile}, "Missing data"},
		{"image without data", CreateFileInput{Name: "a", Kind: entity.KindImage}, "Missing data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.fileSvc.Create(ctx, u, tt.in)
			assert.ErrorIs(t, err, apperror.ErrMissingField)
			assert.Equal(t, tt.msg, apperror.PublicMessage(err))
		})
	}

	_, err := f.fileSvc.Create(ctx, nil, CreateFileInput{Name: "a", Kind: entity.KindFolder})
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}

// Scenario A: register, login, create a folder then a file inside it.
func TestCreateFolderAndChild(t *testing.T) {
	f := newFixture(t)
	u, _ := f.session(t, "alice@x.com")
	ctx := context.Background()

	docs, err := f.fileSvc.Create(ctx, u, CreateFileInput{Name: "docs", Kind: entity.KindFolder})
	require.NoError(t, err)
	assert.Equal(t, entity.KindFolder, docs.Kind)
	assert.Equal(t, entity.RootParent, docs.ParentID)
	assert.Equal(t, u.ID, docs.UserID)

	raw, err := json.Marshal(docs)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"parentId":0`)
	assert.NotContains(t, string(raw), "localPath")

	stored, err := f.files.GetByID(ctx, docs.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.LocalPath)

	file, err := f.fileSvc.Create(ctx, u, CreateFileInput{
		Name:     "a.txt",
		Kind:     entity.KindFile,
		ParentID: entity.ParentRef(docs.ID),
		Data:     []byte("Hello Webstack!"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ParentRef(docs.ID), file.ParentID)

	stored, err = f.files.GetByID(ctx, file.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.LocalPath, "/tmp/files_manager/"))
	content, err := f.content.Read(ctx, stored.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "Hello Webstack!", string(content))

	assert.Empty(t, f.pub.ThumbnailJobs(testFileQueue))
}

func TestCreateInvalidParent(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.session(t, "alice@x.com")
	bob, _ := f.session(t, "bob@x.com")
	ctx := context.Background()

	notFolder, err := f.fileSvc.Create(ctx, alice, CreateFileInput{Name: "a.txt", Kind: entity.KindFile, Data: []byte("x")})
	require.NoError(t, err)
	bobsFolder, err := f.fileSvc.Create(ctx, bob, CreateFileInput{Name: "b", Kind: entity.KindFolder})
	require.NoError(t, err)

	tests := []struct {
		name   string
		parent entity.ParentRef
		msg    string
	}{
		{"non folder", entity.ParentRef(notFolder.ID), "Parent is not a folder"},
		{"other owner", entity.ParentRef(bobsFolder.ID), "Parent not found"},
		{"unknown", "5f1e7d35c7ba06511e683b21", "Parent not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.fileSvc.Create(ctx, alice, CreateFileInput{Name: "x", Kind: entity.KindFolder, ParentID: tt.parent})
			assert.ErrorIs(t, err, apperror.ErrInvalidParent)
			assert.Equal(t, tt.msg, apperror.PublicMessage(err))
			assert.Equal(t, 400, apperror.HTTPStatus(err))
		})
	}
}

func TestCreateContentWriteFailure(t *testing.T) {
	f := newFixture(t)
	u, _ := f.session(t, "alice@x.com")
	f.content.FailWrite = func(string) error { return errors.New("disk full") }

	_, err := f.fileSvc.Create(context.Background(), u, CreateFileInput{Name: "a", Kind: entity.KindFile, Data: []byte("x")})
	require.Error(t, err)
	assert.Equal(t, 500, apperror.HTTPStatus(err))

	n, _ := f.files.Count(context.Background())
	assert.Zero(t, n)
}

func TestCreateRemovesContentWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	u, _ := f.session(t, "alice@x.com")
	f.files.Err = errors.New("connection reset")

	_, err := f.fileSvc.Create(context.Background(), u, CreateFileInput{Name: "a.txt", Kind: entity.KindFile, Data: []byte("x")})
	require.Error(t, err)
	assert.Equal(t, 500, apperror.HTTPStatus(err))
	assert.Empty(t, f.content.Paths(f.content.Root()))
}

func TestThumbnailProgress(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.session(t, "alice@x.com")
	bob, _ := f.session(t, "bob@x.com")
	ctx := context.Background()

	img, err := f.fileSvc.Create(ctx, alice, CreateFileInput{Name: "pic.png", Kind: entity.KindImage, Data: pngBytes(t, 8, 8)})
	require.NoError(t, err)
	txt, err := f.fileSvc.Create(ctx, alice, CreateFileInput{Name: "a.txt", Kind: entity.KindFile, Data: []byte("x")})
	require.NoError(t, err)

	f.fileSvc.Progress = f.progress
	p, err := f.fileSvc.ThumbnailProgress(ctx, alice, img.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, p)

	require.NoError(t, f.worker.Process(ctx, entity.ThumbnailJob{FileID: img.ID, UserID: alice.ID}))
	p, err = f.fileSvc.ThumbnailProgress(ctx, alice, img.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, p)

	_, err = f.fileSvc.ThumbnailProgress(ctx, bob, img.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = f.fileSvc.ThumbnailProgress(ctx, alice, txt.ID)
	assert.Equal(t, 400, apperror.HTTPStatus(err))
	_, err = f.fileSvc.ThumbnailProgress(ctx, nil, img.ID)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}

// Scenario B, service half: the image upload returns at once and queues a job.
func TestCreateImageQueuesThumbnailJob(t *testing.T) {
	f := newFixture(t)
	u, _ := f.session(t, "alice@x.com")

	img, err := f.fileSvc.Create(context.Background(), u, CreateFileInput{Name: "pic.png", Kind: entity.KindImage, Data: pngBytes(t, 8, 8)})
	require.NoError(t, err)

	jobs := f.pub.ThumbnailJobs(testFileQueue)
	require.Len(t, jobs, 1)
	assert.Equal(t, entity.ThumbnailJob{FileID: img.ID, UserID: u.ID}, jobs[0])
}

func TestCreateImageSurvivesQueueFault(t *testing.T) {
	f := newFixture(t)
	u, _ := f.session(t, "alice@x.com")
	f.pub.Err = errors.New("broker down")

	img, err := f.fileSvc.Create(context.Background(), u, CreateFileInput{Name: "pic.png", Kind: entity.KindImage, Data: pngBytes(t, 8, 8)})
	require.NoError(t, err)

	_, err = f.files.GetByID(context.Background(), img.ID)
	assert.NoError(t, err)
}

func TestGetByIDVisibility(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.session(t, "alice@x.com")
	bob, _ := f.session(t, "bob@x.com")
	ctx := context.Background()

	private, err := f.fileSvc.Create(ctx, alice, CreateFileInput{Name: "p", Kind: entity.KindFolder})
	require.NoError(t, err)
	public, err := f.fileSvc.Create(ctx, alice, CreateFileInput{Name: "q", Kind: entity.KindFolder, IsPublic: true})
	require.NoError(t, err)

	got, err := f.fileSvc.GetByID(ctx, alice, private.ID)
	require.NoError(t, err)
	assert.Equal(t, private, got)

	_, err = f.fileSvc.GetByID(ctx, bob, private.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	got, err = f.fileSvc.GetByID(ctx, bob, public.ID)
	require.NoError(t, err)
	assert.Equal(t, public, got)

	_, err = f.fileSvc.GetByID(ctx, alice, "does-not-exist")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListPagination(t *testing.T) {
	f := newFixture(t)
	u, _ := f.session(t, "alice@x.com")
	other, _ := f.session(t, "bob@x.com")
	ctx := context.Background()

	var created []string
	for i := 0; i < 25; i++ {
		v, err := f.fileSvc.Create(ctx, u, CreateFileInput{Name: fmt.Sprintf("f%02d", i), Kind: entity.KindFolder})
		require.NoError(t, err)
		created = append(created, v.ID)
	}
	_, err := f.fileSvc.Create(ctx, other, CreateFileInput{Name: "bob", Kind: entity.KindFolder})
	require.NoError(t, err)

	first, err := f.fileSvc.List(ctx, u, entity.RootParent, 0)
	require.NoError(t, err)
	second, err := f.fileSvc.List(ctx, u, "", 1)
	require.NoError(t, err)
	third, err := f.fileSvc.List(ctx, u, entity.RootParent, 2)
	require.NoError(t, err)

	assert.Len(t, first, PageSize)
	assert.Len(t, second, 5)
	assert.NotNil(t, third)
	assert.Empty(t, third)

	var got []string
	for _, v := range append(first, second...) {
		got = append(got, v.ID)
	}
	assert.Equal(t, created, got)

	negative, err := f.fileSvc.List(ctx, u, entity.RootParent, -3)
	require.NoError(t, err)
	assert.Equal(t, first, negative)
}

func TestListByFolder(t *testing.T) {
	f := newFixture(t)
	u, _ := f.session(t, "alice@x.com")
	ctx := context.Background()

	docs, err := f.fileSvc.Create(ctx, u, CreateFileInput{Name: "docs", Kind: entity.KindFolder})
	require.NoError(t, err)
	child, err := f.fileSvc.Create(ctx, u, CreateFileInput{Name: "a.txt", Kind: entity.KindFile, ParentID: entity.ParentRef(docs.ID), Data: []byte("a")})
	require.NoError(t, err)

	list, err := f.fileSvc.List(ctx, u, entity.ParentRef(docs.ID), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, child.ID, list[0].ID)

	root, err := f.fileSvc.List(ctx, u, entity.RootParent, 0)
	require.NoError(t, err)
	require.Len(t, root, 1)
	assert.Equal(t, docs.ID, root[0].ID)
}

func TestSetVisibility(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.session(t, "alice@x.com")
	bob, _ := f.session(t, "bob@x.com")
	ctx := context.Background()

	v, err := f.fileSvc.Create(ctx, alice, CreateFileInput{Name: "docs", Kind: entity.KindFolder})
	require.NoError(t, err)

	once, err := f.fileSvc.SetVisibility(ctx, alice, v.ID, true)
	require.NoError(t, err)
	twice, err := f.fileSvc.SetVisibility(ctx, alice, v.ID, true)
	require.NoError(t, err)
	assert.True(t, once.IsPublic)
	assert.Equal(t, once, twice)

	_, err = f.fileSvc.SetVisibility(ctx, bob, v.ID, false)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	back, err := f.fileSvc.SetVisibility(ctx, alice, v.ID, false)
	require.NoError(t, err)
	assert.False(t, back.IsPublic)
}

func TestContent(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.session(t, "alice@x.com")
	bob, _ := f.session(t, "bob@x.com")
	ctx := context.Background()

	folder, err := f.fileSvc.Create(ctx, alice, CreateFileInput{Name: "docs", Kind: entity.KindFolder, IsPublic: true})
	require.NoError(t, err)
	private, err := f.fileSvc.Create(ctx, alice, CreateFileInput{Name: "a.txt", Kind: entity.KindFile, Data: []byte("hello")})
	require.NoError(t, err)

	data, name, err := f.fileSvc.Content(ctx, alice, private.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "a.txt", name)

	_, _, err = f.fileSvc.Content(ctx, bob, private.ID, "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, _, err = f.fileSvc.Content(ctx, nil, private.ID, "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.fileSvc.SetVisibility(ctx, alice, private.ID, true)
	require.NoError(t, err)
	data, _, err = f.fileSvc.Content(ctx, nil, private.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, _, err = f.fileSvc.Content(ctx, alice, folder.ID, "")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
	assert.Equal(t, "A folder doesn't have content", apperror.PublicMessage(err))

	_, _, err = f.fileSvc.Content(ctx, alice, private.ID, "42")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, _, err = f.fileSvc.Content(ctx, alice, private.ID, "250")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.session(t, "alice@x.com")
	bob, _ := f.session(t, "bob@x.com")
	ctx := context.Background()

	report, err := f.fileSvc.Create(ctx, alice, CreateFileInput{Name: "Report.pdf", Kind: entity.KindFile, Data: []byte("%PDF")})
	require.NoError(t, err)
	_, err = f.fileSvc.Create(ctx, alice, CreateFileInput{Name: "notes", Kind: entity.KindFolder})
	require.NoError(t, err)
	_, err = f.fileSvc.Create(ctx, bob, CreateFileInput{Name: "report-bob", Kind: entity.KindFolder})
	require.NoError(t, err)

	hits, err := f.fileSvc.Search(ctx, alice, "report", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, report.ID, hits[0].ID)

	_, err = f.fileSvc.Search(ctx, alice, " ", 0)
	assert.ErrorIs(t, err, apperror.ErrMissingField)

	f.index.Err = errors.New("cluster red")
	_, err = f.fileSvc.Search(ctx, alice, "report", 0)
	assert.Error(t, err)
}

func TestIndexFaultDoesNotFailCreate(t *testing.T) {
	f := newFixture(t)
	u, _ := f.session(t, "alice@x.com")
	f.index.Err = errors.New("cluster red")

	_, err := f.fileSvc.Create(context.Background(), u, CreateFileInput{Name: "docs", Kind: entity.KindFolder})
	assert.NoError(t, err)
}

// Scenario C: after logout every file operation is unauthorised.
func TestOperationsAfterLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, token := f.session(t, "alice@x.com")
	v, err := f.fileSvc.Create(ctx, u, CreateFileInput{Name: "docs", Kind: entity.KindFolder})
	require.NoError(t, err)

	require.NoError(t, f.authSvc.Logout(ctx, token))

	resolved, err := f.auth.Resolve(ctx, token)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	assert.Nil(t, resolved)

	_, err = f.fileSvc.Create(ctx, resolved, CreateFileInput{Name: "x", Kind: entity.KindFolder})
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	_, err = f.fileSvc.GetByID(ctx, resolved, v.ID)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	_, err = f.fileSvc.List(ctx, resolved, entity.RootParent, 0)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	_, err = f.fileSvc.SetVisibility(ctx, resolved, v.ID, true)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	_, err = f.fileSvc.Search(ctx, resolved, "docs", 0)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}
