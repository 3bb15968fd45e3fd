package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	repo "github.com/oksasatya/files-manager/internal/domain/repository"
	"github.com/oksasatya/files-manager/pkg/apperror"
	"github.com/oksasatya/files-manager/pkg/helpers"
)

const (
	PageSize          = 20
	publishTimeout    = 5 * time.Second
	defaultSearchSize = 20
)

// DefaultThumbnailWidths are the derivative widths produced for every image.
var DefaultThumbnailWidths = []int{500, 250, 100}

type CreateFileInput struct {
	Name     string
	Kind     entity.FileKind
	ParentID entity.ParentRef
	IsPublic bool
	Data     []byte
}

// FileService implements the file metadata operations. Every method that
// takes a user requires a resolved identity.
type FileService struct {
	Files           repo.FileRepository
	Store           repo.ContentStore
	Publisher       repo.JobPublisher
	Index           repo.FileIndex
	FileQueue       string
	ThumbnailWidths []int
	Logger          *logrus.Logger

	// Progress is optional; without it thumbnail progress reads as -1.
	Progress repo.ProgressReader
}

func NewFileService(files repo.FileRepository, content repo.ContentStore, pub repo.JobPublisher, index repo.FileIndex, fileQueue string, logger *logrus.Logger) *FileService {
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	return &FileService{
		Files:           files,
		Store:           content,
		Publisher:       pub,
		Index:           index,
		FileQueue:       fileQueue,
		ThumbnailWidths: DefaultThumbnailWidths,
		Logger:          logger,
	}
}

// Create validates the input, writes content for files and images, then
// inserts the record. Content is durable before the record exists and is
// removed again when the insert fails.
func (s *FileService) Create(ctx context.Context, user *entity.User, in CreateFileInput) (entity.FileView, error) {
	if user == nil {
		return entity.FileView{}, apperror.Unauthenticated()
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entity.FileView{}, apperror.MissingField("name")
	}
	if !in.Kind.Valid() {
		return entity.FileView{}, apperror.MissingField("type")
	}
	if in.Kind.HasContent() && len(in.Data) == 0 {
		return entity.FileView{}, apperror.MissingField("data")
	}

	parent := in.ParentID
	if parent.IsRoot() {
		parent = entity.RootParent
	} else if err := s.checkParent(ctx, user, string(parent)); err != nil {
		return entity.FileView{}, err
	}

	f := &entity.File{
		UserID:   user.ID,
		Name:     name,
		Kind:     in.Kind,
		ParentID: parent,
		IsPublic: in.IsPublic,
	}

	if in.Kind.HasContent() {
		root := s.Store.Root()
		if err := s.Store.EnsureDir(ctx, root); err != nil {
			return entity.FileView{}, fmt.Errorf("prepare storage: %w", err)
		}
		path := filepath.Join(root, uuid.NewString())
		if err := s.Store.Write(ctx, path, in.Data); err != nil {
			return entity.FileView{}, fmt.Errorf("write content: %w", err)
		}
		f.LocalPath = path
	}

	if err := s.Files.Create(ctx, f); err != nil {
		if f.LocalPath != "" {
			if dErr := s.Store.Delete(ctx, f.LocalPath); dErr != nil {
				helpers.LogWarn(s.Logger, "orphaned content not removed", dErr, logrus.Fields{"path": f.LocalPath})
			}
		}
		return entity.FileView{}, err
	}

	if f.Kind == entity.KindImage {
		s.enqueueThumbnails(ctx, f)
	}
	s.index(ctx, f)

	return f.View(), nil
}

func (s *FileService) checkParent(ctx context.Context, user *entity.User, id string) error {
	p, err := s.Files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.InvalidParent("Parent not found")
		}
		return err
	}
	if p.UserID != user.ID {
		return apperror.InvalidParent("Parent not found")
	}
	if p.Kind != entity.KindFolder {
		return apperror.InvalidParent("Parent is not a folder")
	}
	return nil
}

// enqueueThumbnails publishes the job after the record is committed. A
// failed publish is logged and leaves the upload in place.
func (s *FileService) enqueueThumbnails(ctx context.Context, f *entity.File) {
	if s.Publisher == nil || s.FileQueue == "" {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	job := entity.ThumbnailJob{FileID: f.ID, UserID: f.UserID}
	if err := s.Publisher.PublishJSON(pctx, s.FileQueue, job); err != nil {
		helpers.LogError(s.Logger, "thumbnail job not queued", err, logrus.Fields{"file_id": f.ID})
	}
}

func (s *FileService) index(ctx context.Context, f *entity.File) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, f); err != nil {
		helpers.LogWarn(s.Logger, "file not indexed", err, logrus.Fields{"file_id": f.ID})
	}
}

// GetByID returns a record owned by the caller or marked public.
func (s *FileService) GetByID(ctx context.Context, user *entity.User, id string) (entity.FileView, error) {
	if user == nil {
		return entity.FileView{}, apperror.Unauthenticated()
	}
	f, err := s.visible(ctx, user, id)
	if err != nil {
		return entity.FileView{}, err
	}
	return f.View(), nil
}

func (s *FileService) visible(ctx context.Context, user *entity.User, id string) (*entity.File, error) {
	f, err := s.Files.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.IsPublic {
		return f, nil
	}
	if user == nil || f.UserID != user.ID {
		return nil, apperror.NotFound()
	}
	return f, nil
}

// List returns one page of the caller's records under parent. Pages are
// zero-indexed and hold PageSize records.
func (s *FileService) List(ctx context.Context, user *entity.User, parent entity.ParentRef, page int) ([]entity.FileView, error) {
	if user == nil {
		return nil, apperror.Unauthenticated()
	}
	if page < 0 {
		page = 0
	}
	if parent.IsRoot() {
		parent = entity.RootParent
	}
	files, err := s.Files.ListByParent(ctx, user.ID, parent, PageSize, page*PageSize)
	if err != nil {
		return nil, err
	}
	views := make([]entity.FileView, 0, len(files))
	for i := range files {
		views = append(views, files[i].View())
	}
	return views, nil
}

// ThumbnailProgress returns the last progress the worker reported for an
// image the caller owns, or -1 before the job started.
func (s *FileService) ThumbnailProgress(ctx context.Context, user *entity.User, id string) (int, error) {
	if user == nil {
		return 0, apperror.Unauthenticated()
	}
	f, err := s.Files.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if f.UserID != user.ID {
		return 0, apperror.NotFound()
	}
	if f.Kind != entity.KindImage {
		return 0, apperror.BadRequest("Not an image")
	}
	if s.Progress == nil {
		return -1, nil
	}
	p, err := s.Progress.Progress(ctx, f.ID)
	if err != nil {
		return 0, fmt.Errorf("read progress: %w", err)
	}
	return p, nil
}

// SetVisibility flips isPublic on a record the caller owns.
func (s *FileService) SetVisibility(ctx context.Context, user *entity.User, id string, public bool) (entity.FileView, error) {
	if user == nil {
		return entity.FileView{}, apperror.Unauthenticated()
	}
	f, err := s.Files.SetPublic(ctx, id, user.ID, public)
	if err != nil {
		return entity.FileView{}, err
	}
	s.index(ctx, f)
	return f.View(), nil
}

// Content returns the bytes of a file or one of its thumbnails. A nil user
// can only read public files.
func (s *FileService) Content(ctx context.Context, user *entity.User, id, size string) ([]byte, string, error) {
	f, err := s.visible(ctx, user, id)
	if err != nil {
		return nil, "", err
	}
	if !f.Kind.HasContent() {
		return nil, "", apperror.BadRequest("A folder doesn't have content")
	}
	path := f.LocalPath
	if size != "" {
		width, ok := s.allowedWidth(size)
		if !ok {
			return nil, "", apperror.BadRequest("Invalid size")
		}
		path = f.ThumbnailPath(width)
	}
	data, err := s.Store.Read(ctx, path)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, "", apperror.NotFound()
		}
		return nil, "", err
	}
	return data, f.Name, nil
}

func (s *FileService) allowedWidth(size string) (int, bool) {
	w, err := strconv.Atoi(size)
	if err != nil {
		return 0, false
	}
	for _, allowed := range s.ThumbnailWidths {
		if w == allowed {
			return w, true
		}
	}
	return 0, false
}

// Search matches the caller's files by name through the index. Hits are
// re-read from the metadata store so stale index entries drop out.
func (s *FileService) Search(ctx context.Context, user *entity.User, q string, size int) ([]entity.FileView, error) {
	if user == nil {
		return nil, apperror.Unauthenticated()
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.MissingField("q")
	}
	if s.Index == nil {
		return []entity.FileView{}, nil
	}
	if size <= 0 {
		size = defaultSearchSize
	}
	ids, err := s.Index.Search(ctx, user.ID, q, size)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	views := make([]entity.FileView, 0, len(ids))
	for _, id := range ids {
		f, err := s.Files.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if f.UserID != user.ID {
			continue
		}
		views = append(views, f.View())
	}
	return views, nil
}
