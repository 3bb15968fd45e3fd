package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	repo "github.com/oksasatya/files-manager/internal/domain/repository"
	"github.com/oksasatya/files-manager/pkg/apperror"
	"github.com/oksasatya/files-manager/pkg/helpers"
	"github.com/oksasatya/files-manager/pkg/imaging"
)

// Progress checkpoints reported while a job moves through its stages.
// Generation fills the range between progressLoaded and progressDone.
const (
	progressReceived  = 0
	progressValidated = 10
	progressLocated   = 20
	progressLoaded    = 30
	progressDone      = 100
)

// ThumbnailWorker turns thumbnail jobs into resized copies of the original
// image. Sizes are generated concurrently and every size is attempted even
// when another fails; copies written before a failure are kept.
type ThumbnailWorker struct {
	Files    repo.FileRepository
	Content  repo.ContentStore
	Progress repo.ProgressReporter
	Widths   []int
	Logger   *logrus.Logger

	// MaxPixels bounds the source and every generated size; zero means
	// imaging.DefaultMaxPixels.
	MaxPixels int
}

func NewThumbnailWorker(files repo.FileRepository, content repo.ContentStore, progress repo.ProgressReporter, widths []int, logger *logrus.Logger) *ThumbnailWorker {
	if len(widths) == 0 {
		widths = DefaultThumbnailWidths
	}
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	return &ThumbnailWorker{Files: files, Content: content, Progress: progress, Widths: widths, Logger: logger}
}

// HandleMessage decodes a queue payload and processes it.
func (w *ThumbnailWorker) HandleMessage(ctx context.Context, body []byte) error {
	var job entity.ThumbnailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return apperror.InvalidJob("Malformed job payload")
	}
	return w.Process(ctx, job)
}

// Process drives one job to completion or failure.
func (w *ThumbnailWorker) Process(ctx context.Context, job entity.ThumbnailJob) error {
	log := w.Logger.WithFields(logrus.Fields{"file_id": job.FileID, "user_id": job.UserID})
	tracker := newProgressTracker(func(p int) {
		log.WithField("progress", p).Debug("thumbnail progress")
		if w.Progress == nil || job.FileID == "" {
			return
		}
		if err := w.Progress.Report(ctx, job.FileID, p); err != nil {
			log.WithError(err).Warn("progress not reported")
		}
	})
	tracker.advance(progressReceived)

	if job.FileID == "" {
		return apperror.InvalidJob("Missing fileId")
	}
	if job.UserID == "" {
		return apperror.InvalidJob("Missing userId")
	}
	tracker.advance(progressValidated)

	f, err := w.Files.GetByID(ctx, job.FileID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.FileNotFound()
		}
		return err
	}
	if f.UserID != job.UserID || f.Kind != entity.KindImage || f.LocalPath == "" {
		return apperror.FileNotFound()
	}
	tracker.advance(progressLocated)

	data, err := w.Content.Read(ctx, f.LocalPath)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.FileNotFound()
		}
		return apperror.ThumbnailGenerationFailed(err)
	}
	src, err := imaging.Decode(data, w.MaxPixels)
	if err != nil {
		return apperror.ThumbnailGenerationFailed(err)
	}
	tracker.advance(progressLoaded)

	var g errgroup.Group
	step := (progressDone - progressLoaded) / len(w.Widths)
	for _, width := range w.Widths {
		width := width
		g.Go(func() error {
			out, err := src.Thumbnail(width)
			if err != nil {
				return fmt.Errorf("resize %d: %w", width, err)
			}
			if err := w.Content.Write(ctx, f.ThumbnailPath(width), out); err != nil {
				return fmt.Errorf("write %d: %w", width, err)
			}
			tracker.complete(progressLoaded, step, len(w.Widths))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return apperror.ThumbnailGenerationFailed(err)
	}

	log.WithField("widths", w.Widths).Info("thumbnails generated")
	return nil
}

// progressTracker serialises reports so observers only ever see values
// going up.
type progressTracker struct {
	mu     sync.Mutex
	last   int
	done   int
	report func(int)
}

func newProgressTracker(report func(int)) *progressTracker {
	return &progressTracker{last: -1, report: report}
}

func (p *progressTracker) advance(to int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.set(to)
}

// complete records one finished size. The last one reports progressDone.
func (p *progressTracker) complete(base, step, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if p.done == total {
		p.set(progressDone)
		return
	}
	p.set(base + p.done*step)
}

func (p *progressTracker) set(to int) {
	if to <= p.last {
		return
	}
	p.last = to
	p.report(to)
}
