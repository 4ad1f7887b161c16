package ingest

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/mikann/photo-gallery/database/models"
	"github.com/mikann/photo-gallery/database/repo/photos"
	"github.com/mikann/photo-gallery/storage"
	"golang.org/x/sync/errgroup"
)

// Upload pairs a freshly stored photo row with its submitted capture date
// in Unix milliseconds. A non-positive date skips derivation for the file.
type Upload struct {
	Photo *models.Photo
	Date  int64
}

// Service runs the per-file derivation pipeline: probe the stored
// original, record true metadata, then render and store the thumbnail.
type Service struct {
	photos     *photos.CachedRepository
	store      *storage.MediaStore
	transcoder Transcoder
}

func NewService(photosRepo *photos.CachedRepository, store *storage.MediaStore, transcoder Transcoder) *Service {
	return &Service{photos: photosRepo, store: store, transcoder: transcoder}
}

// ProcessBatch derives metadata and thumbnails for all uploads
// concurrently and waits for every file to finish. The first failure
// fails the whole batch.
func (s *Service) ProcessBatch(ctx context.Context, uploads []Upload) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, upload := range uploads {
		if upload.Date <= 0 {
			continue
		}
		upload := upload
		g.Go(func() error {
			return s.Process(ctx, upload.Photo, upload.Date)
		})
	}
	return g.Wait()
}

// Process runs the full pipeline for one stored file.
func (s *Service) Process(ctx context.Context, photo *models.Photo, dateMS int64) error {
	srcPath, err := s.store.OriginalPath(photo.OriginalFile())
	if err != nil {
		return err
	}

	meta, err := s.transcoder.Probe(ctx, srcPath)
	if err != nil {
		return fmt.Errorf("probe %s: %w", photo.Identifier, err)
	}

	resolution := fmt.Sprintf("%d x %d", meta.Width, meta.Height)
	if err := s.photos.UpdateMetadata(photo.ID, time.UnixMilli(dateMS), resolution, meta.Size); err != nil {
		return fmt.Errorf("record metadata for %s: %w", photo.Identifier, err)
	}

	return s.GenerateThumbnail(ctx, photo)
}

// GenerateThumbnail renders and stores the thumbnail for a photo whose
// metadata is already recorded, then marks the pipeline complete.
func (s *Service) GenerateThumbnail(ctx context.Context, photo *models.Photo) error {
	srcPath, err := s.store.OriginalPath(photo.OriginalFile())
	if err != nil {
		return err
	}

	data, err := s.transcoder.Thumbnail(ctx, srcPath)
	if err != nil {
		return fmt.Errorf("thumbnail %s: %w", photo.Identifier, err)
	}

	if err := s.store.SaveThumbnail(photo.ThumbnailFile(), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("store thumbnail %s: %w", photo.Identifier, err)
	}

	return s.photos.UpdateStatus(photo.ID, models.PhotoStatusThumbnailReady)
}
