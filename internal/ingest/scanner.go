package ingest

import (
	"context"
	"log"
	"time"

	"github.com/mikann/photo-gallery/database/repo/photos"
	"github.com/mikann/photo-gallery/internal/worker"
)

const scanBatchSize = 20

// Scanner periodically re-submits photos whose thumbnail generation never
// completed, for example after a crash mid-upload.
type Scanner struct {
	photos   *photos.Repository
	service  *Service
	pool     *worker.Pool
	interval time.Duration
	stopChan chan struct{}
}

func NewScanner(photosRepo *photos.Repository, service *Service, pool *worker.Pool, interval time.Duration) *Scanner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scanner{
		photos:   photosRepo,
		service:  service,
		pool:     pool,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start launches the background scan loop.
func (s *Scanner) Start() {
	go s.run()
	log.Printf("Thumbnail retry scanner started, interval %s", s.interval)
}

// Stop terminates the scan loop. Already submitted tasks keep running on
// the pool.
func (s *Scanner) Stop() {
	close(s.stopChan)
}

func (s *Scanner) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.scan()
		case <-s.stopChan:
			return
		}
	}
}

// scan picks up photos stuck before thumbnail generation and resubmits
// them. Rows touched within the current interval are left alone, they may
// still be in flight in an upload request.
func (s *Scanner) scan() {
	cutoff := time.Now().Add(-s.interval)
	pending, err := s.photos.ListPendingThumbnails(cutoff, scanBatchSize)
	if err != nil {
		log.Printf("[Scanner] Failed to list pending thumbnails: %v", err)
		return
	}

	for _, photo := range pending {
		photo := photo
		submitted := s.pool.Submit(worker.TaskFunc(func() {
			if err := s.service.GenerateThumbnail(context.Background(), photo); err != nil {
				log.Printf("[Scanner] Thumbnail retry failed for %s: %v", photo.Identifier, err)
			}
		}))
		if !submitted {
			return
		}
	}
}
