package app

import (
	"fmt"

	"github.com/mikann/photo-gallery/cache"
	"github.com/mikann/photo-gallery/config"
	"github.com/mikann/photo-gallery/database/repo/albums"
	"github.com/mikann/photo-gallery/database/repo/photos"
	"github.com/mikann/photo-gallery/database/repo/users"
	"github.com/mikann/photo-gallery/internal/auth"
	"github.com/mikann/photo-gallery/internal/ingest"
	"github.com/mikann/photo-gallery/internal/worker"
	"github.com/mikann/photo-gallery/storage"
	"gorm.io/gorm"
)

// Container holds every long-lived dependency, wired once at startup and
// handed to the layers that need it.
type Container struct {
	Config *config.Config
	DB     *gorm.DB

	Users  *users.Repository
	Photos *photos.CachedRepository
	Albums *albums.Repository

	Cache *cache.Cache
	Store *storage.MediaStore

	Sessions *auth.SessionService
	Login    *auth.LoginService

	Ingest  *ingest.Service
	Pool    *worker.Pool
	Scanner *ingest.Scanner
}

// NewContainer builds the dependency graph on top of an open database
// connection and a transcoder.
func NewContainer(cfg *config.Config, db *gorm.DB, transcoder ingest.Transcoder) (*Container, error) {
	store, err := storage.NewMediaStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init media store: %w", err)
	}

	metaCache, err := cache.New(cfg.CachePhotoMetaEntries)
	if err != nil {
		return nil, fmt.Errorf("init metadata cache: %w", err)
	}

	photosBase := photos.NewRepository(db)
	photosRepo := photos.NewCachedRepository(photosBase, metaCache, 0)
	usersRepo := users.NewRepository(db)
	albumsRepo := albums.NewRepository(db)

	sessions := auth.NewSessionService(cfg.SessionSecret, cfg.SessionTTL)
	ingestService := ingest.NewService(photosRepo, store, transcoder)
	pool := worker.NewPool(cfg.WorkerCount, 64)

	return &Container{
		Config:   cfg,
		DB:       db,
		Users:    usersRepo,
		Photos:   photosRepo,
		Albums:   albumsRepo,
		Cache:    metaCache,
		Store:    store,
		Sessions: sessions,
		Login:    auth.NewLoginService(usersRepo),
		Ingest:   ingestService,
		Pool:     pool,
		Scanner:  ingest.NewScanner(photosBase, ingestService, pool, cfg.ThumbnailScanInterval),
	}, nil
}

// Start launches the background workers.
func (c *Container) Start() {
	c.Pool.Start()
	c.Scanner.Start()
}

// Stop shuts down background work and releases caches. The database is
// closed by the caller that opened it.
func (c *Container) Stop() {
	c.Scanner.Stop()
	c.Pool.Stop()
	c.Cache.Close()
}
