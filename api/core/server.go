package core

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mikann/photo-gallery/config"
	"github.com/mikann/photo-gallery/internal/app"
	"github.com/mikann/photo-gallery/internal/graph"
)

var startTime = time.Now()

func setupRouter(container *app.Container) (*gin.Engine, func(), error) {
	cfg := container.Config
	router := gin.New()

	// gin request logging only in development builds
	if config.CommitHash == "n/a" {
		router.Use(gin.Logger())
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL()},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.SetTrustedProxies(nil)
	router.MaxMultipartMemory = int64(cfg.UploadMaxSizeMB) << 20

	resolver := graph.NewResolver(container.Photos, container.Albums, container.Store)
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		return nil, nil, err
	}

	cleanup := registerRoutes(router, container, schema)
	return router, cleanup, nil
}

// StartServer builds the configured http.Server. The returned cleanup
// stops the rate limiters.
func StartServer(container *app.Container) (*http.Server, func(), error) {
	cfg := container.Config
	router, cleanup, err := setupRouter(container)
	if err != nil {
		return nil, nil, err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, cleanup, nil
}
