package core

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/mikann/photo-gallery/api"
	"github.com/mikann/photo-gallery/api/common"
	"github.com/mikann/photo-gallery/api/handler/gql"
	"github.com/mikann/photo-gallery/api/handler/media"
	"github.com/mikann/photo-gallery/api/handler/upload"
	"github.com/mikann/photo-gallery/api/middleware"
	"github.com/mikann/photo-gallery/config"
	"github.com/mikann/photo-gallery/database/dbcore"
	"github.com/mikann/photo-gallery/internal/app"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes wires middleware and endpoints. The returned cleanup
// stops the rate limiter goroutines.
func registerRoutes(router *gin.Engine, container *app.Container, schema graphql.Schema) func() {
	cfg := container.Config

	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.Session(container.Sessions, cfg.SessionCookie))

	authRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	mediaRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitMediaRPS, cfg.RateLimitMediaBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
		mediaRateLimiter.StopCleanup()
	}

	registerBasicRoutes(router, container)

	loginHandler := api.NewLoginHandler(container.Login, container.Sessions, cfg.SessionCookie)
	gqlHandler := gql.NewHandler(schema)
	uploadHandler := upload.NewHandler(container.Photos, container.Store, container.Ingest)
	mediaHandler := media.NewHandler(container.Photos, container.Store)

	authGroup := router.Group("/auth")
	authGroup.Use(authRateLimiter.Middleware())
	{
		authGroup.POST("/local", loginHandler.LoginHandlerFunc)  // POST /auth/local
		authGroup.GET("/logout", loginHandler.LogoutHandlerFunc) // GET /auth/logout
	}

	apiGroup := router.Group("/api")
	apiGroup.Use(func(context *gin.Context) {
		context.Header("Cache-Control", "no-store")
		context.Next()
	})
	{
		apiGroup.POST("", gqlHandler.Handle) // POST /api
		apiGroup.GET("", gqlHandler.Handle)  // GET /api
	}

	uploadGroup := router.Group("/upload")
	uploadGroup.Use(middleware.RequireSession())
	{
		uploadGroup.POST("", uploadHandler.Handle) // POST /upload
	}

	photoGroup := router.Group("/photo")
	photoGroup.Use(mediaRateLimiter.Middleware())
	{
		photoGroup.GET("", mediaHandler.Get) // GET /photo?id=&type=
	}

	return cleanup
}

func registerBasicRoutes(router *gin.Engine, container *app.Container) {
	router.GET("/health", func(context *gin.Context) {
		checks := gin.H{
			"database": healthStatus(dbcore.Ping(container.DB)),
			"storage":  healthStatus(container.Store.Health()),
		}
		httpStatus := http.StatusOK
		status := "ok"
		for _, result := range checks {
			if result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				status = "degraded"
				break
			}
		}
		context.JSON(httpStatus, gin.H{
			"status":  status,
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks":  checks,
		})
	})

	router.GET("/version", func(context *gin.Context) {
		common.RespondSuccess(context, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func healthStatus(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
