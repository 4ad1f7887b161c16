package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikann/photo-gallery/api/core"
	"github.com/mikann/photo-gallery/config"
	"github.com/mikann/photo-gallery/database/dbcore"
	"github.com/mikann/photo-gallery/internal/app"
	"github.com/mikann/photo-gallery/internal/ingest"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gallery server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := dbcore.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := dbcore.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	container, err := app.NewContainer(cfg, db, ingest.NewVipsTranscoder())
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	container.Start()

	server, cleanup, err := core.StartServer(container)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}
	go func() {
		log.Printf("Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cleanup != nil {
		cleanup()
	}
	container.Stop()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := dbcore.Close(db); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server exited successfully")
}
