// Package main provides the entry point for the Media Grab service.
// @title Media Grab API
// @version 1.0
// @description Fetches metadata for and downloads YouTube, Instagram and Spotify media through external command-line tools.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/denisAlshanov/mediagrab/docs" // Import for swagger docs
	"github.com/denisAlshanov/mediagrab/internal/api/handlers"
	"github.com/denisAlshanov/mediagrab/internal/api/router"
	"github.com/denisAlshanov/mediagrab/internal/config"
	"github.com/denisAlshanov/mediagrab/internal/services/downloader"
	"github.com/denisAlshanov/mediagrab/internal/services/extractor"
	"github.com/denisAlshanov/mediagrab/internal/services/fetcher"
	"github.com/denisAlshanov/mediagrab/internal/services/musictool"
	"github.com/denisAlshanov/mediagrab/internal/services/runner"
	"github.com/denisAlshanov/mediagrab/internal/services/storage"
	"github.com/denisAlshanov/mediagrab/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.GetLogger()
	logger.Info("Starting Media Grab service")

	// Initialize archive storage (nil when disabled)
	archive, err := storage.NewStorage(&cfg.S3)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// External tools share one runner and cascade
	cascade := runner.NewCascade(runner.NewExecRunner(cfg.Download.KillGracePeriod))
	extractorClient := extractor.NewClient(cascade, cfg.Tools, cfg.Download)
	musicClient := musictool.NewClient(cascade, cfg.Tools, cfg.Download)

	// Initialize services
	fetcherService := fetcher.NewFetcher(extractorClient, musicClient)
	downloaderService := downloader.NewDownloader(extractorClient, musicClient, archive, &cfg.Download, cfg.S3.Prefix)

	// Initialize handlers
	mediaHandler := handlers.NewMediaHandler(fetcherService, downloaderService)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.VersionProber{
		extractor.ToolName: extractorClient,
		musictool.ToolName: musicClient,
	}, archive)

	// Initialize router
	r := router.NewRouter(cfg, mediaHandler, healthHandler)

	// Start server
	go func() {
		logger.Infof("Starting server on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := r.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// In-flight downloads get their full timeout to finish
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Download.DownloadTimeout+cfg.Download.KillGracePeriod)
	defer cancel()

	if err := r.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shut down: %v", err)
	}

	logger.Info("Server shutdown complete")
}
