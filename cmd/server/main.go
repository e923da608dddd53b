// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stocklens/doi-dashboard/internal/api"
	"github.com/stocklens/doi-dashboard/internal/cache"
	"github.com/stocklens/doi-dashboard/internal/config"
	"github.com/stocklens/doi-dashboard/internal/dataset"
	"github.com/stocklens/doi-dashboard/internal/insights"
	"github.com/stocklens/doi-dashboard/internal/metrics"
	"github.com/stocklens/doi-dashboard/internal/repository"
	"github.com/stocklens/doi-dashboard/internal/service"
	"github.com/stocklens/doi-dashboard/internal/storage"
	"github.com/stocklens/doi-dashboard/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	now := time.Now().UTC()

	// Load the snapshot once; a bad dataset is fatal.
	source, err := buildSource(cfg, now)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize dataset source")
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	records, err := source.Load(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Log.Fatal().Err(err).Str("source", source.Name()).Msg("Failed to load inventory dataset")
	}
	if closer, ok := source.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to close dataset source")
		}
	}
	if err := dataset.Validate(records); err != nil {
		logger.Log.Fatal().Err(err).Str("source", source.Name()).Msg("Inventory dataset is invalid")
	}
	logger.Log.Info().Str("source", source.Name()).Int("records", len(records)).Msg("Inventory dataset loaded")

	// Derive metrics and build the in-memory query engine.
	calculator := metrics.NewCalculator(metrics.Thresholds{
		LowDOIDays:       cfg.Thresholds.LowDOIDays,
		OverstockDOIDays: cfg.Thresholds.OverstockDOIDays,
		ExpiryWindowDays: cfg.Thresholds.ExpiryWindowDays,
	}, now)
	repo := repository.NewMemoryRepository(calculator.Augment(records))

	generator := insights.NewGenerator(insights.Config{
		LowDOIDays:           cfg.Thresholds.LowDOIDays,
		ExpiryWindowDays:     cfg.Thresholds.ExpiryWindowDays,
		HighCostValue:        cfg.Thresholds.HighCostValue,
		LowMovementAnnualQty: cfg.Thresholds.LowMovementAnnualQty,
	})

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	dashboardService := service.NewDashboardService(repo, generator, dashboardCache, cfg.Thresholds.ExpiryHorizonDays)

	// Initialize HTTP server
	router := api.NewRouter(dashboardService, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func buildSource(cfg *config.Config, now time.Time) (dataset.Source, error) {
	switch cfg.Dataset.Source {
	case "", "sample":
		return dataset.NewSampleSource(cfg.Dataset.SampleSize, now), nil
	case "file":
		return dataset.NewFileSource(cfg.Dataset.FilePath), nil
	case "s3":
		store, err := storage.NewMinioClient(cfg.ObjectStore)
		if err != nil {
			return nil, err
		}
		return dataset.NewObjectSource(store, cfg.Dataset.ObjectKey), nil
	case "postgres":
		return dataset.NewPostgresSource(&cfg.Database)
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}
}
