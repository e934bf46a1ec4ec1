package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pricio/backend/config"
	httpDelivery "github.com/pricio/backend/internal/delivery/http"
	"github.com/pricio/backend/internal/domain"
	"github.com/pricio/backend/internal/infrastructure/cache"
	"github.com/pricio/backend/internal/infrastructure/catalog"
	"github.com/pricio/backend/internal/infrastructure/fileio"
	"github.com/pricio/backend/internal/infrastructure/webhook"
	"github.com/pricio/backend/internal/scheduler"
	"github.com/pricio/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.SetupLogger(cfg)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("database", cfg.Database.Driver).
		Int("stores", len(cfg.Stores)).
		Msg("starting pricio backend v1.0.0")

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx := context.Background()

	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	repo, err := catalog.Open(openCtx, cfg.Database.Driver, cfg.Database.DSN)
	cancel()
	if err != nil {
		return err
	}
	defer repo.Close()

	memoryCache := cache.NewMemoryCache(cache.DefaultCleanupInterval)
	defer memoryCache.Close()

	cachedCatalog := catalog.NewCachedCatalog(repo, memoryCache, cfg.Cache.CatalogTTL, logger)

	comparison := usecase.NewComparisonService(
		cachedCatalog,
		memoryCache,
		usecase.ComparisonServiceConfig{
			Stores: cfg.Stores,
			Match: usecase.MatchConfig{
				MinSimilarityScore: cfg.Matching.MinSimilarityScore,
				ExactMatchScore:    cfg.Matching.ExactMatchScore,
				CrossStoreMinScore: cfg.Matching.CrossStoreMinScore,
				EnableDebugLogging: cfg.Matching.Debug,
			},
			SearchLimit:     cfg.Matching.SearchLimit,
			SimilarLimit:    cfg.Matching.SimilarLimit,
			CrossStoreLimit: cfg.Matching.CrossStoreLimit,
			AttributesTTL:   cfg.Cache.AttributesTTL,
		},
		logger.With().Str("component", "comparison").Logger(),
	)

	var notifier domain.Notifier = webhook.NewLogNotifier(logger)
	if cfg.Alerts.WebhookURL != "" {
		notifier = webhook.NewClient(cfg.Alerts.WebhookURL, cfg.RateLimit.Webhook, logger)
	}
	alerts := usecase.NewAlertService(repo, notifier, cfg.Stores, logger.With().Str("component", "alerts").Logger())

	if cfg.Alerts.Enabled {
		job := scheduler.NewAlertJob(alerts, cfg.Alerts.Schedule, logger)
		if err := job.Start(); err != nil {
			return err
		}
		defer func() {
			<-job.Stop().Done()
		}()
	}

	var importer httpDelivery.CatalogImporter
	if cfg.Server.EnableImport {
		// Uploads invalidate cached listings
		importer = fileio.NewImporter(cachedCatalog, logger.With().Str("component", "import").Logger())
	}

	handler := httpDelivery.NewHandler(comparison, alerts, repo, importer, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	logger.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
