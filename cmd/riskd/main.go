package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/cropwatch/climate-risk-service/internal/adapter/http"
	kafkaadapter "github.com/cropwatch/climate-risk-service/internal/adapter/kafka"
	"github.com/cropwatch/climate-risk-service/internal/adapter/planet"
	"github.com/cropwatch/climate-risk-service/internal/catalog"
	"github.com/cropwatch/climate-risk-service/internal/config"
	"github.com/cropwatch/climate-risk-service/internal/domain"
	"github.com/cropwatch/climate-risk-service/internal/engine"
	"github.com/cropwatch/climate-risk-service/internal/observability"
	"github.com/cropwatch/climate-risk-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	store, err := loadCatalog(cfg, logger)
	if err != nil {
		logger.Error("failed to load catalog", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}
	for _, category := range domain.Categories() {
		metrics.CatalogDefinitions.WithLabelValues(string(category)).
			Set(float64(len(store.Current().ByCategory(category))))
	}

	evaluator := engine.New(store, engine.Options{
		MediumThreshold: cfg.MediumThreshold,
		HighThreshold:   cfg.HighThreshold,
		MatchEpsilon:    cfg.MatchEpsilon,
	})

	// Tile proxy is feature-flagged via PLANET_API_KEY.
	tiles := planet.NewClient(cfg.PlanetAPIKey, cfg.PlanetConfigID, cfg.PlanetTimeout, logger)
	if tiles.Enabled() {
		logger.Info("imagery tile proxy enabled", "config_id", cfg.PlanetConfigID, "timeout", cfg.PlanetTimeout)
	} else {
		logger.Info("imagery tile proxy disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	assessor := pipeline.NewAssessor(evaluator, logger, metrics, cfg.ResultLimit)

	p := pipeline.New(reader, assessor, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, evaluator, store, tiles, p, metrics, logger, cfg.ResultLimit)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start assessment pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// loadCatalog loads definitions from CATALOG_PATH when set, falling back to
// the built-in orchard catalog.
func loadCatalog(cfg *config.Config, logger *slog.Logger) (*catalog.Store, error) {
	if cfg.CatalogPath == "" {
		logger.Info("using built-in risk catalog")
		return catalog.NewStore(catalog.Default()), nil
	}
	c, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded risk catalog", "path", cfg.CatalogPath, "definitions", c.Len())
	return catalog.NewStore(c), nil
}
