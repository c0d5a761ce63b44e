// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/cinematch/docs" // swagger spec
	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/poster"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
	"github.com/tomtom215/cinematch/internal/tmdb"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const breakerWatchInterval = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("catalog", cfg.Catalog.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Cinematch")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(ctx, cfg.Catalog.Path, catalog.LoadOptions{
		Name:         cfg.Catalog.Name,
		Version:      cfg.Catalog.Version,
		StrictScores: cfg.Catalog.StrictScores,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load catalog")
	}

	recommender, err := recommend.New(cat, recommend.Config{
		DefaultK: cfg.Recommend.DefaultK,
		MaxK:     cfg.Recommend.MaxK,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommender")
	}

	if cfg.TMDB.APIKey == "" {
		logging.Warn().Msg("TMDB_API_KEY is not set; every poster will use the placeholder image")
	}
	tmdbClient := tmdb.NewClient(&cfg.TMDB)
	posters := poster.NewResolver(tmdbClient, &cfg.Poster, cfg.TMDB.ImageBaseURL)

	handler, err := api.NewHandler(api.Deps{
		Catalog:        cat,
		Recommender:    recommender,
		Posters:        posters,
		Breaker:        tmdbClient,
		TMDBConfigured: cfg.TMDB.APIKey != "",
		DefaultK:       cfg.Recommend.DefaultK,
		Version:        version,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create HTTP handler")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*) in production; set explicit origins")
	}

	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security)))

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddMonitorService(services.NewBreakerWatchService(tmdbClient.BreakerName(), tmdbClient, breakerWatchInterval))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Cinematch stopped")
}
