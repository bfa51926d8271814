package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pnsgg/SmashRecap/internal/app"
	"github.com/pnsgg/SmashRecap/internal/config"
	"github.com/pnsgg/SmashRecap/internal/platform/logging"
	"github.com/pnsgg/SmashRecap/internal/usecase"
)

// Warm-up job: builds and caches the recap of every featured player so their
// pages are served from cache. Meant to run on a schedule, e.g. nightly.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if len(cfg.FeaturedPlayerIDs) == 0 {
		logger.Info("no featured players configured, nothing to warm")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recapSvc, recapCache, cleanup, err := app.NewRecapService(cfg, logger)
	if err != nil {
		logger.Error("build recap service", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(context.Background()); err != nil {
			logger.Error("release resources failed", "error", err)
		}
	}()

	featured := usecase.NewFeaturedService(recapSvc, recapCache, logger, cfg.FeaturedPoolSize)
	if err := featured.WarmRecaps(ctx, cfg.FeaturedPlayerIDs, cfg.FeaturedYear); err != nil {
		logger.Error("featured warm-up finished with failures", "error", err)
		os.Exit(1)
	}

	logger.Info("featured warm-up complete",
		"players", len(cfg.FeaturedPlayerIDs),
		"year", cfg.FeaturedYear,
	)
}
