package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/pnsgg/SmashRecap/external/startgg"
	"github.com/pnsgg/SmashRecap/internal/config"
	"github.com/pnsgg/SmashRecap/internal/infrastructure/repository/postgres"
	"github.com/pnsgg/SmashRecap/internal/interfaces/httpapi"
	"github.com/pnsgg/SmashRecap/internal/platform/cache"
	"github.com/pnsgg/SmashRecap/internal/platform/logging"
	"github.com/pnsgg/SmashRecap/internal/platform/resilience"
	"github.com/pnsgg/SmashRecap/internal/usecase"
)

// NewHTTPServer wires the recap service and returns the server plus a cleanup
// func that releases backing resources (currently the Postgres pool).
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	recapSvc, _, cleanup, err := NewRecapService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(recapSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup(context.Background())
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

// NewRecapService wires the recap pipeline (client, fetcher, cache) from
// config. The cache backend is returned alongside the service so jobs can
// reach maintenance hooks like expiry purging. The cleanup func releases the
// cache backend.
func NewRecapService(cfg config.Config, logger *logging.Logger) (*usecase.RecapService, usecase.RecapCache, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	client := NewStartggClient(cfg, logger)
	fetcher := usecase.NewEventFetcher(client, logger, cfg.RecapFetchConcurrency)

	recapCache, cleanup, err := newRecapCache(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	return usecase.NewRecapService(client, fetcher, recapCache, cfg.CacheTTL, logger), recapCache, cleanup, nil
}

// NewStartggClient builds the shared start.gg client from config.
func NewStartggClient(cfg config.Config, logger *logging.Logger) *startgg.Client {
	return startgg.NewClient(startgg.ClientConfig{
		BaseURL:     cfg.StartggBaseURL,
		Token:       cfg.StartggToken,
		VideogameID: cfg.StartggVideogameID,
		Timeout:     cfg.StartggTimeout,
		MaxRetries:  cfg.StartggMaxRetries,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StartggCircuitEnabled,
			FailureThreshold: cfg.StartggCircuitFailureCount,
			OpenTimeout:      cfg.StartggCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StartggCircuitHalfOpenMaxReq,
		},
	})
}

func newRecapCache(cfg config.Config, logger *logging.Logger) (usecase.RecapCache, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.CacheBackend {
	case config.CacheBackendPostgres:
		db, err := openPostgres(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("recap cache backend ready", "backend", cfg.CacheBackend, "db", dbNameFromURL(cfg.DBURL))
		return postgres.NewRecapCacheRepository(db), func(context.Context) error { return db.Close() }, nil
	default:
		logger.Info("recap cache backend ready", "backend", cfg.CacheBackend)
		return cache.NewStore(cfg.CacheTTL), noop, nil
	}
}

func openPostgres(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, true)

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
