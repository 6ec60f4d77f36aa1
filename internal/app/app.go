package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/courtvision/courtvision/external/espn"
	"github.com/courtvision/courtvision/external/kenpom"
	"github.com/courtvision/courtvision/internal/config"
	"github.com/courtvision/courtvision/internal/infrastructure/repository/postgres"
	"github.com/courtvision/courtvision/internal/interfaces/httpapi"
	"github.com/courtvision/courtvision/internal/platform/cache"
	idgen "github.com/courtvision/courtvision/internal/platform/id"
	"github.com/courtvision/courtvision/internal/platform/logging"
	"github.com/courtvision/courtvision/internal/platform/resilience"
	"github.com/courtvision/courtvision/internal/usecase"
)

// NewHTTPServer wires the service together. The returned cleanup releases
// resources that outlive the HTTP server, currently the database pool.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cleanup := func(context.Context) error { return nil }

	var payloadCache cache.PayloadCache
	if cfg.CacheEnabled {
		if cfg.DBURL != "" {
			db, err := otelsqlx.Connect("postgres", cfg.DBURL,
				otelsql.WithDBSystem("postgresql"),
				otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
				otelsql.WithQueryFormatter(formatDBQueryForTrace),
			)
			if err != nil {
				return nil, nil, fmt.Errorf("connect database: %w", err)
			}

			repo := postgres.NewPayloadCacheRepository(db, logger)
			if removed, err := repo.PurgeExpired(context.Background()); err != nil {
				logger.Warn("purge expired cached payloads failed", "error", err)
			} else if removed > 0 {
				logger.Info("purged expired cached payloads", "count", removed)
			}

			payloadCache = repo
			cleanup = func(context.Context) error { return db.Close() }
		} else {
			payloadCache = cache.NewStore()
		}
	}

	espnClient := espn.NewClient(espn.ClientConfig{
		BaseURL: cfg.ESPNBaseURL,
		Timeout: cfg.ESPNTimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
		Cache:    payloadCache,
		TodayTTL: cfg.CacheTTLToday,
		PastTTL:  cfg.CacheTTLPast,
	})

	kenpomClient, err := kenpom.NewClient(kenpom.ClientConfig{
		BaseURL: cfg.KenPomBaseURL,
		APIKey:  cfg.KenPomAPIKey,
		Timeout: cfg.KenPomTimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.KenPomCircuitEnabled,
			FailureThreshold: cfg.KenPomCircuitFailureCount,
			OpenTimeout:      cfg.KenPomCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.KenPomCircuitHalfOpenMaxReq,
		},
		Cache:    payloadCache,
		TodayTTL: cfg.CacheTTLToday,
		PastTTL:  cfg.CacheTTLPast,
	})
	if err != nil {
		return nil, nil, err
	}

	gamesSvc := usecase.NewGamesService(espnClient, kenpomClient, logger, nil)
	warmSvc := usecase.NewWarmService(gamesSvc, idgen.NewRandomGenerator(), logger, cfg.WarmMaxWorkers, nil)
	matchSvc := usecase.NewMatchReportService(espnClient, kenpomClient, logger)

	handler := httpapi.NewHandler(gamesSvc, warmSvc, matchSvc, espnClient, kenpomClient, debugEnv(cfg), logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		DebugRoutesEnabled: cfg.DebugRoutesEnabled,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

// debugEnv is the redacted config snapshot served by /debug/env. Secrets
// never appear here, only whether they are set.
func debugEnv(cfg config.Config) map[string]string {
	return map[string]string{
		"app_env":            cfg.AppEnv,
		"service_name":       cfg.ServiceName,
		"service_version":    cfg.ServiceVersion,
		"espn_base_url":      cfg.ESPNBaseURL,
		"kenpom_base_url":    cfg.KenPomBaseURL,
		"kenpom_api_key_set": strconv.FormatBool(cfg.KenPomAPIKey != ""),
		"cache_enabled":      strconv.FormatBool(cfg.CacheEnabled),
		"cache_ttl_today":    cfg.CacheTTLToday.String(),
		"cache_ttl_past":     cfg.CacheTTLPast.String(),
		"durable_cache":      strconv.FormatBool(cfg.DBURL != ""),
		"warm_max_workers":   strconv.Itoa(cfg.WarmMaxWorkers),
	}
}
