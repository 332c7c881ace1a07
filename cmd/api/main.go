package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/tiptonco/probation-scheduler/internal/api/router"
	"github.com/tiptonco/probation-scheduler/internal/appointments"
	appconfig "github.com/tiptonco/probation-scheduler/internal/config"
	"github.com/tiptonco/probation-scheduler/internal/observability/metrics"
	"github.com/tiptonco/probation-scheduler/internal/probationers"
	"github.com/tiptonco/probation-scheduler/internal/schedule"
	"github.com/tiptonco/probation-scheduler/internal/voice"
	"github.com/tiptonco/probation-scheduler/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting probation-scheduler API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"office_id", cfg.OfficeID,
	)

	// Storage: Postgres when configured, in-memory otherwise (local runs).
	var probRepo probationers.Repository
	var apptRepo appointments.Repository
	pool := connectPostgresPool(context.Background(), cfg.DatabaseURL, logger)
	if pool != nil {
		defer pool.Close()
		probRepo = probationers.NewPostgresRepository(pool)
		apptRepo = appointments.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		probRepo = probationers.NewInMemoryRepository()
		apptRepo = appointments.NewInMemoryRepository()
	}

	// Policy overrides live in redis; absent redis means the default policy.
	policyStore := schedule.NewPolicyStore(connectRedis(cfg, logger))

	metricsHandler, schedMetrics := setupSchedulingMetrics()
	transitioner := appointments.NewTransitioner(apptRepo, logger, schedMetrics)
	voiceService := voice.NewService(probRepo, apptRepo, transitioner, policyStore, cfg.OfficeID, logger, schedMetrics)
	voiceHandler := voice.NewHandler(voiceService, cfg.EscalationPhone, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:         logger,
		VoiceHandler:   voiceHandler,
		MetricsHandler: metricsHandler,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// setupSchedulingMetrics registers the scheduling metrics on a private
// registry and returns the /metrics handler for it.
func setupSchedulingMetrics() (http.Handler, *metrics.SchedulingMetrics) {
	registry := prometheus.NewRegistry()
	m := metrics.NewSchedulingMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), m
}

// connectPostgresPool returns nil when no database is configured or the pool
// cannot be established; callers fall back to in-memory storage.
func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if databaseURL == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping postgres", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// connectRedis returns nil when no redis is configured; the policy store
// serves defaults in that case.
func connectRedis(cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unreachable, serving default policy", "error", err)
	}
	return client
}
