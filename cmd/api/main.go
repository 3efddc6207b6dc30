// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/admin"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/app"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/auth"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/config"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/health"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/middleware"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/seed"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/server"
)

const (
	drainDelay = 5 * time.Second

	credentialRequests = 10
	credentialWindow   = 15 * time.Minute
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"storage", cfg.Storage.Driver,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	storage, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb.Available() {
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
	} else {
		logger.Warn("redis not configured, using in-process revocation and caches")
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	svcs := app.NewServices(cfg, storage.Stores, jwtManager, rdb)

	if cfg.Seed.OnStart {
		seeder := seed.New(svcs.Auth, svcs.Users, svcs.Catalog, svcs.Reviews, logger)
		if _, err := seeder.Run(ctx); err != nil {
			return err
		}
	}

	deps := []health.Dependency{{Name: "storage", Checker: storage}}
	adminDeps := admin.HandlerConfig{DBPing: storage.Ping}
	if storage.DB != nil {
		adminDeps.DBStats = storage.DB.Stats
	}
	if rdb.Available() {
		deps = append(deps, health.Dependency{Name: "redis", Checker: rdb, Optional: true})
		adminDeps.RedisStats = rdb.PoolStats
		adminDeps.RedisPing = rdb.Ping
	}
	healthHandler := health.NewHandler(deps...)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	limiter := middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		FailOpen: true,
	})

	credentialLimiter := middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
		Limit:    middleware.PerWindow(credentialRequests, credentialRequests, credentialWindow),
		KeyFunc:  middleware.KeyByIPAndEndpoint,
		FailOpen: false,
	})

	server.Mount(
		srv.Router(),
		app.NewHandlers(svcs, healthHandler, adminDeps),
		server.RouteConfig{
			Resolver:          svcs.Auth,
			Logger:            logger,
			Tracer:            telemetry.Tracer,
			Metrics:           middleware.NewMetrics("bookreviews"),
			RateLimiter:       limiter,
			CredentialLimiter: credentialLimiter,
			CORS:              cfg.CORS,
			Production:        cfg.IsProduction(),
			AdminToken:        cfg.Admin.Token,
			JWKS:              jwtManager.GetJWKSHandler(),
		},
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := rdb.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := storage.Close(); err != nil {
		logger.Error("storage close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
