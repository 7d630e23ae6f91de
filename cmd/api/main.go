package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/aiact-classifier/internal/application"
	"github.com/bryanwahyu/aiact-classifier/internal/application/classifier"
	"github.com/bryanwahyu/aiact-classifier/internal/config"
	"github.com/bryanwahyu/aiact-classifier/internal/infra/ai/provider"
	"github.com/bryanwahyu/aiact-classifier/internal/infra/export"
	"github.com/bryanwahyu/aiact-classifier/internal/infra/httpserver"
	"github.com/bryanwahyu/aiact-classifier/internal/infra/storage"
	"github.com/bryanwahyu/aiact-classifier/internal/middleware"
)

func main() {
	// load config
	cfg, err := config.Load(config.ResolvePath())
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// init ai provider, tanpa API key tetap jalan dengan pesan fallback
	client, err := provider.New(ctx, cfg.AI, logger)
	if err != nil {
		logger.Fatal("ai provider init error", zap.Error(err))
	}
	if !provider.Configured(client) {
		logger.Warn("no AI API key configured, assessments will fall back to a fixed message",
			zap.String("provider", cfg.AI.Provider))
	}

	metrics := middleware.NewMetrics()
	checkers := map[string]middleware.HealthChecker{
		"ai": middleware.AIProviderChecker{Provider: client.Provider(), Configured: provider.Configured(client)},
	}

	opts := []classifier.Option{
		classifier.WithLogger(logger),
		classifier.WithClock(application.SystemClock{}),
		classifier.WithExporter(export.New()),
		classifier.WithRecorder(metrics),
	}

	// init minio, optional
	if cfg.Minio.Enabled() {
		store, err := storage.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal("minio init error", zap.Error(err))
		}
		store.WithPresign(cfg.Minio.PresignTTL)
		opts = append(opts, classifier.WithPublisher(store))
		checkers["minio"] = store
	}

	// init service
	svc := classifier.New(client, opts...)
	metrics.Gauges["sessions_active"] = svc.Len

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
		defer limiter.Stop()
	}

	// init router
	handler := httpserver.NewRouter(svc, httpserver.Options{
		Logger:         logger,
		Metrics:        metrics,
		Limiter:        limiter,
		APIKeys:        cfg.Auth.Keys,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Checkers:       checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening",
			zap.String("addr", addr),
			zap.String("provider", client.Provider()),
			zap.Bool("publishing", cfg.Minio.Enabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	// tunggu report yang masih digenerate
	if err := svc.Shutdown(ctx2); err != nil {
		logger.Warn("report generation cut short", zap.Error(err))
	}
}
