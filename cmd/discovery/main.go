package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/localpros/discovery/internal/config"
	logpkg "github.com/localpros/discovery/internal/logger"
	"github.com/localpros/discovery/internal/metrics"
	"github.com/localpros/discovery/internal/repository/listings"
	chiTransport "github.com/localpros/discovery/internal/transport/chi"
	healthuc "github.com/localpros/discovery/internal/usecase/health"
	"github.com/localpros/discovery/internal/usecase/pipeline"
	"github.com/localpros/discovery/internal/usecase/pricing"
	searchuc "github.com/localpros/discovery/internal/usecase/search"
	"github.com/localpros/discovery/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting discovery API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("redis_addrs", cfg.Source.RedisAddrs),
	)

	// Listing source: Redis when configured, otherwise in-memory fed over
	// the ingest endpoint.
	var (
		source searchuc.Source
		pinger healthuc.SourcePinger
		ingest chiTransport.Replacer
	)
	if len(cfg.Source.RedisAddrs) > 0 {
		redisSource, err := listings.NewRedis(listings.RedisConfig{
			Addrs:    cfg.Source.RedisAddrs,
			Username: cfg.Source.RedisUsername,
			Password: cfg.Source.RedisPassword,
			Key:      cfg.Source.SnapshotKey,
		})
		if err != nil {
			logger.Fatal("Failed to create listing source", zap.Error(err))
		}
		defer redisSource.Close()

		readiness := time.Duration(cfg.Source.ReadinessTimeout) * time.Second
		if err := redisSource.WaitForReady(context.Background(), readiness); err != nil {
			logger.Fatal("Listing source not ready", zap.Error(err))
		}
		logger.Info("Connected to listing source",
			zap.String("snapshot_key", cfg.Source.SnapshotKey))

		source, pinger = redisSource, redisSource
	} else {
		mem := listings.NewMemory()
		source, pinger, ingest = mem, mem, mem
		logger.Info("Using in-memory listing source")
	}

	metrics.RegisterEngineMetrics()

	prices := pricing.NewResolver()
	searchSvc := searchuc.New(source, pipeline.New(prices), prices)
	healthSvc := healthuc.New(pinger)

	server := chiTransport.NewServer(searchSvc, healthSvc, ingest, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
