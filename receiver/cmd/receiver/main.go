package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tenantwave/tenantwave-demo/common/fault"
	"github.com/tenantwave/tenantwave-demo/common/logging"
	"github.com/tenantwave/tenantwave-demo/common/observability"
	"github.com/tenantwave/tenantwave-demo/receiver/internal/config"
	"github.com/tenantwave/tenantwave-demo/receiver/internal/handlers"
	"github.com/tenantwave/tenantwave-demo/receiver/internal/server"
	"github.com/tenantwave/tenantwave-demo/receiver/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service(cfg.Service.Name), logging.Tenant(cfg.Service.TenantID))
	logging.SetDefault(logger)

	slog.Info("Starting receiver service",
		slog.Int("port", cfg.Server.Port),
		slog.String("store_backend", cfg.Store.Backend),
		slog.Float64("error_rate", cfg.Fault.ErrorRate),
		slog.Int("latency_ms", cfg.Fault.LatencyMS),
		slog.Int("processing_time_ms", cfg.Store.ProcessingTimeMS),
	)

	otlpEndpoint := cfg.Telemetry.OTLPEndpoint()
	slog.Info("OTLP endpoint configured",
		slog.String("endpoint", otlpEndpoint),
		slog.String("node_ip", cfg.Telemetry.NodeIP),
	)

	shutdownTelemetry, err := observability.Init(context.Background(), observability.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       otlpEndpoint,
		ServiceName:    cfg.Service.Name,
		TenantID:       cfg.Service.TenantID,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Telemetry.Environment,
		SamplingRatio:  cfg.Telemetry.SamplingRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	injector, err := fault.New(
		cfg.Fault.ErrorRate,
		0,
		time.Duration(cfg.Fault.LatencyMS)*time.Millisecond,
	)
	if err != nil {
		log.Fatalf("Invalid fault configuration: %v", err)
	}

	var st store.Store
	switch cfg.Store.Backend {
	case "redis":
		st, err = store.NewRedisStore(cfg.Store.RedisURL, cfg.Store.RedisTTL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
	default:
		st = store.NewMemoryStore(time.Duration(cfg.Store.ProcessingTimeMS) * time.Millisecond)
	}
	defer st.Close()

	handler := handlers.NewProcessHandler(cfg.Service.Name, cfg.Service.TenantID, st, injector, logger)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Receiver service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
	}

	slog.Info("Server stopped")
}
