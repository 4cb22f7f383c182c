package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sharekit-app/sharekit-backend/internal/gateway"
	"github.com/sharekit-app/sharekit-backend/pkg/config"
	"github.com/sharekit-app/sharekit-backend/pkg/logger"
	"github.com/sharekit-app/sharekit-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "sharekit-gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "sharekit-gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	forwarder, err := gateway.NewForwarder(cfg.Gateway.ServerURL, cfg.Gateway.Timeout, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create forwarder", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	limiter := gateway.NewRateLimiter(cfg.Gateway.RateLimit, cfg.Gateway.RateWindow, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Gateway.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"upstream": cfg.Gateway.ServerURL,
	})
	logg.Info(ctx, "starting sharekit gateway")

	server := &http.Server{
		Addr: addr,
		Handler: gateway.NewRouter(gateway.Deps{
			Config:    cfg,
			Logger:    logg,
			Forwarder: forwarder,
			Limiter:   limiter,
			Metrics:   httpMetrics,
			Registry:  registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway stopped unexpectedly", err)
		os.Exit(1)
	}
}
