package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mohammed-shakir/geocombine/internal/core/config"
	"github.com/mohammed-shakir/geocombine/internal/core/server"
	"github.com/mohammed-shakir/geocombine/internal/logger"
	"github.com/mohammed-shakir/geocombine/internal/metrics"
	"github.com/mohammed-shakir/geocombine/internal/service"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.FromEnv()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Component: "combine-server",
		Version:   Version,
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := metrics.Init(metrics.Config{
		Binary: "combine-server",
		Build: metrics.BuildInfo{
			Version:   Version,
			Revision:  os.Getenv("BUILD_REVISION"),
			BuildDate: os.Getenv("BUILD_DATE"),
		},
	})

	store, err := service.OpenStore(ctx, cfg.Cache)
	if err != nil {
		appLog.Error("failed to open cache", "driver", cfg.Cache.Driver, "err", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	svc := service.New(appLog, store, service.Options{
		TTL:       cfg.Cache.TTL,
		OpTimeout: cfg.Cache.OpTimeout,
	})

	// metrics share the API listener unless a dedicated one is configured
	var inline http.Handler = p.Handler()
	if cfg.Metrics.Enabled {
		inline = nil
		if err := p.Serve(ctx, appLog, cfg.Metrics.Addr, cfg.Metrics.Path); err != nil {
			appLog.Error("metrics listener failed", "addr", cfg.Metrics.Addr, "err", err)
			return 1
		}
	}

	appLog.Info("starting combine-server",
		"addr", cfg.Addr,
		"version", Version,
		"cache", cfg.Cache.Driver,
		"max_body_bytes", cfg.MaxBodyBytes)

	handler := server.NewHandler(cfg, appLog, svc, inline)
	if err := server.Run(ctx, cfg, appLog, handler); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}
