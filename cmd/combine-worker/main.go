package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/IBM/sarama"

	"github.com/mohammed-shakir/geocombine/internal/core/config"
	"github.com/mohammed-shakir/geocombine/internal/logger"
	"github.com/mohammed-shakir/geocombine/internal/metrics"
	"github.com/mohammed-shakir/geocombine/internal/service"
	"github.com/mohammed-shakir/geocombine/internal/stream"
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
		Component: "combine-worker",
		Version:   Version,
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		p := metrics.Init(metrics.Config{
			Binary: "combine-worker",
			Build: metrics.BuildInfo{
				Version:   Version,
				Revision:  os.Getenv("BUILD_REVISION"),
				BuildDate: os.Getenv("BUILD_DATE"),
			},
		})
		if err := p.Serve(ctx, appLog, cfg.Metrics.Addr, cfg.Metrics.Path); err != nil {
			appLog.Error("metrics listener failed", "addr", cfg.Metrics.Addr, "err", err)
			return 1
		}
	}

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

	scfg := stream.FromConfig(cfg.Kafka)
	sc := stream.NewSaramaConfig(scfg)

	group, err := sarama.NewConsumerGroup(scfg.Brokers, scfg.GroupID, sc)
	if err != nil {
		appLog.Error("create consumer group failed", "err", err)
		return 1
	}
	defer func() { _ = group.Close() }()

	prod, err := sarama.NewSyncProducer(scfg.Brokers, sc)
	if err != nil {
		appLog.Error("create producer failed", "err", err)
		return 1
	}
	defer func() { _ = prod.Close() }()

	w := stream.NewWorker(scfg, appLog, svc, prod)
	if err := w.Run(ctx, group); err != nil {
		appLog.Error("worker exited with error", "err", err)
		return 1
	}
	appLog.Info("worker stopped")
	return 0
}
