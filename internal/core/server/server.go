// Package server wires the combine API onto a chi router and runs it.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/geocombine/internal/core/config"
	"github.com/mohammed-shakir/geocombine/internal/core/health"
	middleware "github.com/mohammed-shakir/geocombine/internal/core/middleware"
	"github.com/mohammed-shakir/geocombine/internal/core/router"
)

// Service is the combiner plus its readiness probe.
type Service interface {
	router.Combiner
	health.ReadinessChecker
}

// NewHandler builds the HTTP routes. metrics may be nil to leave /metrics
// unmounted (served on a separate listener).
func NewHandler(cfg config.Config, logger *slog.Logger, svc Service, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(svc))
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	r.Post("/combine", router.HandleCombine(logger, cfg.MaxBodyBytes, svc))
	return r
}

// Run serves handler on cfg.Addr until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, handler http.Handler) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	return Serve(ctx, ln, logger, handler)
}

func Serve(ctx context.Context, ln net.Listener, logger *slog.Logger, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
