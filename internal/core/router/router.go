// Package router holds the HTTP handlers of the combine API.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mohammed-shakir/geocombine/internal/core/observability"
	mylog "github.com/mohammed-shakir/geocombine/internal/logger"
	"github.com/mohammed-shakir/geocombine/internal/service"
	"github.com/mohammed-shakir/geocombine/pkg/combine"
	"github.com/mohammed-shakir/geocombine/pkg/geom"
)

const (
	routeCombine   = "/combine"
	contentGeoJSON = "application/geo+json"
)

// Combiner is what the HTTP layer needs from the service.
type Combiner interface {
	Combine(ctx context.Context, body []byte) (service.Result, error)
	Families(ctx context.Context, body []byte) ([]geom.Family, error)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type familiesBody struct {
	Families []string `json:"families"`
}

// HandleCombine reads a FeatureCollection from the request body and writes
// the combined collection.
func HandleCombine(logger *slog.Logger, maxBody int64, c Combiner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		defer func() {
			observability.ObserveHTTP(r.Method, routeCombine, sw.code, time.Since(start).Seconds())
		}()

		ctx := mylog.WithSource(r.Context(), "http")

		dryRun, err := parseBool(r.URL.Query().Get("dry_run"))
		if err != nil {
			writeError(sw, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid dry_run: %w", err))
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(sw, r.Body, maxBody))
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				writeError(sw, http.StatusRequestEntityTooLarge, "too_large",
					fmt.Errorf("request body exceeds %d bytes", mbe.Limit))
				return
			}
			writeError(sw, http.StatusBadRequest, "bad_request", fmt.Errorf("read body: %w", err))
			return
		}

		if dryRun {
			fams, err := c.Families(ctx, body)
			if err != nil {
				writeCombineError(ctx, logger, sw, err)
				return
			}
			out := familiesBody{Families: make([]string, 0, len(fams))}
			for _, f := range fams {
				out.Families = append(out.Families, f.String())
			}
			sw.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(sw).Encode(out)
			return
		}

		res, err := c.Combine(ctx, body)
		if err != nil {
			writeCombineError(ctx, logger, sw, err)
			return
		}
		sw.Header().Set("Content-Type", contentGeoJSON)
		if res.Cached {
			sw.Header().Set("X-Cache", "hit")
		} else {
			sw.Header().Set("X-Cache", "miss")
		}
		_, _ = sw.Write(res.Body)
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// StatusFor maps a combine error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, combine.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, combine.ErrUnsupportedGeometryKind), errors.Is(err, combine.ErrMissingGeometry):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeCombineError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(ctx, "combine failed", "err", err)
		writeError(w, status, "internal", errors.New("internal error"))
		return
	}
	writeError(w, status, combine.KindName(err), err)
}

func writeError(w http.ResponseWriter, status int, kind string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: err.Error(), Kind: kind})
}

func parseBool(v string) (bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse bool: %w", err)
	}
	return b, nil
}
