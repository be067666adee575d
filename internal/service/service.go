// Package service runs GeoJSON documents through the combiner with a result
// cache in front, recording metrics and logs for every call.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mohammed-shakir/geocombine/internal/cache"
	"github.com/mohammed-shakir/geocombine/internal/cache/keys"
	"github.com/mohammed-shakir/geocombine/internal/core/observability"
	"github.com/mohammed-shakir/geocombine/internal/geojsonio"
	"github.com/mohammed-shakir/geocombine/internal/logger"
	"github.com/mohammed-shakir/geocombine/pkg/combine"
	"github.com/mohammed-shakir/geocombine/pkg/geom"
)

type Options struct {
	TTL       time.Duration
	OpTimeout time.Duration
}

type Service struct {
	log     *slog.Logger
	store   cache.Store
	opts    Options
	caching bool
}

// sizer is implemented by stores that know how many entries they hold.
type sizer interface {
	Len() int
}

type Result struct {
	Body   []byte
	Cached bool
}

func New(log *slog.Logger, store cache.Store, opts Options) *Service {
	if log == nil {
		log = slog.Default()
	}
	if store == nil {
		store = cache.Nop{}
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 250 * time.Millisecond
	}
	_, nop := store.(cache.Nop)
	return &Service{log: log, store: store, opts: opts, caching: !nop}
}

// Combine decodes body as a FeatureCollection and returns the encoded
// combined collection. Errors from the combiner are returned unchanged so
// callers can classify them with errors.Is.
func (s *Service) Combine(ctx context.Context, body []byte) (Result, error) {
	start := time.Now()
	source := logger.Source(ctx)
	key := keys.Key("combine", body)

	if s.caching {
		if b, ok := s.lookup(ctx, key); ok {
			observability.IncCacheHit()
			observability.ObserveCombine(source, "ok", time.Since(start).Seconds())
			s.log.DebugContext(ctx, "combine served from cache", "key", key)
			return Result{Body: b, Cached: true}, nil
		}
		observability.IncCacheMiss()
	}

	out, err := s.combine(ctx, body)
	observability.ObserveCombine(source, outcome(err), time.Since(start).Seconds())
	if err != nil {
		return Result{}, err
	}

	if s.caching {
		s.save(ctx, key, out)
	}
	return Result{Body: out}, nil
}

func (s *Service) combine(ctx context.Context, body []byte) ([]byte, error) {
	in, err := geojsonio.Decode(body)
	if err != nil {
		s.log.InfoContext(ctx, "rejected input", "kind", combine.KindName(err), "err", err)
		return nil, err
	}

	out, st, err := combine.CombineWithStats(in)
	if err != nil {
		s.log.InfoContext(ctx, "rejected input", "kind", combine.KindName(err), "err", err,
			"features", len(in.Features))
		return nil, err
	}
	for _, fam := range geom.Families {
		observability.AddFeaturesIn(fam.String(), st.FeaturesIn[fam])
		observability.AddMembersOut(fam.String(), st.MembersOut[fam])
	}

	b, err := geojsonio.Encode(out)
	if err != nil {
		return nil, err
	}
	s.log.DebugContext(ctx, "combined collection",
		"features_in", len(in.Features),
		"features_out", st.FeaturesOut(),
		"bytes_out", len(b))
	return b, nil
}

// Families reports the families body would combine into, without building
// the combined collection.
func (s *Service) Families(ctx context.Context, body []byte) ([]geom.Family, error) {
	start := time.Now()
	source := logger.Source(ctx)

	in, err := geojsonio.Decode(body)
	if err == nil {
		var fams []geom.Family
		fams, err = combine.Families(in)
		if err == nil {
			observability.ObserveCombine(source, "ok", time.Since(start).Seconds())
			return fams, nil
		}
	}
	observability.ObserveCombine(source, outcome(err), time.Since(start).Seconds())
	return nil, err
}

// Ready reports whether the cache backend is reachable.
func (s *Service) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	defer cancel()
	return s.store.Ping(ctx)
}

func (s *Service) lookup(ctx context.Context, key string) ([]byte, bool) {
	cctx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	defer cancel()
	b, ok, err := s.store.Get(cctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "cache get failed", "key", key, "err", err)
		return nil, false
	}
	return b, ok
}

func (s *Service) save(ctx context.Context, key string, val []byte) {
	cctx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	defer cancel()
	if err := s.store.Set(cctx, key, val, s.opts.TTL); err != nil {
		s.log.WarnContext(ctx, "cache set failed", "key", key, "err", err)
		return
	}
	if sz, ok := s.store.(sizer); ok {
		observability.SetCacheEntries(sz.Len())
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return combine.KindName(err)
}
