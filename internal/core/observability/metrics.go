// Package observability holds the Prometheus collectors shared by the HTTP
// server, the combine service, the caches and the Kafka worker.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"method", "route", "status"},
	)

	combineTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "combine_requests_total",
			Help: "Combine operations by source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	combineDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "combine_duration_seconds",
			Help:    "Time spent decoding, combining and encoding a collection.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		},
		[]string{"source"},
	)

	featuresIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "combine_input_features_total",
			Help: "Input features by geometry family.",
		},
		[]string{"family"},
	)

	membersOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "combine_output_members_total",
			Help: "Members written into combined multi-geometries by family.",
		},
		[]string{"family"},
	)

	cacheResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_results_total",
			Help: "Result cache lookups by outcome.",
		},
		[]string{"outcome"},
	)

	cacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Entries held by the in-process result cache.",
		},
	)

	cacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_op_total",
			Help: "Cache backend operations by op and result.",
		},
		[]string{"op", "result"},
	)

	cacheOpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Latency of Redis operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"op"},
	)

	kafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_total",
			Help: "Kafka messages handled by the worker by result.",
		},
		[]string{"result"},
	)
)

// Collectors returns every collector in this package for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDurationSeconds,
		combineTotal,
		combineDurationSeconds,
		featuresIn,
		membersOut,
		cacheResults,
		cacheEntries,
		cacheOps,
		cacheOpDurationSeconds,
		kafkaMessages,
	}
}

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

// ObserveCombine records one combine call; outcome is "ok" or an error kind.
func ObserveCombine(source, outcome string, durationSeconds float64) {
	combineTotal.WithLabelValues(source, outcome).Inc()
	combineDurationSeconds.WithLabelValues(source).Observe(durationSeconds)
}

func AddFeaturesIn(family string, n int) {
	if n > 0 {
		featuresIn.WithLabelValues(family).Add(float64(n))
	}
}

func AddMembersOut(family string, n int) {
	if n > 0 {
		membersOut.WithLabelValues(family).Add(float64(n))
	}
}

func IncCacheHit()  { cacheResults.WithLabelValues("hit").Inc() }
func IncCacheMiss() { cacheResults.WithLabelValues("miss").Inc() }

func SetCacheEntries(n int) { cacheEntries.Set(float64(n)) }

func ObserveCacheOp(op string, err error, durationSeconds float64) {
	res := "ok"
	if err != nil {
		res = "error"
	}
	cacheOps.WithLabelValues(op, res).Inc()
	cacheOpDurationSeconds.WithLabelValues(op).Observe(durationSeconds)
}

func IncKafkaMessage(result string) {
	kafkaMessages.WithLabelValues(result).Inc()
}
