// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type CacheCfg struct {
	Driver    string
	LRUSize   int
	TTL       time.Duration
	OpTimeout time.Duration
	RedisAddr string
}

type KafkaCfg struct {
	Brokers  []string
	InTopic  string
	OutTopic string
	GroupID  string
}

type MetricsCfg struct {
	Enabled bool
	Addr    string
	Path    string
}

type Config struct {
	Addr         string
	LogLevel     string
	LogConsole   bool
	LogSampleN   int
	MaxBodyBytes int64
	Cache        CacheCfg
	Kafka        KafkaCfg
	Metrics      MetricsCfg
}

const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

func FromEnv() Config {
	driver := strings.ToLower(getenv("CACHE_DRIVER", CacheMemory))
	switch driver {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		driver = CacheNone
	}

	maxBody := getint64("MAX_BODY_BYTES", 8<<20)
	if maxBody <= 0 {
		maxBody = 8 << 20
	}

	return Config{
		Addr:         getenv("ADDR", ":8090"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogConsole:   getbool("LOG_CONSOLE", false),
		LogSampleN:   getint("LOG_SAMPLE_N", 0),
		MaxBodyBytes: maxBody,
		Cache: CacheCfg{
			Driver:    driver,
			LRUSize:   getint("CACHE_LRU_SIZE", 1024),
			TTL:       getduration("CACHE_TTL", 5*time.Minute),
			OpTimeout: getduration("CACHE_OP_TIMEOUT", 250*time.Millisecond),
			RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaCfg{
			Brokers:  splitCSV(getenv("KAFKA_BROKERS", "localhost:9092")),
			InTopic:  getenv("KAFKA_IN_TOPIC", "geocombine-requests"),
			OutTopic: getenv("KAFKA_OUT_TOPIC", "geocombine-results"),
			GroupID:  getenv("KAFKA_GROUP_ID", "geocombine"),
		},
		Metrics: MetricsCfg{
			Enabled: getbool("METRICS_ENABLED", false),
			Addr:    getenv("METRICS_ADDR", ":9090"),
			Path:    getenv("METRICS_PATH", "/metrics"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getint64(k string, def int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
