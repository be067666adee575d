package config

import (
	"slices"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "CACHE_DRIVER", "CACHE_TTL", "MAX_BODY_BYTES", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Addr != ":8090" {
		t.Fatalf("addr=%q want :8090", cfg.Addr)
	}
	if cfg.Cache.Driver != CacheMemory {
		t.Fatalf("driver=%q want memory", cfg.Cache.Driver)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("ttl=%v want 5m", cfg.Cache.TTL)
	}
	if cfg.MaxBodyBytes != 8<<20 {
		t.Fatalf("max body=%d", cfg.MaxBodyBytes)
	}
	if !slices.Equal(cfg.Kafka.Brokers, []string{"localhost:9092"}) {
		t.Fatalf("brokers=%v", cfg.Kafka.Brokers)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CACHE_DRIVER", "REDIS")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", " a:1 , ,b:2 ")
	t.Setenv("METRICS_ENABLED", "yes")
	t.Setenv("MAX_BODY_BYTES", "-5")

	cfg := FromEnv()
	if cfg.Cache.Driver != CacheRedis {
		t.Fatalf("driver=%q want redis", cfg.Cache.Driver)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Fatalf("ttl=%v", cfg.Cache.TTL)
	}
	if !slices.Equal(cfg.Kafka.Brokers, []string{"a:1", "b:2"}) {
		t.Fatalf("brokers=%v", cfg.Kafka.Brokers)
	}
	if !cfg.Metrics.Enabled {
		t.Fatal("metrics should be enabled")
	}
	if cfg.MaxBodyBytes != 8<<20 {
		t.Fatalf("max body=%d want default", cfg.MaxBodyBytes)
	}
}

func TestFromEnv_UnknownDriverDisablesCache(t *testing.T) {
	t.Setenv("CACHE_DRIVER", "memcached")
	if got := FromEnv().Cache.Driver; got != CacheNone {
		t.Fatalf("driver=%q want none", got)
	}
}
