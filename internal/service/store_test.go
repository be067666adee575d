package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/mohammed-shakir/geocombine/internal/cache"
	"github.com/mohammed-shakir/geocombine/internal/cache/memstore"
	"github.com/mohammed-shakir/geocombine/internal/cache/redisstore"
	"github.com/mohammed-shakir/geocombine/internal/core/config"
)

func TestOpenStore_Drivers(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cases := []struct {
		name string
		cfg  config.CacheCfg
		want any
	}{
		{"none", config.CacheCfg{Driver: config.CacheNone}, cache.Nop{}},
		{"memory", config.CacheCfg{Driver: config.CacheMemory, LRUSize: 4, TTL: time.Minute}, &memstore.Store{}},
		{"redis", config.CacheCfg{Driver: config.CacheRedis, RedisAddr: mr.Addr()}, &redisstore.Client{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, err := OpenStore(ctx, tc.cfg)
			if err != nil {
				t.Fatalf("OpenStore: %v", err)
			}
			defer func() { _ = st.Close() }()

			switch tc.want.(type) {
			case cache.Nop:
				if _, ok := st.(cache.Nop); !ok {
					t.Fatalf("store=%T want cache.Nop", st)
				}
			case *memstore.Store:
				if _, ok := st.(*memstore.Store); !ok {
					t.Fatalf("store=%T want *memstore.Store", st)
				}
			case *redisstore.Client:
				if _, ok := st.(*redisstore.Client); !ok {
					t.Fatalf("store=%T want *redisstore.Client", st)
				}
			}
		})
	}
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := OpenStore(ctx, config.CacheCfg{Driver: config.CacheRedis, RedisAddr: addr}); err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}
