package service

import (
	"context"
	"fmt"

	"github.com/mohammed-shakir/geocombine/internal/cache"
	"github.com/mohammed-shakir/geocombine/internal/cache/memstore"
	"github.com/mohammed-shakir/geocombine/internal/cache/redisstore"
	"github.com/mohammed-shakir/geocombine/internal/core/config"
)

// OpenStore returns the result cache selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.CacheCfg) (cache.Store, error) {
	switch cfg.Driver {
	case config.CacheMemory:
		return memstore.New(cfg.LRUSize, cfg.TTL), nil
	case config.CacheRedis:
		c, err := redisstore.New(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	default:
		return cache.Nop{}, nil
	}
}
