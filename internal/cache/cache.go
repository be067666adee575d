// Package cache defines the result cache used in front of the combiner.
package cache

import (
	"context"
	"time"
)

// Store caches encoded combine results by key. A miss is (nil, false, nil).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Ping(context.Context) error                               { return nil }
func (Nop) Close() error                                             { return nil }
