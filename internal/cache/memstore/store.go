// Package memstore is an in-process, size-bounded result cache.
package memstore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Store struct {
	lru *expirable.LRU[string, []byte]
}

// New returns a cache holding at most size entries, each for at most ttl.
// The ttl passed to Set is ignored; entries share the store-wide ttl.
func New(size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = 1024
	}
	return &Store{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

func (s *Store) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	cp := make([]byte, len(val))
	copy(cp, val)
	s.lru.Add(key, cp)
	return nil
}

func (s *Store) Len() int { return s.lru.Len() }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error {
	s.lru.Purge()
	return nil
}
