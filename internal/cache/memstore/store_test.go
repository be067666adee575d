package memstore

import (
	"context"
	"testing"
	"time"
)

func TestSetGet_AndEviction(t *testing.T) {
	ctx := context.Background()
	s := New(2, time.Minute)

	for _, k := range []string{"a", "b", "c"} {
		if err := s.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if s.Len() != 2 {
		t.Fatalf("len=%d want 2", s.Len())
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	v, ok, err := s.Get(ctx, "c")
	if err != nil || !ok || string(v) != "c" {
		t.Fatalf("Get c = %q %v %v", v, ok, err)
	}
}

func TestSet_CopiesValue(t *testing.T) {
	ctx := context.Background()
	s := New(4, time.Minute)
	buf := []byte("abc")
	_ = s.Set(ctx, "k", buf, 0)
	buf[0] = 'x'

	v, _, _ := s.Get(ctx, "k")
	if string(v) != "abc" {
		t.Fatalf("value=%q want abc", v)
	}
}

func TestTTL_Expires(t *testing.T) {
	ctx := context.Background()
	s := New(4, 20*time.Millisecond)
	_ = s.Set(ctx, "k", []byte("v"), 0)
	time.Sleep(60 * time.Millisecond)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("entry should have expired")
	}
}
