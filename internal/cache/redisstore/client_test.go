package redisstore

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

// creates new client connected to miniredis for testing
func newMini(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)

	rc, err := New(ctx, mr.Addr())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestSetGet_HappyPath_AndMiss(t *testing.T) {
	rc, _ := newMini(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := rc.Set(ctx, "k1", []byte(`{"type":"FeatureCollection","features":[]}`), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := rc.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"type":"FeatureCollection","features":[]}` {
		t.Fatalf("value=%s", got)
	}

	got, ok, err = rc.Get(ctx, "missing")
	if err != nil || ok || got != nil {
		t.Fatalf("miss: got=%q ok=%v err=%v", got, ok, err)
	}
}

func TestTTLExpiry(t *testing.T) {
	rc, mr := newMini(t)
	ctx := context.Background()

	if err := rc.Set(ctx, "ttl-key", []byte("v"), 2*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(3 * time.Second)

	if _, ok, err := rc.Get(ctx, "ttl-key"); err != nil || ok {
		t.Fatalf("expected expiry; ok=%v err=%v", ok, err)
	}
}

func TestContextDeadline_IsRespected(t *testing.T) {
	rc, _ := newMini(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rc.Set(ctx, "k", []byte("v"), time.Second); err == nil {
		t.Fatalf("expected error on Set with canceled context")
	}
	if _, _, err := rc.Get(ctx, "k"); err == nil {
		t.Fatalf("expected error on Get with canceled context")
	}
}

func TestNew_RequiresAddr(t *testing.T) {
	if _, err := New(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty address")
	}
}
