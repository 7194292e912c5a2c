package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketStartsFull(t *testing.T) {
	tb := NewTokenBucket(3, 1)
	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Fatalf("token %d denied from a full bucket", i)
		}
	}
	if tb.Allow() {
		t.Error("empty bucket admitted a request")
	}
}

func TestTokenBucketRefills(t *testing.T) {
	tb := NewTokenBucket(2, 100)
	tb.Allow()
	tb.Allow()
	if tb.Allow() {
		t.Fatal("bucket should be empty")
	}
	time.Sleep(1100 * time.Millisecond)
	if tb.Remaining() != 2 {
		t.Errorf("remaining = %d, want refill capped at capacity 2", tb.Remaining())
	}
}

func TestWaitHonorsContext(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	tb.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := tb.Wait(ctx); err == nil {
		t.Error("Wait returned nil on an empty bucket with expired context")
	}
}

func TestManagerFallsBackToDefault(t *testing.T) {
	m := NewManager()
	m.Register("order", 1, 1)

	ctx := context.Background()
	if err := m.Wait(ctx, "order"); err != nil {
		t.Fatalf("registered class: %v", err)
	}
	if err := m.Wait(ctx, "unregistered"); err != nil {
		t.Fatalf("default bucket: %v", err)
	}
}
