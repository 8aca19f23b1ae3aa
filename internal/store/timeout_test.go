package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

// blockingStore implements only Ping; any other call panics on the nil
// embedded interface.
type blockingStore struct {
	MarketStore
}

func (blockingStore) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestWithTimeout_BoundsCalls(t *testing.T) {
	wrapped := WithTimeout(blockingStore{}, 20*time.Millisecond)

	start := time.Now()
	err := wrapped.Ping(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Ping was not bounded, took %v", elapsed)
	}
}

func TestWithTimeout_ZeroReturnsInner(t *testing.T) {
	inner := blockingStore{}
	if got := WithTimeout(inner, 0); got != MarketStore(inner) {
		t.Error("Expected non-positive timeout to return the inner store")
	}
}
