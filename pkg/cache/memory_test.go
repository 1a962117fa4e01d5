package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMemoryCacheHitBeforeTTL(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryTTL(5 * time.Minute))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return base }

	if err := mc.Set(ctx, "quote|AAPL", "v1", 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	mc.now = func() time.Time { return base.Add(5*time.Minute - time.Second) }
	var got string
	if err := mc.Get(ctx, "quote|AAPL", &got); err != nil {
		t.Fatalf("expected hit before TTL, got %v", err)
	}
	if got != "v1" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestMemoryCacheMissAfterTTL(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryTTL(5 * time.Minute))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return base }
	if err := mc.Set(ctx, "quote|AAPL", "v1", 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	mc.now = func() time.Time { return base.Add(5*time.Minute + time.Second) }
	var got string
	if err := mc.Get(ctx, "quote|AAPL", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after TTL, got %v", err)
	}
	if mc.Len() != 0 {
		t.Fatalf("expired entry should be deleted on read, len=%d", mc.Len())
	}
}

func TestMemoryCacheEvictsOldestInserted(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxEntries(5), WithMemoryTTL(time.Hour))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		tick := base.Add(time.Duration(i) * time.Second)
		mc.now = func() time.Time { return tick }
		if err := mc.Set(ctx, fmt.Sprintf("k%d", i), i, 0); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	if mc.Len() != 5 {
		t.Fatalf("expected bound of 5 entries, got %d", mc.Len())
	}

	var got int
	if err := mc.Get(ctx, "k0", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected first-inserted key evicted, got %v", err)
	}
	for i := 1; i < 6; i++ {
		if err := mc.Get(ctx, fmt.Sprintf("k%d", i), &got); err != nil {
			t.Fatalf("k%d should survive: %v", i, err)
		}
	}
}

func TestMemoryCacheOverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxEntries(2), WithMemoryTTL(time.Hour))

	if err := mc.Set(ctx, "a", 1, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := mc.Set(ctx, "b", 2, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Overwriting an existing key at capacity must not evict anything.
	if err := mc.Set(ctx, "a", 3, 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	if mc.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", mc.Len())
	}
	var got int
	if err := mc.Get(ctx, "b", &got); err != nil || got != 2 {
		t.Fatalf("b should survive overwrite: %v %d", err, got)
	}
	if err := mc.Get(ctx, "a", &got); err != nil || got != 3 {
		t.Fatalf("a should hold new value: %v %d", err, got)
	}
}

func TestMemoryCacheTypedAssign(t *testing.T) {
	type quote struct {
		Symbol string
		Price  float64
	}
	ctx := context.Background()
	mc := NewMemoryCache()

	in := &quote{Symbol: "AAPL", Price: 189.5}
	if err := mc.Set(ctx, "q", in, 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out *quote
	if err := mc.Get(ctx, "q", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("expected the same stored pointer back")
	}

	var wrong *int
	if err := mc.Get(ctx, "q", &wrong); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestKey(t *testing.T) {
	if got := Key("history", "AAPL", "1Y"); got != "history|AAPL|1Y" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := Key("quote", "MSFT"); got != "quote|MSFT" {
		t.Fatalf("unexpected key %q", got)
	}
}
