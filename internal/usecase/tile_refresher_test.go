package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/pkg/cache"
)

func TestBackoffDoublesToCap(t *testing.T) {
	r := &TileRefresher{base: 15 * time.Second, max: 60 * time.Second}

	cases := []struct {
		retry int
		want  time.Duration
	}{
		{1, 15 * time.Second},
		{2, 30 * time.Second},
		{3, 60 * time.Second},
		{4, 60 * time.Second},
		{10, 60 * time.Second},
	}
	for _, tc := range cases {
		if got := r.backoff(tc.retry); got != tc.want {
			t.Fatalf("backoff(%d) = %v, want %v", tc.retry, got, tc.want)
		}
	}
}

func TestRefresherBacksOffWhenRateLimited(t *testing.T) {
	p := &stubProvider{
		quoteFn: func(context.Context, string) (*domrepo.QuoteData, error) {
			return nil, domrepo.ErrRateLimited
		},
	}
	cfg := testConfig()
	// tile cache with a tiny TTL so every tick reaches the provider
	stocks := cache.NewMemoryCache()
	tiles := cache.NewMemoryCache(cache.WithMemoryTTL(time.Millisecond))
	m := NewMarketData(cfg, p, stocks, tiles, ratelimit.New(), nil, testLogger(t))

	rec := &recordingMetrics{}
	r := NewTileRefresher(m, []string{"^GSPC"},
		5*time.Millisecond, 10*time.Millisecond, 40*time.Millisecond, rec, testLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	r.Run(ctx)

	intervals := rec.Intervals()
	if len(intervals) < 2 {
		t.Fatalf("expected multiple ticks, got %d", len(intervals))
	}
	first := intervals[0]
	if first != (10 * time.Millisecond).Seconds() {
		t.Fatalf("first backoff %v, want %v", first, (10 * time.Millisecond).Seconds())
	}
	for i := 1; i < len(intervals); i++ {
		if intervals[i] < intervals[i-1] && intervals[i-1] != (40*time.Millisecond).Seconds() {
			t.Fatalf("backoff shrank without success: %v", intervals)
		}
		if intervals[i] > (40 * time.Millisecond).Seconds() {
			t.Fatalf("backoff exceeded cap: %v", intervals[i])
		}
	}
}

func TestRefresherResetsAfterSuccess(t *testing.T) {
	var failures int32 = 1
	p := &stubProvider{
		quoteFn: func(context.Context, string) (*domrepo.QuoteData, error) {
			if atomic.AddInt32(&failures, -1) >= 0 {
				return nil, domrepo.ErrRateLimited
			}
			return &domrepo.QuoteData{Price: 100, Change: 1, ChangePercent: 1}, nil
		},
	}
	cfg := testConfig()
	stocks := cache.NewMemoryCache()
	tiles := cache.NewMemoryCache(cache.WithMemoryTTL(time.Millisecond))
	m := NewMarketData(cfg, p, stocks, tiles, ratelimit.New(), nil, testLogger(t))

	rec := &recordingMetrics{}
	r := NewTileRefresher(m, []string{"^GSPC"},
		5*time.Millisecond, 20*time.Millisecond, 80*time.Millisecond, rec, testLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	r.Run(ctx)

	intervals := rec.Intervals()
	if len(intervals) < 2 {
		t.Fatalf("expected multiple ticks, got %d", len(intervals))
	}
	if intervals[0] != (20 * time.Millisecond).Seconds() {
		t.Fatalf("first interval %v, want backoff %v", intervals[0], (20 * time.Millisecond).Seconds())
	}
	if intervals[1] != (5 * time.Millisecond).Seconds() {
		t.Fatalf("interval after success %v, want %v", intervals[1], (5 * time.Millisecond).Seconds())
	}
}

func TestRefresherStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Mock.Stocks = true
	cfg.Mock.Market = true
	m := newTestMarket(t, cfg, nil)

	r := NewTileRefresher(m, []string{"^GSPC"},
		time.Hour, time.Hour, time.Hour, nil, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop on cancel")
	}
}

// recordingMetrics captures tile interval recordings for assertions.
type recordingMetrics struct {
	domrepo.NopMetrics
	mu        sync.Mutex
	intervals []float64
}

func (r *recordingMetrics) RecordTileInterval(seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intervals = append(r.intervals, seconds)
}

func (r *recordingMetrics) Intervals() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.intervals...)
}
