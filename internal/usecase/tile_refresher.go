package usecase

import (
	"context"
	"errors"
	"time"

	domrepo "MarketLens/internal/domain/repository"
	applogger "MarketLens/pkg/logger"
)

// TileRefresher keeps the index tiles warm by polling TileQuotes on a
// fixed interval. A rate-limited tick doubles the wait, capped at the
// configured maximum; the first successful tick resets it.
type TileRefresher struct {
	market   *MarketData
	symbols  []string
	interval time.Duration
	base     time.Duration
	max      time.Duration
	metrics  domrepo.Metrics
	log      *applogger.Logger
}

// NewTileRefresher creates a refresher for symbols.
func NewTileRefresher(
	market *MarketData,
	symbols []string,
	interval, backoffBase, backoffMax time.Duration,
	metrics domrepo.Metrics,
	log *applogger.Logger,
) *TileRefresher {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	return &TileRefresher{
		market:   market,
		symbols:  symbols,
		interval: interval,
		base:     backoffBase,
		max:      backoffMax,
		metrics:  metrics,
		log:      log,
	}
}

// Run polls until ctx is cancelled. The first tick fires immediately.
func (r *TileRefresher) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	retry := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		rateLimited := r.tick(ctx)
		if ctx.Err() != nil {
			return
		}

		next := r.interval
		if rateLimited {
			retry++
			next = r.backoff(retry)
			r.log.Warn("tile refresh rate limited",
				applogger.Int("retry", retry),
				applogger.Duration("next", next),
			)
		} else {
			retry = 0
		}
		r.metrics.RecordTileInterval(next.Seconds())
		timer.Reset(next)
	}
}

// tick runs one refresh pass and reports whether it was rate limited.
func (r *TileRefresher) tick(ctx context.Context) (rateLimited bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("tile refresh panic", applogger.Any("panic", rec))
			r.metrics.RecordError("refresher_panic")
		}
	}()

	_, err := r.market.TileQuotes(ctx, r.symbols)
	if errors.Is(err, domrepo.ErrRateLimited) {
		return true
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		r.log.Error("tile refresh failed", applogger.Error(err))
		r.metrics.RecordError("refresher_tick")
	}
	return false
}

// backoff is base*2^(retry-1), capped at max.
func (r *TileRefresher) backoff(retry int) time.Duration {
	d := r.base
	for i := 1; i < retry; i++ {
		d *= 2
		if d >= r.max {
			return r.max
		}
	}
	if d > r.max {
		return r.max
	}
	return d
}
