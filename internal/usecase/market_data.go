package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/synth"
	"MarketLens/pkg/cache"
	"MarketLens/pkg/config"
	applogger "MarketLens/pkg/logger"
)

// MarketData is the provider-fallback orchestrator. Every read goes
// cache -> live provider -> synthetic generator; provider failures are
// recovered locally and never surface to callers. The only error that
// escapes is ErrRateLimited, which the tile refresher uses for backoff
// (the data returned alongside it is still valid).
type MarketData struct {
	cfg      *config.Config
	provider domrepo.Provider // nil when provider "none" is configured
	stocks   cache.Service
	tiles    cache.Service
	limiter  *ratelimit.Limiter
	metrics  domrepo.Metrics
	log      *applogger.Logger
	now      func() time.Time

	mu       sync.Mutex
	inflight map[string]chan struct{}
}

// NewMarketData creates the orchestrator. stocks and tiles are two
// independently configured caches (5m/200 and 1s by default).
func NewMarketData(
	cfg *config.Config,
	provider domrepo.Provider,
	stocks cache.Service,
	tiles cache.Service,
	limiter *ratelimit.Limiter,
	metrics domrepo.Metrics,
	log *applogger.Logger,
) *MarketData {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	return &MarketData{
		cfg:      cfg,
		provider: provider,
		stocks:   stocks,
		tiles:    tiles,
		limiter:  limiter,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
		inflight: make(map[string]chan struct{}),
	}
}

// Quote returns a quote snapshot for symbol.
func (m *MarketData) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var q *models.Quote
	err := m.withCache(ctx, m.stocks, cache.Key("quote", symbol), "quote", m.cfg.Cache.StockTTL, &q, func(ctx context.Context) (interface{}, error) {
		return m.buildQuote(ctx, symbol, m.cfg.Mock.Stocks, false)
	})
	return q, err
}

// IndexQuote returns a quote for a market index symbol. When the index
// mode is etf_proxy the underlying fetch goes to the stand-in ETF and
// the result is relabeled with the index symbol and name.
func (m *MarketData) IndexQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	var q *models.Quote
	err := m.withCache(ctx, m.stocks, cache.Key("indexquote", symbol), "indexquote", m.cfg.Cache.StockTTL, &q, func(ctx context.Context) (interface{}, error) {
		return m.buildQuote(ctx, symbol, m.cfg.Mock.Market, true)
	})
	return q, err
}

// PriceHistory returns a time-ascending candle series for symbol+range.
func (m *MarketData) PriceHistory(ctx context.Context, symbol string, rng domrepo.Range) ([]models.Candle, error) {
	var candles []models.Candle
	err := m.withCache(ctx, m.stocks, cache.Key("history", symbol, rng), "history", m.cfg.Cache.StockTTL, &candles, func(ctx context.Context) (interface{}, error) {
		return m.buildHistory(ctx, symbol, rng)
	})
	return candles, err
}

// Earnings returns the 8-quarter earnings series for symbol, oldest
// first. The live provider contract has no earnings endpoint, so the
// series is always synthetic; outside mock mode that still counts as a
// fallback so operators can see it.
func (m *MarketData) Earnings(ctx context.Context, symbol string) ([]models.EarningsQuarter, error) {
	var quarters []models.EarningsQuarter
	err := m.withCache(ctx, m.stocks, cache.Key("earnings", symbol), "earnings", m.cfg.Cache.StockTTL, &quarters, func(ctx context.Context) (interface{}, error) {
		if !m.cfg.Mock.Earnings && m.provider != nil {
			m.fallback("earnings", symbol, "unsupported")
		}
		return synth.GenerateEarnings(symbol, m.now()), nil
	})
	return quarters, err
}

// News returns up to limit headlines for symbol published within the
// lookback window, newest first.
func (m *MarketData) News(ctx context.Context, symbol string, limit, lookbackDays int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = synth.DefaultNewsLimit
	}
	if lookbackDays <= 0 {
		lookbackDays = 7
	}
	var items []models.NewsItem
	err := m.withCache(ctx, m.stocks, cache.Key("news", symbol, limit, lookbackDays), "news", m.cfg.Cache.StockTTL, &items, func(ctx context.Context) (interface{}, error) {
		if !m.cfg.Mock.Stocks && m.provider != nil {
			m.fallback("news", symbol, "unsupported")
		}
		now := m.now()
		all := synth.GenerateNews(symbol, limit, now)
		cutoff := now.AddDate(0, 0, -lookbackDays)
		kept := make([]models.NewsItem, 0, len(all))
		for _, it := range all {
			if !it.PublishedAt.Before(cutoff) {
				kept = append(kept, it)
			}
		}
		return kept, nil
	})
	return items, err
}

// Overview composes quote, history, earnings and news at read time.
// It is not cached as a unit; each part hits its own cache entry.
func (m *MarketData) Overview(ctx context.Context, symbol string, rng domrepo.Range) (*models.StockOverview, error) {
	quote, err := m.Quote(ctx, symbol)
	if err != nil && !errors.Is(err, domrepo.ErrRateLimited) {
		return nil, err
	}
	history, err := m.PriceHistory(ctx, symbol, rng)
	if err != nil && !errors.Is(err, domrepo.ErrRateLimited) {
		return nil, err
	}
	earnings, err := m.Earnings(ctx, symbol)
	if err != nil {
		return nil, err
	}
	news, err := m.News(ctx, symbol, synth.DefaultNewsLimit, 7)
	if err != nil {
		return nil, err
	}
	return &models.StockOverview{
		Symbol:   symbol,
		Range:    string(rng),
		Quote:    quote,
		History:  history,
		Earnings: earnings,
		News:     news,
	}, nil
}

// TileQuotes returns the lightweight tile payload for symbols. The
// returned error is ErrRateLimited when any underlying fetch hit a 429;
// the slice is complete either way (synthetic stand-ins fill the gaps).
func (m *MarketData) TileQuotes(ctx context.Context, symbols []string) ([]models.TileQuote, error) {
	tiles := make([]models.TileQuote, 0, len(symbols))
	var rateLimited bool

	for _, symbol := range symbols {
		var tile models.TileQuote
		err := m.withCache(ctx, m.tiles, cache.Key("tile", symbol), "tile", m.cfg.Cache.TileTTL, &tile, func(ctx context.Context) (interface{}, error) {
			return m.buildTile(ctx, symbol)
		})
		if errors.Is(err, domrepo.ErrRateLimited) {
			rateLimited = true
		} else if err != nil {
			return tiles, err
		}
		tiles = append(tiles, tile)
	}

	if rateLimited {
		return tiles, domrepo.ErrRateLimited
	}
	return tiles, nil
}

// ApplyTrade folds a live stream trade into the tile cache. Tiles the
// poller has not built yet are skipped; the baseline close needed for
// the change fields is only known once a tile exists.
func (m *MarketData) ApplyTrade(ctx context.Context, trade *models.Trade) {
	key := cache.Key("tile", trade.Symbol)
	var tile models.TileQuote
	if err := m.tiles.Get(ctx, key, &tile); err != nil {
		return
	}

	prevClose := tile.Price - tile.Change
	tile.Price = synth.Round2(trade.Price)
	tile.Change = synth.Round2(trade.Price - prevClose)
	if prevClose != 0 {
		tile.ChangePercent = synth.Round2(tile.Change / prevClose * 100)
	}
	tile.At = time.Unix(trade.Timestamp, 0).UTC()

	_ = m.tiles.Set(ctx, key, tile, m.cfg.Cache.TileTTL)
}

// --- build paths ---

func (m *MarketData) buildQuote(ctx context.Context, symbol string, mock, index bool) (*models.Quote, error) {
	if mock || m.provider == nil {
		return synth.GenerateQuote(symbol, m.now()), nil
	}

	fetchSymbol := m.fetchSymbol(symbol)
	kind := "quote"
	if index {
		kind = "indexquote"
	}

	if !m.allow(fetchSymbol) {
		m.fallback(kind, symbol, "throttled")
		return synth.GenerateQuote(symbol, m.now()), nil
	}

	start := m.now()
	qd, err := m.provider.FetchQuote(ctx, fetchSymbol)
	m.metrics.RecordProviderLatency("quote", time.Since(start).Seconds())
	if err != nil {
		m.fallback(kind, symbol, reasonFor(err))
		if errors.Is(err, domrepo.ErrRateLimited) {
			return synth.GenerateQuote(symbol, m.now()), domrepo.ErrRateLimited
		}
		return synth.GenerateQuote(symbol, m.now()), nil
	}

	return &models.Quote{
		Symbol:        symbol,
		Name:          synth.DisplayName(symbol),
		Price:         qd.Price,
		Change:        qd.Change,
		ChangePercent: qd.ChangePercent,
		Currency:      "USD",
		LastUpdated:   m.now(),
	}, nil
}

func (m *MarketData) buildHistory(ctx context.Context, symbol string, rng domrepo.Range) ([]models.Candle, error) {
	if m.cfg.Mock.Stocks || m.provider == nil {
		return synth.GenerateHistory(symbol, rng, m.now()), nil
	}

	spec, ok := rng.Spec()
	if !ok {
		return nil, fmt.Errorf("unsupported range %q", rng)
	}

	fetchSymbol := m.fetchSymbol(symbol)
	if !m.allow(fetchSymbol) {
		m.fallback("history", symbol, "throttled")
		return synth.GenerateHistory(symbol, rng, m.now()), nil
	}

	to := m.now().Unix()
	from := to - int64(spec.Duration/time.Second)

	start := m.now()
	cd, err := m.provider.FetchCandles(ctx, fetchSymbol, spec.Resolution, from, to)
	m.metrics.RecordProviderLatency("candles", time.Since(start).Seconds())
	if err != nil {
		m.fallback("history", symbol, reasonFor(err))
		if errors.Is(err, domrepo.ErrRateLimited) {
			return synth.GenerateHistory(symbol, rng, m.now()), domrepo.ErrRateLimited
		}
		return synth.GenerateHistory(symbol, rng, m.now()), nil
	}

	candles := normalizeCandles(cd)
	if len(candles) == 0 {
		m.fallback("history", symbol, "empty")
		return synth.GenerateHistory(symbol, rng, m.now()), nil
	}
	return candles, nil
}

func (m *MarketData) buildTile(ctx context.Context, symbol string) (models.TileQuote, error) {
	mock := m.cfg.Mock.Stocks
	if domrepo.IsIndex(symbol) {
		mock = m.cfg.Mock.Market
	}
	if mock || m.provider == nil {
		return synth.GenerateTileQuote(symbol, m.now()), nil
	}
	q, err := m.buildQuote(ctx, symbol, false, domrepo.IsIndex(symbol))
	tile := models.TileQuote{
		Symbol:        q.Symbol,
		Name:          q.Name,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		At:            m.now(),
	}
	return tile, err
}

// --- plumbing ---

// withCache implements the per-request state machine: cache hit wins;
// on a miss, concurrent callers for the same key share one build.
func (m *MarketData) withCache(
	ctx context.Context,
	store cache.Service,
	key, kind string,
	ttl time.Duration,
	dest interface{},
	build func(ctx context.Context) (interface{}, error),
) error {
	if err := store.Get(ctx, key, dest); err == nil {
		m.metrics.RecordCacheHit(kind)
		return nil
	}
	m.metrics.RecordCacheMiss(kind)

	m.mu.Lock()
	if done, ok := m.inflight[key]; ok {
		m.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		// The builder cached its result before signalling; a miss here
		// means the entry already expired, so build uncoordinated.
		if err := store.Get(ctx, key, dest); err == nil {
			return nil
		}
		v, err := build(ctx)
		if err != nil && !errors.Is(err, domrepo.ErrRateLimited) {
			return err
		}
		_ = store.Set(ctx, key, v, ttl)
		if aerr := assignValue(dest, v); aerr != nil {
			return aerr
		}
		return err
	}

	done := make(chan struct{})
	m.inflight[key] = done
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.inflight, key)
		m.mu.Unlock()
		close(done)
	}()

	v, err := build(ctx)
	if err != nil && !errors.Is(err, domrepo.ErrRateLimited) {
		return err
	}
	_ = store.Set(ctx, key, v, ttl)
	if aerr := assignValue(dest, v); aerr != nil {
		return aerr
	}
	return err
}

func (m *MarketData) fetchSymbol(symbol string) string {
	if domrepo.IsIndex(symbol) && m.cfg.Provider.IndexMode == "etf_proxy" {
		if etf, ok := domrepo.ETFProxy(symbol); ok {
			return etf
		}
	}
	return symbol
}

func (m *MarketData) allow(symbol string) bool {
	if m.limiter == nil {
		return true
	}
	return m.limiter.Allow(symbol, m.cfg.Provider.RateLimit.Capacity, m.cfg.Provider.RateLimit.RefillPerSec)
}

func (m *MarketData) fallback(kind, symbol, reason string) {
	m.metrics.RecordFallback(kind, reason)
	if m.log != nil {
		m.log.Warn("provider fallback",
			applogger.String("kind", kind),
			applogger.String("symbol", symbol),
			applogger.String("reason", reason),
		)
	}
}

func reasonFor(err error) string {
	if errors.Is(err, domrepo.ErrRateLimited) {
		return "rate_limited"
	}
	return "unavailable"
}

func normalizeCandles(cd *domrepo.CandleData) []models.Candle {
	if cd == nil || len(cd.Times) == 0 || len(cd.Closes) != len(cd.Times) {
		return nil
	}
	candles := make([]models.Candle, len(cd.Times))
	for i, t := range cd.Times {
		c := models.Candle{
			Time:  time.Unix(t, 0).UTC(),
			Close: cd.Closes[i],
			Open:  cd.Closes[i],
			High:  cd.Closes[i],
			Low:   cd.Closes[i],
		}
		if i < len(cd.Opens) {
			c.Open = cd.Opens[i]
		}
		if i < len(cd.Highs) {
			c.High = cd.Highs[i]
		}
		if i < len(cd.Lows) {
			c.Low = cd.Lows[i]
		}
		if i < len(cd.Volumes) {
			c.Volume = int64(cd.Volumes[i])
		}
		candles[i] = c
	}
	return candles
}

// assignValue copies a built value into dest (a non-nil pointer).
func assignValue(dest, v interface{}) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("dest must be a non-nil pointer, got %T", dest)
	}
	sv := reflect.ValueOf(v)
	if !sv.IsValid() {
		dv.Elem().Set(reflect.Zero(dv.Elem().Type()))
		return nil
	}
	if !sv.Type().AssignableTo(dv.Elem().Type()) {
		return fmt.Errorf("cannot assign %T to %T", v, dest)
	}
	dv.Elem().Set(sv)
	return nil
}
