package repository

import (
	"context"
	"errors"
)

// ErrRateLimited marks a provider refusal due to quota (HTTP 429).
// The orchestrator still falls back, but the tile refresher uses it to
// switch to exponential backoff.
var ErrRateLimited = errors.New("provider: rate limited")

// QuoteData is the raw quote shape from a live provider.
type QuoteData struct {
	Price         float64
	Change        float64
	ChangePercent float64
}

// CandleData is the raw candle series shape from a live provider.
// Slices are parallel and time-ascending.
type CandleData struct {
	Times   []int64 // unix seconds
	Opens   []float64
	Highs   []float64
	Lows    []float64
	Closes  []float64
	Volumes []float64
}

// Provider is the narrow live market-data contract. Any shape mismatch
// or error is treated uniformly as "provider unavailable".
type Provider interface {
	FetchQuote(ctx context.Context, symbol string) (*QuoteData, error)
	FetchCandles(ctx context.Context, symbol, resolution string, from, to int64) (*CandleData, error)
}

// Metrics records operational signals from the data path.
type Metrics interface {
	RecordCacheHit(kind string)
	RecordCacheMiss(kind string)
	RecordFallback(kind, reason string)
	RecordProviderLatency(endpoint string, seconds float64)
	RecordTileInterval(seconds float64)
	RecordError(kind string)
}

// NopMetrics discards all recordings. Used by tests and as a default.
type NopMetrics struct{}

func (NopMetrics) RecordCacheHit(string)               {}
func (NopMetrics) RecordCacheMiss(string)              {}
func (NopMetrics) RecordFallback(string, string)       {}
func (NopMetrics) RecordProviderLatency(string, float64) {}
func (NopMetrics) RecordTileInterval(float64)          {}
func (NopMetrics) RecordError(string)                  {}
