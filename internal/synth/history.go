package synth

import (
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/domain/repository"
)

// GenerateHistory builds a reproducible candle series for symbol over
// rng, oldest first. The stream is seeded with "<symbol>|<range>", so
// each range is an independent walk. Timestamps are spaced backward
// from now at the range's step.
func GenerateHistory(symbol string, rng repository.Range, now time.Time) []models.Candle {
	spec, ok := rng.Spec()
	if !ok {
		return nil
	}
	n := rng.Points()

	r := NewKeyed(symbol, string(rng))
	prevClose := BasePrice(symbol, r) * (1 + r.Between(-0.01, 0.01))

	candles := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		open := prevClose * (1 + r.Between(-0.001, 0.001))
		close := open * (1 + r.Between(-0.005, 0.005))

		hi := open
		if close > hi {
			hi = close
		}
		lo := open
		if close < lo {
			lo = close
		}
		high := hi * (1 + r.Between(0.001, 0.002))
		low := lo * (1 - r.Between(0.001, 0.002))

		volume := int64(1000 + r.Float64()*1_000_000)

		candles[i] = models.Candle{
			Time:   now.Add(-time.Duration(n-1-i) * spec.Step),
			Open:   Round2(open),
			High:   Round2(high),
			Low:    Round2(low),
			Close:  Round2(close),
			Volume: volume,
		}
		prevClose = close
	}
	return candles
}
