package synth

import (
	"time"

	"MarketLens/internal/domain/models"
)

// GenerateQuote builds a reproducible quote snapshot for symbol.
// The stream is seeded with "<symbol>|quote", so repeated calls with
// the same symbol yield the same numbers regardless of when they run.
func GenerateQuote(symbol string, now time.Time) *models.Quote {
	r := NewKeyed(symbol, "quote")

	base := BasePrice(symbol, r)
	price := base * (1 + r.Between(-0.01, 0.01))
	change := r.Between(-2.5, 2.5)

	prev := price - change
	var changePct float64
	if prev != 0 {
		changePct = change / prev * 100
	}

	marketCap := int64(price * r.Between(50e6, 5e9))
	pe := Round2(r.Between(10, 45))
	eps := Round2(r.Between(0, 10))

	var divYield *float64
	if r.Float64() < 0.30 {
		v := Round2(r.Between(0, 5))
		divYield = &v
	}

	high52 := Round2(price * (1 + 0.30*r.Float64()))
	low52 := Round2(price * (1 - 0.30*r.Float64()))

	return &models.Quote{
		Symbol:        symbol,
		Name:          DisplayName(symbol),
		Price:         Round2(price),
		Change:        Round2(change),
		ChangePercent: Round2(changePct),
		Currency:      "USD",
		MarketCap:     &marketCap,
		PERatio:       &pe,
		EPSTTM:        &eps,
		DividendYield: divYield,
		High52W:       &high52,
		Low52W:        &low52,
		LastUpdated:   now,
	}
}

// GenerateTileQuote derives the small tile payload from the quote
// stream without materializing fundamentals.
func GenerateTileQuote(symbol string, now time.Time) models.TileQuote {
	q := GenerateQuote(symbol, now)
	return models.TileQuote{
		Symbol:        q.Symbol,
		Name:          q.Name,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		At:            now,
	}
}
