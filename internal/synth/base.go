package synth

import (
	"math"

	"MarketLens/internal/domain/repository"
)

// Base prices for well-known symbols keep synthetic data in a familiar
// ballpark. Unknown symbols get a seed-derived base in [50, 550).
var basePrices = map[string]float64{
	"AAPL":  190,
	"MSFT":  420,
	"GOOGL": 165,
	"AMZN":  180,
	"NVDA":  875,
	"META":  500,
	"TSLA":  250,
	"SPY":   520,
	"QQQ":   445,
	"DIA":   390,
	"IWM":   205,
	"^GSPC": 5200,
	"^IXIC": 16300,
	"^DJI":  39100,
	"^RUT":  2050,
}

var displayNames = map[string]string{
	"AAPL":  "Apple Inc.",
	"MSFT":  "Microsoft Corporation",
	"GOOGL": "Alphabet Inc.",
	"AMZN":  "Amazon.com, Inc.",
	"NVDA":  "NVIDIA Corporation",
	"META":  "Meta Platforms, Inc.",
	"TSLA":  "Tesla, Inc.",
	"SPY":   "SPDR S&P 500 ETF Trust",
	"QQQ":   "Invesco QQQ Trust",
	"DIA":   "SPDR Dow Jones Industrial Average ETF",
	"IWM":   "iShares Russell 2000 ETF",
}

// BasePrice returns the anchor price for symbol, drawing one value from
// r for unknown symbols.
func BasePrice(symbol string, r *Rand) float64 {
	if p, ok := basePrices[symbol]; ok {
		return p
	}
	return r.Between(50, 550)
}

// DisplayName returns a human-readable name for symbol.
func DisplayName(symbol string) string {
	if n, ok := displayNames[symbol]; ok {
		return n
	}
	if repository.IsIndex(symbol) {
		return repository.IndexName(symbol)
	}
	return symbol
}

// Round2 rounds to two decimals, the precision used for all synthetic
// price fields.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
