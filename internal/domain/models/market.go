package models

import "time"

// Quote is a point-in-time snapshot for one symbol. Callers receive a
// fresh snapshot on every cache miss; returned values are not mutated.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Currency      string    `json:"currency"`
	MarketCap     *int64    `json:"marketCap,omitempty"`
	PERatio       *float64  `json:"peRatio,omitempty"`
	EPSTTM        *float64  `json:"epsTTM,omitempty"`
	DividendYield *float64  `json:"dividendYield,omitempty"`
	High52W       *float64  `json:"high52w,omitempty"`
	Low52W        *float64  `json:"low52w,omitempty"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// Candle is one OHLCV bar. Invariant: High >= max(Open, Close) and
// Low <= min(Open, Close).
type Candle struct {
	Time   time.Time `json:"t"`
	Open   float64   `json:"o"`
	High   float64   `json:"h"`
	Low    float64   `json:"l"`
	Close  float64   `json:"c"`
	Volume int64     `json:"v,omitempty"`
}

// EarningsQuarter is one fiscal quarter of an earnings series.
type EarningsQuarter struct {
	Period      string     `json:"period"`
	ReportDate  *time.Time `json:"reportDate,omitempty"`
	EPSEstimate *float64   `json:"epsEstimate,omitempty"`
	EPSActual   *float64   `json:"epsActual,omitempty"`
	SurprisePct *float64   `json:"surprisePercent,omitempty"`
}

// NewsItem is a single headline for a symbol.
type NewsItem struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Headline    string    `json:"headline"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	Summary     string    `json:"summary,omitempty"`
}

// StockOverview composes the four per-symbol series at read time.
// It is never stored; each part is cached independently.
type StockOverview struct {
	Symbol   string            `json:"symbol"`
	Range    string            `json:"range"`
	Quote    *Quote            `json:"quote"`
	History  []Candle          `json:"history"`
	Earnings []EarningsQuarter `json:"earnings"`
	News     []NewsItem        `json:"news"`
}

// TileQuote is the small payload the realtime summary tiles poll for.
type TileQuote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	At            time.Time `json:"at"`
}

// Trade is one live trade from the provider stream.
type Trade struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp int64 // unix seconds
}
