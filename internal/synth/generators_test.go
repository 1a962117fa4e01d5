package synth

import (
	"reflect"
	"testing"
	"time"

	"MarketLens/internal/domain/repository"
)

var testNow = time.Date(2026, 8, 25, 15, 0, 0, 0, time.UTC)

func TestGenerateQuoteReproducible(t *testing.T) {
	a := GenerateQuote("AAPL", testNow)
	b := GenerateQuote("AAPL", testNow)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("quote generation must be deterministic per symbol")
	}
	if a.Symbol != "AAPL" || a.Name != "Apple Inc." || a.Currency != "USD" {
		t.Fatalf("unexpected identity fields: %+v", a)
	}
	// Known-symbol base of 190 with at most ±1% drift.
	if a.Price < 185 || a.Price > 195 {
		t.Fatalf("price out of expected band: %v", a.Price)
	}
	if a.Change < -2.5 || a.Change > 2.5 {
		t.Fatalf("change out of range: %v", a.Change)
	}
	if a.PERatio == nil || *a.PERatio < 10 || *a.PERatio > 45 {
		t.Fatalf("P/E out of range: %v", a.PERatio)
	}
	if a.EPSTTM == nil || *a.EPSTTM < 0 || *a.EPSTTM > 10 {
		t.Fatalf("EPS out of range: %v", a.EPSTTM)
	}
	if a.High52W == nil || a.Low52W == nil || *a.High52W < a.Price*0.99 || *a.Low52W > a.Price*1.01 {
		t.Fatalf("52-week band inconsistent: high=%v low=%v price=%v", a.High52W, a.Low52W, a.Price)
	}
}

func TestGenerateQuoteUnknownSymbolBase(t *testing.T) {
	q := GenerateQuote("ZZZT", testNow)
	// Unknown symbols derive a base in [50, 550) before the ±1% drift.
	if q.Price < 49 || q.Price > 556 {
		t.Fatalf("derived price out of band: %v", q.Price)
	}
	if q.Name != "ZZZT" {
		t.Fatalf("unknown symbol should use itself as name, got %q", q.Name)
	}
}

func TestGenerateHistoryLengthAndOrder(t *testing.T) {
	candles := GenerateHistory("AAPL", repository.Range1Y, testNow)
	if len(candles) != 365 {
		t.Fatalf("1Y at daily step must yield 365 candles, got %d", len(candles))
	}
	for i := 1; i < len(candles); i++ {
		if !candles[i].Time.After(candles[i-1].Time) {
			t.Fatalf("candles must be strictly time-ascending at %d", i)
		}
	}
	if !candles[len(candles)-1].Time.Equal(testNow) {
		t.Fatalf("newest candle should land on now, got %v", candles[len(candles)-1].Time)
	}
}

func TestGenerateHistoryOHLCInvariant(t *testing.T) {
	for _, rng := range []repository.Range{
		repository.Range1D, repository.Range5D, repository.Range1M,
		repository.Range3M, repository.Range6M, repository.Range1Y,
		repository.Range2Y, repository.Range5Y,
	} {
		candles := GenerateHistory("MSFT", rng, testNow)
		if len(candles) < 10 {
			t.Fatalf("%s: fewer than 10 candles (%d)", rng, len(candles))
		}
		for i, c := range candles {
			maxOC := c.Open
			if c.Close > maxOC {
				maxOC = c.Close
			}
			minOC := c.Open
			if c.Close < minOC {
				minOC = c.Close
			}
			if c.High < maxOC {
				t.Fatalf("%s candle %d: high %v < max(open,close) %v", rng, i, c.High, maxOC)
			}
			if c.Low > minOC {
				t.Fatalf("%s candle %d: low %v > min(open,close) %v", rng, i, c.Low, minOC)
			}
			if c.Volume < 1000 || c.Volume > 1_001_000 {
				t.Fatalf("%s candle %d: volume out of range %d", rng, i, c.Volume)
			}
		}
	}
}

func TestGenerateHistoryReproducible(t *testing.T) {
	a := GenerateHistory("AAPL", repository.Range1Y, testNow)
	b := GenerateHistory("AAPL", repository.Range1Y, testNow)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("history generation must be deterministic per symbol+range")
	}
	c := GenerateHistory("AAPL", repository.Range6M, testNow)
	same := true
	for i := 0; i < 10; i++ {
		if a[i].Close != c[i].Close {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different ranges should use independent streams")
	}
}

func TestGenerateEarnings(t *testing.T) {
	quarters := GenerateEarnings("AAPL", testNow)
	if len(quarters) != 8 {
		t.Fatalf("expected exactly 8 quarters, got %d", len(quarters))
	}
	for i := 1; i < len(quarters); i++ {
		if quarters[i].ReportDate.Before(*quarters[i-1].ReportDate) {
			t.Fatalf("quarters must be ordered oldest-first at %d", i)
		}
	}
	for i, q := range quarters {
		if q.EPSEstimate == nil || *q.EPSEstimate < 0 || *q.EPSEstimate > 3 {
			t.Fatalf("quarter %d estimate out of range: %v", i, q.EPSEstimate)
		}
		if q.EPSActual == nil {
			t.Fatalf("quarter %d missing actual", i)
		}
		diff := *q.EPSActual - *q.EPSEstimate
		if diff < -0.26 || diff > 0.26 {
			t.Fatalf("quarter %d actual drifted too far: %v", i, diff)
		}
	}
}

func TestSurprisePercentEdgeCases(t *testing.T) {
	v := 1.5
	zero := 0.0
	if SurprisePercent(&v, nil) != nil {
		t.Fatalf("nil estimate must yield nil")
	}
	if SurprisePercent(nil, &v) != nil {
		t.Fatalf("nil actual must yield nil")
	}
	if SurprisePercent(&v, &zero) != nil {
		t.Fatalf("zero estimate must yield nil, not divide")
	}

	actual, estimate := 2.2, 2.0
	got := SurprisePercent(&actual, &estimate)
	if got == nil || *got != 10.0 {
		t.Fatalf("expected 10.00 surprise, got %v", got)
	}

	actual, estimate = 1.8, -2.0
	got = SurprisePercent(&actual, &estimate)
	if got == nil || *got != 190.0 {
		t.Fatalf("expected 190.00 surprise with negative estimate, got %v", got)
	}
}

func TestGenerateNews(t *testing.T) {
	items := GenerateNews("AAPL", 0, testNow)
	if len(items) != DefaultNewsLimit {
		t.Fatalf("limit 0 should fall back to default of %d, got %d", DefaultNewsLimit, len(items))
	}

	items = GenerateNews("AAPL", 7, testNow)
	if len(items) != 7 {
		t.Fatalf("expected 7 items, got %d", len(items))
	}
	for i, it := range items {
		if it.ID == "" || it.Source == "" || it.Headline == "" || it.URL == "" {
			t.Fatalf("item %d has empty fields: %+v", i, it)
		}
		if it.PublishedAt.After(testNow) {
			t.Fatalf("item %d published in the future", i)
		}
	}

	again := GenerateNews("AAPL", 7, testNow)
	if !reflect.DeepEqual(items, again) {
		t.Fatalf("news generation must be deterministic per symbol")
	}
}
