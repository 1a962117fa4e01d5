package synth

import (
	"fmt"
	"math"
	"time"

	"MarketLens/internal/domain/models"
)

const earningsQuarters = 8

// GenerateEarnings builds a reproducible 8-quarter earnings series for
// symbol, oldest first. Quarters step back three months at a time from
// now; generation runs newest-first and the result is reversed.
func GenerateEarnings(symbol string, now time.Time) []models.EarningsQuarter {
	r := NewKeyed(symbol, "earn")

	quarters := make([]models.EarningsQuarter, 0, earningsQuarters)
	for i := 0; i < earningsQuarters; i++ {
		date := now.AddDate(0, -3*i, 0)

		estimate := Round2(r.Between(0, 3))
		actual := Round2(estimate + r.Between(-0.25, 0.25))

		report := date
		quarters = append(quarters, models.EarningsQuarter{
			Period:      fiscalPeriod(date),
			ReportDate:  &report,
			EPSEstimate: &estimate,
			EPSActual:   &actual,
			SurprisePct: SurprisePercent(&actual, &estimate),
		})
	}

	// reverse to oldest-first
	for i, j := 0, len(quarters)-1; i < j; i, j = i+1, j-1 {
		quarters[i], quarters[j] = quarters[j], quarters[i]
	}
	return quarters
}

// SurprisePercent is ((actual - estimate) / |estimate|) * 100 rounded
// to two decimals. It is nil when either value is missing or the
// estimate is exactly zero; a zero estimate must not divide.
func SurprisePercent(actual, estimate *float64) *float64 {
	if actual == nil || estimate == nil || *estimate == 0 {
		return nil
	}
	v := Round2((*actual - *estimate) / math.Abs(*estimate) * 100)
	return &v
}

// fiscalPeriod labels a date's calendar quarter, e.g. "Q2 2026".
func fiscalPeriod(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("Q%d %d", q, t.Year())
}
