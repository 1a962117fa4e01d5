package repository

import "time"

// Range is a requested history window.
type Range string

const (
	Range1D Range = "1D"
	Range5D Range = "5D"
	Range1M Range = "1M"
	Range3M Range = "3M"
	Range6M Range = "6M"
	Range1Y Range = "1Y"
	Range2Y Range = "2Y"
	Range5Y Range = "5Y"
)

// RangeSpec maps a range to a wall-clock duration, a candle step and the
// provider resolution string for that step.
type RangeSpec struct {
	Duration   time.Duration
	Step       time.Duration
	Resolution string
}

var rangeSpecs = map[Range]RangeSpec{
	Range1D: {Duration: 24 * time.Hour, Step: 5 * time.Minute, Resolution: "5"},
	Range5D: {Duration: 5 * 24 * time.Hour, Step: 30 * time.Minute, Resolution: "30"},
	Range1M: {Duration: 30 * 24 * time.Hour, Step: time.Hour, Resolution: "60"},
	Range3M: {Duration: 90 * 24 * time.Hour, Step: 24 * time.Hour, Resolution: "D"},
	Range6M: {Duration: 180 * 24 * time.Hour, Step: 24 * time.Hour, Resolution: "D"},
	Range1Y: {Duration: 365 * 24 * time.Hour, Step: 24 * time.Hour, Resolution: "D"},
	Range2Y: {Duration: 730 * 24 * time.Hour, Step: 7 * 24 * time.Hour, Resolution: "W"},
	Range5Y: {Duration: 1825 * 24 * time.Hour, Step: 7 * 24 * time.Hour, Resolution: "W"},
}

// Spec returns the mapping for r.
func (r Range) Spec() (RangeSpec, bool) {
	s, ok := rangeSpecs[r]
	return s, ok
}

// Points is the candle count for r: max(10, ceil(duration/step)).
func (r Range) Points() int {
	s, ok := rangeSpecs[r]
	if !ok {
		return 0
	}
	n := int((s.Duration + s.Step - 1) / s.Step)
	if n < 10 {
		n = 10
	}
	return n
}

// IsValidRange returns true if r is a supported range.
func IsValidRange(r Range) bool {
	_, ok := rangeSpecs[r]
	return ok
}

// DefaultRange returns the default history range.
func DefaultRange() Range { return Range1Y }

// NormalizeRange converts a raw string to a valid range (or default).
func NormalizeRange(s string) Range {
	if s == "" {
		return DefaultRange()
	}
	r := Range(s)
	if IsValidRange(r) {
		return r
	}
	return DefaultRange()
}
