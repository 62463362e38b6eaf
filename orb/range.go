// Package orb derives opening-range levels and the day trend from candles.
package orb

import (
	"github.com/rustyeddy/orb/market"
)

// MinRangeCandles is the minimum number of opening-range candles required
// before a date is considered tradable. Dates with fewer are skipped.
const MinRangeCandles = 6

// Range holds the opening-range levels for one date. Immutable after creation.
type Range struct {
	High  float64
	Low   float64
	Mid   float64
	Width float64
}

// FromCandles reduces the opening-range candles of one date to its levels.
// ok is false when there is not enough data to establish a range.
func FromCandles(candles []market.Candle) (Range, bool) {
	if len(candles) < MinRangeCandles {
		return Range{}, false
	}

	high := candles[0].High
	low := candles[0].Low
	for _, c := range candles[1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}

	return Range{
		High:  high,
		Low:   low,
		Mid:   (high + low) / 2,
		Width: high - low,
	}, true
}

// Contains reports whether a price lies inside the range band, inclusive.
func (r Range) Contains(price float64) bool {
	return price >= r.Low && price <= r.High
}
