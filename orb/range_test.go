package orb

import (
	"testing"
	"time"

	"github.com/rustyeddy/orb/market"
	"github.com/stretchr/testify/assert"
)

func rangeCandle(i int, high, low float64) market.Candle {
	return market.Candle{
		Time: time.Date(2025, 6, 10, 5, 30+5*i, 0, 0, time.UTC),
		Open: (high + low) / 2,
		High: high,
		Low:  low,
		Close: (high + low) / 2,
	}
}

func TestFromCandles(t *testing.T) {
	t.Parallel()

	candles := []market.Candle{
		rangeCandle(0, 100.5, 99.5),
		rangeCandle(1, 100.8, 99.7),
		rangeCandle(2, 101.0, 99.9), // day high
		rangeCandle(3, 100.6, 99.0), // day low
		rangeCandle(4, 100.4, 99.3),
		rangeCandle(5, 100.2, 99.6),
	}

	r, ok := FromCandles(candles)
	assert.True(t, ok)
	assert.Equal(t, 101.0, r.High)
	assert.Equal(t, 99.0, r.Low)
	assert.Equal(t, 100.0, r.Mid)
	assert.Equal(t, 2.0, r.Width)
}

func TestFromCandlesTooFew(t *testing.T) {
	t.Parallel()

	candles := []market.Candle{
		rangeCandle(0, 100.5, 99.5),
		rangeCandle(1, 100.8, 99.7),
		rangeCandle(2, 101.0, 99.9),
		rangeCandle(3, 100.6, 99.0),
		rangeCandle(4, 100.4, 99.3),
	}

	_, ok := FromCandles(candles)
	assert.False(t, ok, "five candles must not establish a range")

	_, ok = FromCandles(nil)
	assert.False(t, ok)
}

func TestRangeContains(t *testing.T) {
	t.Parallel()

	r := Range{High: 101, Low: 99, Mid: 100, Width: 2}

	assert.True(t, r.Contains(100))
	assert.True(t, r.Contains(99), "boundary is inclusive")
	assert.True(t, r.Contains(101), "boundary is inclusive")
	assert.False(t, r.Contains(98.99))
	assert.False(t, r.Contains(101.01))
}
