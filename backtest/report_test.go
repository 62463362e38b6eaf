package backtest

import (
	"bytes"
	"testing"
	"time"

	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/orb"
	"github.com/rustyeddy/orb/risk"
	"github.com/rustyeddy/orb/sim"
	"github.com/stretchr/testify/assert"
)

func sampleResult() Result {
	entry := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	d := day(-98.04, "LONG", orb.TrendUp, &sim.Trade{
		Direction:   sim.Long,
		Step:        1,
		EntryPrice:  102,
		Quantity:    49.02,
		StopLoss:    100,
		TakeProfit:  111,
		EntryTime:   entry,
		ExitPrice:   100,
		ExitTime:    entry.Add(10 * time.Minute),
		ExitReason:  sim.ExitStopLoss,
		RealizedPnL: -98.04,
	})
	d.Date = market.Date{Year: 2025, Month: time.June, Day: 10}
	d.Range = orb.Range{High: 101, Low: 99, Mid: 100, Width: 2}
	d.Breakouts = 1
	d.Leverage = 10

	return Result{
		Days: []sim.DayResult{d},
		Skips: []Skip{
			{Date: market.Date{Year: 2025, Month: time.June, Day: 11}, Reason: SkipNoRange},
			{Date: market.Date{Year: 2025, Month: time.June, Day: 12}, Reason: SkipRangeFilter, RangeWidth: 0.5},
		},
		Leverage: []LeverageChoice{
			{Date: market.Date{Year: 2025, Month: time.June, Day: 10}, Leverage: 10, Reason: "default"},
		},
	}
}

func TestPrintReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintReport(&buf, sampleResult(), risk.DefaultPolicy())
	out := buf.String()

	assert.Contains(t, out, "DAILY RESULTS")
	assert.Contains(t, out, "2025-06-10")
	assert.Contains(t, out, "Total Trades:  1")
	assert.Contains(t, out, "Stop Loss:     1")
	assert.Contains(t, out, "NO_RANGE_DATA")
	assert.Contains(t, out, "RANGE_FILTER (width $0.50)")
	assert.NotContains(t, out, "Adaptive Leverage", "leverage block only in adaptive mode")
}

func TestPrintReportAdaptiveShowsLeverage(t *testing.T) {
	t.Parallel()

	p := risk.DefaultPolicy()
	p.Adaptive = true

	var buf bytes.Buffer
	PrintReport(&buf, sampleResult(), p)
	out := buf.String()

	assert.Contains(t, out, "Lev")
	assert.Contains(t, out, "10x")
	assert.Contains(t, out, "Adaptive Leverage")
}

func TestPrintTrace(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintTrace(&buf, sampleResult(), market.Date{Year: 2025, Month: time.June, Day: 10})
	out := buf.String()

	assert.Contains(t, out, "TRADE TRACE FOR 2025-06-10")
	assert.Contains(t, out, "Range Width: $2.00")
	assert.Contains(t, out, "STOP_LOSS")
	assert.Contains(t, out, "$-98.04")
}

func TestPrintTraceUnknownDate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintTrace(&buf, sampleResult(), market.Date{Year: 2025, Month: time.June, Day: 20})

	assert.Contains(t, buf.String(), "No results for 2025-06-20")
}
