// Package backtest drives the day simulator across a historical candle span:
// it orders dates, carries the previous range midpoint (trend) and the
// previous day's PnL (adaptive leverage) forward, applies the range-width
// filter, and records skipped dates without aborting the run.
package backtest

import (
	"fmt"

	"github.com/rustyeddy/orb/journal"
	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/orb"
	"github.com/rustyeddy/orb/pkg/id"
	"github.com/rustyeddy/orb/risk"
	"github.com/rustyeddy/orb/sim"
)

type SkipReason string

const (
	SkipNoRange     SkipReason = "NO_RANGE_DATA"
	SkipRangeFilter SkipReason = "RANGE_FILTER"
	SkipNoCandles   SkipReason = "NO_TRADING_CANDLES"
)

// Skip records a date excluded from simulation and why.
type Skip struct {
	Date       market.Date
	Reason     SkipReason
	RangeWidth float64 // set for RANGE_FILTER skips
}

// LeverageChoice records the tier used on a traded date.
type LeverageChoice struct {
	Date     market.Date
	Leverage float64
	Reason   string
}

// Runner wires the classifier, simulator and sizing policy together.
// Journal is optional; a nil journal disables persistence.
type Runner struct {
	Symbol  string
	Session *market.Session
	Engine  *sim.Engine
	Policy  risk.Policy

	MinRange float64
	MaxRange float64 // 0 means unlimited

	Journal journal.Journal
}

// Run processes every date covered by the candles in chronological order.
// The first date only seeds the previous range midpoint and is not traded.
func (r *Runner) Run(candles []market.Candle) (Result, error) {
	if r.Session == nil {
		return Result{}, fmt.Errorf("backtest: Session is required")
	}
	if r.Engine == nil {
		return Result{}, fmt.Errorf("backtest: Engine is required")
	}

	var res Result

	var prevMid float64
	hasPrevMid := false
	var prevPnL float64
	hasPrevPnL := false

	dates := r.Session.Dates(candles)
	for i, d := range dates {
		rng, ok := orb.FromCandles(r.Session.RangeCandles(candles, d))
		if !ok {
			res.Skips = append(res.Skips, Skip{Date: d, Reason: SkipNoRange})
			// No range today: the next date has nothing to compare
			// against and classifies NEUTRAL.
			hasPrevMid = false
			continue
		}

		// First date only establishes the trend baseline.
		if i == 0 {
			prevMid, hasPrevMid = rng.Mid, true
			continue
		}

		trend := orb.ClassifyTrend(rng.Mid, prevMid, hasPrevMid)

		if rng.Width < r.MinRange || (r.MaxRange > 0 && rng.Width > r.MaxRange) {
			res.Skips = append(res.Skips, Skip{Date: d, Reason: SkipRangeFilter, RangeWidth: rng.Width})
			prevMid, hasPrevMid = rng.Mid, true
			continue
		}

		trading := r.Session.TradingCandles(candles, d)
		if len(trading) == 0 {
			res.Skips = append(res.Skips, Skip{Date: d, Reason: SkipNoCandles})
			prevMid, hasPrevMid = rng.Mid, true
			continue
		}

		lev := r.Policy.LeverageFor(prevPnL, hasPrevPnL)
		res.Leverage = append(res.Leverage, LeverageChoice{
			Date:     d,
			Leverage: lev,
			Reason:   leverageReason(r.Policy, lev, prevPnL, hasPrevPnL),
		})

		day := r.Engine.RunDay(sim.Day{
			Date:     d,
			Range:    rng,
			Trend:    trend,
			Leverage: lev,
			Candles:  trading,
		})
		res.Days = append(res.Days, day)

		if r.Journal != nil {
			if err := r.record(day); err != nil {
				return res, fmt.Errorf("journal: %w", err)
			}
		}

		prevPnL, hasPrevPnL = day.PnL, true
		prevMid, hasPrevMid = rng.Mid, true
	}

	return res, nil
}

func leverageReason(p risk.Policy, lev, prevPnL float64, hasPrev bool) string {
	if !p.Adaptive || !hasPrev || lev == p.StandardLeverage {
		return "default"
	}
	return fmt.Sprintf("previous day loss (%.2f)", prevPnL)
}

func (r *Runner) record(day sim.DayResult) error {
	for _, t := range day.Trades {
		status := "CLOSED"
		if t.Open {
			status = "OPEN"
		}
		rec := journal.TradeRecord{
			TradeID:     id.New(),
			Symbol:      r.Symbol,
			Date:        day.Date.String(),
			Direction:   t.Direction.String(),
			Step:        t.Step,
			Quantity:    t.Quantity,
			EntryPrice:  t.EntryPrice,
			ExitPrice:   t.ExitPrice,
			EntryTime:   t.EntryTime,
			ExitTime:    t.ExitTime,
			RealizedPnL: t.RealizedPnL,
			Status:      status,
			Reason:      string(t.ExitReason),
		}
		if err := r.Journal.RecordTrade(rec); err != nil {
			return err
		}
	}

	return r.Journal.RecordDay(journal.DayRecord{
		Date:       day.Date.String(),
		Symbol:     r.Symbol,
		Trend:      string(day.Trend),
		Direction:  day.Direction,
		Leverage:   day.Leverage,
		Trades:     len(day.Trades),
		Wins:       day.Wins,
		Losses:     day.Losses,
		PnL:        day.PnL,
		RangeHigh:  day.Range.High,
		RangeLow:   day.Range.Low,
		RangeWidth: day.Range.Width,
		Breakouts:  day.Breakouts,
	})
}
