// Package sim runs the per-date ORB breakout simulation: an event loop over
// the trading-window candles that triggers breakout entries, manages up to
// three pyramided steps per direction, and applies stop/target/time exits.
package sim

import (
	"time"

	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/orb"
	"github.com/rustyeddy/orb/risk"
)

// TrendFilter suppresses breakout entries relative to the day trend.
type TrendFilter string

const (
	FilterNone    TrendFilter = ""
	FilterWith    TrendFilter = "with"
	FilterAgainst TrendFilter = "against"
)

func (f TrendFilter) allows(dir Direction, t orb.Trend) bool {
	switch f {
	case FilterWith:
		return (dir == Long && t == orb.TrendUp) || (dir == Short && t == orb.TrendDown)
	case FilterAgainst:
		return (dir == Long && t == orb.TrendDown) || (dir == Short && t == orb.TrendUp)
	}
	return true
}

// Settings are the simulator tunables. Zero values get defaults in NewEngine.
type Settings struct {
	Policy      risk.Policy
	TrendFilter TrendFilter

	MaxBreakouts   int
	EndOfDayHour   int
	MorningOnly    bool
	MorningEndHour int

	// Location is the exchange time zone used for hour checks.
	Location *time.Location
}

// Day is one date's simulation input: its opening-range levels, trend label,
// leverage tier, and the trading-window candles in chronological order.
type Day struct {
	Date     market.Date
	Range    orb.Range
	Trend    orb.Trend
	Leverage float64
	Candles  []market.Candle
}

// DayResult aggregates one simulated date. Immutable after creation.
type DayResult struct {
	Date      market.Date
	Trades    []*Trade
	Wins      int
	Losses    int
	PnL       float64
	Direction string // LONG, SHORT, MIXED or NO TRADE
	Breakouts int
	Range     orb.Range
	Trend     orb.Trend
	Leverage  float64
}

type Engine struct {
	cfg Settings
}

func NewEngine(cfg Settings) *Engine {
	if cfg.MaxBreakouts == 0 {
		cfg.MaxBreakouts = 3
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Engine{cfg: cfg}
}

// dayState is the per-date state machine: an active direction (or none), the
// trade ledger, and the two armed pyramid slots (steps 2 and 3).
type dayState struct {
	trades       []*Trade
	pending      [2]*PendingEntry
	direction    Direction
	breakouts    int
	hasOpen      bool
	priceInside  bool
	lastBreakout time.Time
}

// RunDay consumes the trading-window candles in order and produces the day
// summary. It is deterministic: identical input yields an identical result.
func (e *Engine) RunDay(day Day) DayResult {
	st := dayState{priceInside: true}

	var baseQty float64
	if len(day.Candles) > 0 {
		baseQty = risk.BaseQuantity(e.cfg.Policy.BaseCapital, day.Leverage, day.Candles[0].Close)
	}

	for _, c := range day.Candles {
		hour := c.Time.In(e.cfg.Location).Hour()

		// Price must round-trip back inside the range before a fresh
		// breakout counts. Only tracked while flat.
		if !st.hasOpen && day.Range.Contains(c.Close) {
			st.priceInside = true
		}

		if hour == e.cfg.EndOfDayHour {
			closeAll(st.trades, c.Close, c.Time, ExitEndOfDay)
			break
		}
		if e.cfg.MorningOnly && hour >= e.cfg.MorningEndHour {
			closeAll(st.trades, c.Close, c.Time, ExitSessionEnd)
			break
		}

		for _, t := range st.trades {
			evaluateExit(t, c)
		}

		// Book just went flat: discard pending steps, release the
		// direction lock, and bar re-entry on this same candle.
		if st.hasOpen && countOpen(st.trades) == 0 {
			st.hasOpen = false
			st.pending = [2]*PendingEntry{}
			st.direction = None
			st.lastBreakout = c.Time
		}

		if !st.hasOpen && st.breakouts < e.cfg.MaxBreakouts &&
			!c.Time.Equal(st.lastBreakout) && st.priceInside {
			// Close-based triggers cannot satisfy both branches on one
			// candle, so a single episode per candle is structural.
			switch {
			case c.Close > day.Range.High && e.cfg.TrendFilter.allows(Long, day.Trend):
				e.openBreakout(&st, day, Long, c, baseQty)
			case c.Close < day.Range.Low && e.cfg.TrendFilter.allows(Short, day.Trend):
				e.openBreakout(&st, day, Short, c, baseQty)
			}
		}

		for i, pe := range st.pending {
			if pe == nil {
				continue
			}
			triggered := (st.direction == Long && c.High >= pe.Trigger) ||
				(st.direction == Short && c.Low <= pe.Trigger)
			if !triggered {
				continue
			}
			st.trades = append(st.trades, &Trade{
				Direction:  st.direction,
				Step:       pe.Step,
				EntryPrice: pe.Trigger,
				Quantity:   pe.Quantity,
				StopLoss:   pe.StopLoss,
				TakeProfit: pe.TakeProfit,
				EntryTime:  c.Time,
				Open:       true,
			})
			st.pending[i] = nil
		}

		st.hasOpen = countOpen(st.trades) > 0
	}

	return e.summarize(day, &st)
}

// Stop/target ladder, in range widths beyond the broken edge.
const (
	step1TargetWidths = 5
	step2EntryWidths  = 1
	step2TargetWidths = 4
	step3EntryWidths  = 3
	step3StopWidths   = 2
	step3TargetWidths = 3
)

func (e *Engine) openBreakout(st *dayState, day Day, dir Direction, c market.Candle, baseQty float64) {
	st.direction = dir
	st.breakouts++
	st.hasOpen = true
	st.lastBreakout = c.Time
	st.priceInside = false

	aligned := (dir == Long && day.Trend == orb.TrendUp) ||
		(dir == Short && day.Trend == orb.TrendDown)
	qty := e.cfg.Policy.StepQuantities(baseQty, aligned)

	r := day.Range
	sign := float64(dir)
	edge := r.High
	if dir == Short {
		edge = r.Low
	}

	// Step 1 fills at market on the breakout candle's close.
	st.trades = append(st.trades, &Trade{
		Direction:  dir,
		Step:       1,
		EntryPrice: c.Close,
		Quantity:   qty[0],
		StopLoss:   r.Mid,
		TakeProfit: edge + sign*step1TargetWidths*r.Width,
		EntryTime:  c.Time,
		Open:       true,
	})

	entry2 := edge + sign*step2EntryWidths*r.Width
	st.pending[0] = &PendingEntry{
		Step:       2,
		Trigger:    entry2,
		StopLoss:   edge,
		TakeProfit: entry2 + sign*step2TargetWidths*r.Width,
		Quantity:   qty[1],
	}

	entry3 := edge + sign*step3EntryWidths*r.Width
	st.pending[1] = &PendingEntry{
		Step:       3,
		Trigger:    entry3,
		StopLoss:   edge + sign*step3StopWidths*r.Width,
		TakeProfit: entry3 + sign*step3TargetWidths*r.Width,
		Quantity:   qty[2],
	}
}

// evaluateExit models stop/target hits within one candle. If the candle's
// range spans both levels the stop wins: worst case for the trader.
func evaluateExit(t *Trade, c market.Candle) {
	if !t.Open {
		return
	}
	switch t.Direction {
	case Long:
		if c.Low <= t.StopLoss {
			t.Close(t.StopLoss, c.Time, ExitStopLoss)
		} else if c.High >= t.TakeProfit {
			t.Close(t.TakeProfit, c.Time, ExitTakeProfit)
		}
	case Short:
		if c.High >= t.StopLoss {
			t.Close(t.StopLoss, c.Time, ExitStopLoss)
		} else if c.Low <= t.TakeProfit {
			t.Close(t.TakeProfit, c.Time, ExitTakeProfit)
		}
	}
}

func closeAll(trades []*Trade, price float64, at time.Time, reason ExitReason) {
	for _, t := range trades {
		t.Close(price, at, reason)
	}
}

func countOpen(trades []*Trade) int {
	n := 0
	for _, t := range trades {
		if t.Open {
			n++
		}
	}
	return n
}

func (e *Engine) summarize(day Day, st *dayState) DayResult {
	res := DayResult{
		Date:      day.Date,
		Trades:    st.trades,
		Breakouts: st.breakouts,
		Range:     day.Range,
		Trend:     day.Trend,
		Leverage:  day.Leverage,
	}

	for _, t := range st.trades {
		res.PnL += t.RealizedPnL
		if t.RealizedPnL > 0 {
			res.Wins++
		} else if t.RealizedPnL < 0 {
			res.Losses++
		}
	}

	switch {
	case st.direction != None:
		res.Direction = st.direction.String()
	case st.breakouts > 0:
		res.Direction = "MIXED"
	default:
		res.Direction = "NO TRADE"
	}
	return res
}
