package sim

import (
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/orb"
	"github.com/rustyeddy/orb/risk"
)

var testRange = orb.Range{High: 101, Low: 99, Mid: 100, Width: 2}

func testDate() market.Date {
	return market.Date{Year: 2025, Month: time.June, Day: 10}
}

// candle builds a trading-window candle on the test date at hour:min UTC.
func candle(hour, min int, o, h, l, c float64) market.Candle {
	return market.Candle{
		Time:  time.Date(2025, 6, 10, hour, min, 0, 0, time.UTC),
		Open:  o,
		High:  h,
		Low:   l,
		Close: c,
	}
}

// nextDayCandle is a candle on the following calendar date, used to exercise
// the end-of-day exit.
func nextDayCandle(hour, min int, o, h, l, c float64) market.Candle {
	return market.Candle{
		Time:  time.Date(2025, 6, 11, hour, min, 0, 0, time.UTC),
		Open:  o,
		High:  h,
		Low:   l,
		Close: c,
	}
}

func testEngine() *Engine {
	p := risk.DefaultPolicy()
	p.AlignedProportions = [3]float64{0.5, 0.3, 0.2}
	p.OpposedProportions = [3]float64{0.5, 0.3, 0.2}
	return NewEngine(Settings{
		Policy:       p,
		EndOfDayHour: 5,
	})
}

func runDay(e *Engine, trend orb.Trend, candles ...market.Candle) DayResult {
	return e.RunDay(Day{
		Date:     testDate(),
		Range:    testRange,
		Trend:    trend,
		Leverage: 10,
		Candles:  candles,
	})
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestLongBreakoutPyramidStopsOut(t *testing.T) {
	t.Parallel()

	e := testEngine()
	res := runDay(e, orb.TrendUp,
		candle(9, 0, 101.5, 102.2, 101.2, 102),   // close above high: LONG step 1 at 102
		candle(9, 5, 102, 103, 101.8, 102.5),     // high 103 fills step 2 at 103
		candle(9, 10, 102, 102.3, 100, 100.5),    // low 100 stops both
	)

	if len(res.Trades) != 2 {
		t.Fatalf("trades: got %d want 2", len(res.Trades))
	}

	baseQty := risk.BaseQuantity(1000, 10, 102)

	s1 := res.Trades[0]
	if s1.Direction != Long || s1.Step != 1 {
		t.Fatalf("step1: got %s step %d", s1.Direction, s1.Step)
	}
	if s1.EntryPrice != 102 || s1.StopLoss != 100 || s1.TakeProfit != 111 {
		t.Fatalf("step1 levels: entry %.2f stop %.2f target %.2f", s1.EntryPrice, s1.StopLoss, s1.TakeProfit)
	}
	if s1.Open || s1.ExitReason != ExitStopLoss || s1.ExitPrice != 100 {
		t.Fatalf("step1 exit: open=%v reason=%s price=%.2f", s1.Open, s1.ExitReason, s1.ExitPrice)
	}
	if want := (100.0 - 102.0) * baseQty * 0.5; !approx(s1.RealizedPnL, want) {
		t.Fatalf("step1 pnl: got %.6f want %.6f", s1.RealizedPnL, want)
	}

	s2 := res.Trades[1]
	if s2.Step != 2 || s2.EntryPrice != 103 || s2.StopLoss != 101 || s2.TakeProfit != 111 {
		t.Fatalf("step2 levels: entry %.2f stop %.2f target %.2f", s2.EntryPrice, s2.StopLoss, s2.TakeProfit)
	}
	if s2.Open || s2.ExitReason != ExitStopLoss || s2.ExitPrice != 101 {
		t.Fatalf("step2 exit: open=%v reason=%s price=%.2f", s2.Open, s2.ExitReason, s2.ExitPrice)
	}
	if want := (101.0 - 103.0) * baseQty * 0.3; !approx(s2.RealizedPnL, want) {
		t.Fatalf("step2 pnl: got %.6f want %.6f", s2.RealizedPnL, want)
	}

	if res.Losses != 2 || res.Wins != 0 {
		t.Fatalf("tally: wins %d losses %d", res.Wins, res.Losses)
	}
	if res.Breakouts != 1 {
		t.Fatalf("breakouts: got %d want 1", res.Breakouts)
	}
}

func TestShortBreakoutLevels(t *testing.T) {
	t.Parallel()

	e := testEngine()
	res := runDay(e, orb.TrendDown,
		candle(9, 0, 99.5, 99.8, 97.5, 98), // close below low: SHORT step 1 at 98
	)

	if len(res.Trades) != 1 {
		t.Fatalf("trades: got %d want 1", len(res.Trades))
	}
	s1 := res.Trades[0]
	if s1.Direction != Short {
		t.Fatalf("direction: got %s", s1.Direction)
	}
	// Ladder mirrors below the low: stop at mid, target 5 widths down.
	if s1.EntryPrice != 98 || s1.StopLoss != 100 || s1.TakeProfit != 89 {
		t.Fatalf("levels: entry %.2f stop %.2f target %.2f", s1.EntryPrice, s1.StopLoss, s1.TakeProfit)
	}
	if !s1.Open {
		t.Fatal("trade should remain open when the feed ends")
	}
	if res.Direction != "SHORT" {
		t.Fatalf("direction label: got %q", res.Direction)
	}
}

func TestStopBeatsTargetOnWideCandle(t *testing.T) {
	t.Parallel()

	e := testEngine()
	res := runDay(e, orb.TrendUp,
		candle(9, 0, 101.5, 102.2, 101.2, 102),
		candle(9, 5, 102, 120, 99, 110), // spans stop 100 and target 111
	)

	s1 := res.Trades[0]
	if s1.ExitReason != ExitStopLoss {
		t.Fatalf("exit reason: got %s want %s", s1.ExitReason, ExitStopLoss)
	}
	if s1.ExitPrice != 100 {
		t.Fatalf("exit price: got %.2f want 100", s1.ExitPrice)
	}
}

func TestTakeProfitExit(t *testing.T) {
	t.Parallel()

	e := testEngine()
	res := runDay(e, orb.TrendUp,
		candle(9, 0, 101.5, 102.2, 101.2, 102),
		candle(9, 5, 102, 111.5, 101.5, 111), // target 111 hit, stop 100 untouched
	)

	s1 := res.Trades[0]
	if s1.ExitReason != ExitTakeProfit || s1.ExitPrice != 111 {
		t.Fatalf("exit: reason=%s price=%.2f", s1.ExitReason, s1.ExitPrice)
	}
	if s1.RealizedPnL <= 0 {
		t.Fatalf("pnl should be positive: %.6f", s1.RealizedPnL)
	}
	if res.Wins != 1 {
		t.Fatalf("wins: got %d want 1", res.Wins)
	}
}

func TestReentryRequiresRoundTripInsideRange(t *testing.T) {
	t.Parallel()

	e := testEngine()
	res := runDay(e, orb.TrendUp,
		candle(9, 0, 101.5, 102.2, 101.2, 102),    // breakout LONG
		candle(9, 5, 102, 102.3, 100, 100.2),      // stop hit, book flat
		candle(9, 10, 100.2, 100.9, 100.1, 100.5), // closes inside: round trip done
		candle(9, 15, 100.5, 103.5, 100.3, 103),   // fresh breakout allowed
	)

	if res.Breakouts != 2 {
		t.Fatalf("breakouts: got %d want 2", res.Breakouts)
	}
}

func TestNoReentryWhilePriceStaysOutside(t *testing.T) {
	t.Parallel()

	e := testEngine()
	res := runDay(e, orb.TrendUp,
		candle(9, 0, 101.5, 102.2, 101.2, 102),    // breakout LONG
		candle(9, 5, 102, 102.3, 100, 101.5),      // stop hit intrabar, close above the high
		candle(9, 10, 101.5, 101.9, 101.2, 101.8), // flat but still outside the range
		candle(9, 15, 101.8, 103.5, 101.4, 103),   // closes above the high again
	)

	// Price never closed back inside the range while flat, so the later
	// breakout closes do not start a new episode.
	if res.Breakouts != 1 {
		t.Fatalf("breakouts: got %d want 1", res.Breakouts)
	}
	if res.Direction != "MIXED" {
		t.Fatalf("flat day with breakouts should label MIXED, got %q", res.Direction)
	}
}

func TestNoReentryOnExitCandle(t *testing.T) {
	t.Parallel()

	// The candle that flattens the book cannot also start a new episode,
	// even if its close is back beyond an edge after touching the range.
	e := testEngine()
	res := runDay(e, orb.TrendUp,
		candle(9, 0, 101.5, 102.2, 101.2, 102), // breakout LONG
		candle(9, 5, 102, 103.5, 100, 103),     // stops out intrabar, closes above high
	)

	if res.Breakouts != 1 {
		t.Fatalf("breakouts: got %d want 1", res.Breakouts)
	}
}

func TestMaxBreakoutsPerDay(t *testing.T) {
	t.Parallel()

	e := testEngine()
	// Each cycle: breakout above, stop out, close back inside, repeat.
	cycle := []market.Candle{
		candle(9, 0, 101.5, 102.2, 101.2, 102),
		candle(9, 5, 102, 102.3, 100, 100.2),
		candle(9, 10, 100.2, 100.9, 100.1, 100.5),
	}
	var cs []market.Candle
	for i := 0; i < 5; i++ {
		for _, c := range cycle {
			c.Time = c.Time.Add(time.Duration(i) * 15 * time.Minute)
			cs = append(cs, c)
		}
	}

	res := runDay(e, orb.TrendUp, cs...)
	if res.Breakouts != 3 {
		t.Fatalf("breakouts: got %d want 3 (the cap)", res.Breakouts)
	}
}

func TestEndOfDayClosesAtNextDayHour(t *testing.T) {
	t.Parallel()

	e := testEngine()
	res := e.RunDay(Day{
		Date:     testDate(),
		Range:    testRange,
		Trend:    orb.TrendUp,
		Leverage: 10,
		Candles: []market.Candle{
			candle(9, 0, 101.5, 102.2, 101.2, 102),
			candle(23, 55, 102, 102.5, 101.5, 102.3),
			nextDayCandle(5, 0, 102.3, 102.6, 102.1, 102.4),
		},
	})

	s1 := res.Trades[0]
	if s1.Open || s1.ExitReason != ExitEndOfDay {
		t.Fatalf("exit: open=%v reason=%s", s1.Open, s1.ExitReason)
	}
	if s1.ExitPrice != 102.4 {
		t.Fatalf("exit price: got %.2f want the end-of-day close", s1.ExitPrice)
	}
}

func TestMorningOnlySessionEnd(t *testing.T) {
	t.Parallel()

	p := risk.DefaultPolicy()
	e := NewEngine(Settings{
		Policy:         p,
		EndOfDayHour:   5,
		MorningOnly:    true,
		MorningEndHour: 14,
	})

	res := runDay(e, orb.TrendUp,
		candle(9, 0, 101.5, 102.2, 101.2, 102),
		candle(14, 0, 102, 102.5, 101.5, 102.3), // at the cutoff: close everything
		candle(14, 5, 102.3, 104, 102, 103.8),   // never reached
	)

	s1 := res.Trades[0]
	if s1.Open || s1.ExitReason != ExitSessionEnd || s1.ExitPrice != 102.3 {
		t.Fatalf("exit: open=%v reason=%s price=%.2f", s1.Open, s1.ExitReason, s1.ExitPrice)
	}
	if len(res.Trades) != 1 {
		t.Fatalf("no trades should open after the session end, got %d", len(res.Trades))
	}
}

func TestTrendFilterWithSuppressesOpposing(t *testing.T) {
	t.Parallel()

	p := risk.DefaultPolicy()
	e := NewEngine(Settings{
		Policy:       p,
		TrendFilter:  FilterWith,
		EndOfDayHour: 5,
	})

	// Short breakout against an UP trend is suppressed.
	res := runDay(e, orb.TrendUp,
		candle(9, 0, 99.5, 99.8, 97.5, 98),
	)
	if res.Breakouts != 0 || res.Direction != "NO TRADE" {
		t.Fatalf("suppressed: breakouts=%d direction=%q", res.Breakouts, res.Direction)
	}

	// Long breakout with the trend passes.
	res = runDay(e, orb.TrendUp,
		candle(9, 0, 101.5, 102.2, 101.2, 102),
	)
	if res.Breakouts != 1 {
		t.Fatalf("allowed: breakouts=%d", res.Breakouts)
	}
}

func TestOpposingBreakoutScaledQuantity(t *testing.T) {
	t.Parallel()

	e := testEngine()
	// Short against an UP trend carries the opposing multiplier.
	res := runDay(e, orb.TrendUp,
		candle(9, 0, 99.5, 99.8, 97.5, 98),
	)

	baseQty := risk.BaseQuantity(1000, 10, 98)
	want := baseQty * 1.5 * 0.5
	if got := res.Trades[0].Quantity; !approx(got, want) {
		t.Fatalf("quantity: got %.6f want %.6f", got, want)
	}
}

func TestNoTradeDay(t *testing.T) {
	t.Parallel()

	e := testEngine()
	res := runDay(e, orb.TrendNeutral,
		candle(9, 0, 100, 100.8, 99.4, 100.2),
		candle(9, 5, 100.2, 100.9, 99.6, 100.5),
	)

	if len(res.Trades) != 0 || res.Breakouts != 0 {
		t.Fatalf("trades=%d breakouts=%d", len(res.Trades), res.Breakouts)
	}
	if res.Direction != "NO TRADE" {
		t.Fatalf("direction label: got %q", res.Direction)
	}
	if res.PnL != 0 {
		t.Fatalf("pnl: got %.6f", res.PnL)
	}
}

func TestRunDayDeterministic(t *testing.T) {
	t.Parallel()

	cs := []market.Candle{
		candle(9, 0, 101.5, 102.2, 101.2, 102),
		candle(9, 5, 102, 103, 101.8, 102.5),
		candle(9, 10, 102, 102.3, 100, 100.5),
		candle(9, 15, 100.5, 103.5, 100.3, 103),
	}

	a := runDay(testEngine(), orb.TrendUp, cs...)
	b := runDay(testEngine(), orb.TrendUp, cs...)

	if a.PnL != b.PnL || a.Breakouts != b.Breakouts ||
		a.Wins != b.Wins || a.Losses != b.Losses ||
		len(a.Trades) != len(b.Trades) || a.Direction != b.Direction {
		t.Fatalf("results differ:\n  a=%+v\n  b=%+v", a, b)
	}
	for i := range a.Trades {
		if *a.Trades[i] != *b.Trades[i] {
			t.Fatalf("trade %d differs: %+v vs %+v", i, a.Trades[i], b.Trades[i])
		}
	}
}
